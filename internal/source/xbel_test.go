package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXBEL = `<?xml version="1.0" encoding="UTF-8"?>
<xbel version="1.0"
      xmlns:bookmark="http://www.freedesktop.org/standards/desktop-bookmarks"
      xmlns:mime="http://www.freedesktop.org/standards/shared-mime-info">
  <bookmark href="file:///home/u/src/main.c" added="2024-03-01T10:00:00Z" modified="2024-03-02T11:00:00.123456Z" visited="2024-03-02T11:00:00Z">
    <title>main.c</title>
    <info>
      <metadata owner="http://freedesktop.org">
        <mime:mime-type type="text/x-csrc"/>
        <bookmark:groups>
          <bookmark:group>geany</bookmark:group>
        </bookmark:groups>
        <bookmark:applications>
          <bookmark:application name="Geany" exec="&apos;geany %u&apos;" modified="2024-03-02T11:00:00Z" count="3"/>
        </bookmark:applications>
      </metadata>
    </info>
  </bookmark>
  <bookmark href="file:///home/u/photo.png" added="2024-02-01T10:00:00Z">
    <info>
      <metadata owner="http://freedesktop.org">
        <bookmark:applications>
          <bookmark:application name="eog" exec="eog %u" modified="2024-02-01T10:00:00Z" count="1"/>
        </bookmark:applications>
      </metadata>
    </info>
  </bookmark>
  <bookmark href="">
  </bookmark>
</xbel>`

func TestParseXBEL(t *testing.T) {
	t.Parallel()

	entries, err := ParseXBEL(strings.NewReader(sampleXBEL))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "file:///home/u/src/main.c", first.URI)
	assert.Equal(t, "main.c", first.DisplayName)
	assert.True(t, first.HasGroup("geany"))
	assert.True(t, first.HasGroup("Geany"))
	assert.Equal(t, time.Date(2024, 3, 2, 11, 0, 0, 123456000, time.UTC), first.Modified.UTC())

	second := entries[1]
	assert.False(t, second.HasGroup("geany"))
	assert.True(t, second.HasGroup("eog"))
	// Falls back to the added timestamp.
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), second.Modified.UTC())
}

func TestParseXBEL_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseXBEL(strings.NewReader("<xbel><bookmark href="))
	assert.Error(t, err)
}

func TestParseXBEL_Empty(t *testing.T) {
	t.Parallel()

	entries, err := ParseXBEL(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestXBELRegistry_MissingFile(t *testing.T) {
	t.Parallel()

	reg := XBELRegistry{Path: filepath.Join(t.TempDir(), "recently-used.xbel")}
	entries, err := reg.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestXBELRegistry_FeedsRecentFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	older := touch(t, filepath.Join(dir, "older.txt"))
	newer := touch(t, filepath.Join(dir, "newer.txt"))

	doc := `<xbel version="1.0" xmlns:bookmark="http://www.freedesktop.org/standards/desktop-bookmarks">
<bookmark href="` + URIFromPath(older) + `" modified="2024-01-01T00:00:00Z"><info><metadata><bookmark:groups><bookmark:group>geany</bookmark:group></bookmark:groups></metadata></info></bookmark>
<bookmark href="` + URIFromPath(newer) + `" modified="2024-06-01T00:00:00Z"><info><metadata><bookmark:groups><bookmark:group>geany</bookmark:group></bookmark:groups></metadata></info></bookmark>
</xbel>`
	path := filepath.Join(dir, "recently-used.xbel")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	res, err := RecentFiles(context.Background(), XBELRegistry{Path: path}, RecentOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{newer, older}, res.Paths)
}
