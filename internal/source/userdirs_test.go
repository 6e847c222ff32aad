package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleUserDirs = `# This file is written by xdg-user-dirs-update
# If you want to change or add directories, just edit the line you're
# interested in.
XDG_DESKTOP_DIR="$HOME/Schreibtisch"
XDG_DOWNLOAD_DIR="$HOME/Downloads"
XDG_MUSIC_DIR="/srv/music collection"
broken line
XDG_VIDEOS_DIR="$HOME/Videos
`

func TestParseUserDirs(t *testing.T) {
	t.Parallel()

	dirs, err := ParseUserDirs(strings.NewReader(sampleUserDirs), "/home/u")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/Schreibtisch", dirs["XDG_DESKTOP_DIR"])
	assert.Equal(t, "/home/u/Downloads", dirs["XDG_DOWNLOAD_DIR"])
	assert.Equal(t, "/srv/music collection", dirs["XDG_MUSIC_DIR"])
	assert.NotContains(t, dirs, "XDG_VIDEOS_DIR")
}

func TestDesktopDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "user-dirs.dirs")
	require.NoError(t, os.WriteFile(file, []byte(sampleUserDirs), 0o644))

	assert.Equal(t, "/home/u/Schreibtisch", DesktopDir(file, "/home/u"))
}

func TestDesktopDir_Fallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.Equal(t, "/home/u/Desktop", DesktopDir(filepath.Join(dir, "missing"), "/home/u"))

	file := filepath.Join(dir, "user-dirs.dirs")
	require.NoError(t, os.WriteFile(file, []byte("XDG_DOWNLOAD_DIR=\"$HOME/dl\"\n"), 0o644))
	assert.Equal(t, "/home/u/Desktop", DesktopDir(file, "/home/u"))
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/h", expandHome("$HOME", "/h"))
	assert.Equal(t, "/h/x", expandHome("$HOME/x", "/h"))
	assert.Equal(t, "/h/y", expandHome("~/y", "/h"))
	assert.Equal(t, "/abs", expandHome("/abs", "/h"))
}
