package cmdutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/quickopen/internal/source"
)

func TestLoadDocuments_Flags(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	docs, err := LoadDocuments([]string{"/tmp/a.txt", "", "file:///tmp/b.txt", "rel.txt"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, source.StaticDocuments{
		"/tmp/a.txt",
		"/tmp/b.txt",
		filepath.Join(wd, "rel.txt"),
	}, docs)
}

func TestLoadDocuments_Stdin(t *testing.T) {
	stdin := strings.NewReader("/x/one.go\n\nrelative\n/x/two.go\n")
	docs, err := LoadDocuments([]string{"/x/zero.go"}, "-", stdin)
	require.NoError(t, err)
	assert.Equal(t, source.StaticDocuments{"/x/zero.go", "/x/one.go", "/x/two.go"}, docs)
}

func TestLoadDocuments_File(t *testing.T) {
	list := filepath.Join(t.TempDir(), "docs.txt")
	require.NoError(t, os.WriteFile(list, []byte("/y/a.md\n"), 0o644))

	docs, err := LoadDocuments(nil, list, nil)
	require.NoError(t, err)
	assert.Equal(t, source.StaticDocuments{"/y/a.md"}, docs)
}

func TestLoadDocuments_MissingFile(t *testing.T) {
	_, err := LoadDocuments(nil, filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--docs-from")
}
