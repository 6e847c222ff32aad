package source

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "p", "a.go"))
	b := touch(t, filepath.Join(dir, "p", "b.go"))
	c := touch(t, filepath.Join(dir, "q", "c.go"))

	docs := StaticDocuments{a, b, filepath.Join(dir, "r", "closed.go"), "relative.go", "", c}
	assert.Equal(t, []string{filepath.Join(dir, "p"), filepath.Join(dir, "q")}, DocumentDirectories(docs))
	assert.Nil(t, DocumentDirectories(nil))
}

func TestDocumentDirs_ShallowListingWithoutDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := touch(t, filepath.Join(dir, "proj", "main.go"))
	sibling := touch(t, filepath.Join(dir, "proj", "util.go"))
	touch(t, filepath.Join(dir, "proj", "pkg", "inner.go"))

	files, err := DocumentDirs(context.Background(), StaticDocuments{doc}, DirOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{doc, sibling}, files)
}

func TestReadDocumentList(t *testing.T) {
	t.Parallel()

	docs, err := ReadDocumentList(strings.NewReader("/a/b.txt\n\n  relative\nfile:///c/d.txt\n"))
	require.NoError(t, err)
	assert.Equal(t, StaticDocuments{"/a/b.txt", "/c/d.txt"}, docs)
}
