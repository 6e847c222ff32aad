package quickopen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_RegularFile(t *testing.T) {
	t.Parallel()

	path := touch(t, filepath.Join(t.TempDir(), "notes.md"))
	c, ok := Resolve(path, "")
	require.True(t, ok)
	assert.Equal(t, path, c.Path)
	assert.Equal(t, "notes.md", c.DisplayName)
	assert.Equal(t, KindText, c.Kind)
	assert.Equal(t, -1, c.RecencyRank)
}

func TestResolve_UsesHint(t *testing.T) {
	t.Parallel()

	path := touch(t, filepath.Join(t.TempDir(), "x.c"))
	c, ok := Resolve(path, "Main Program")
	require.True(t, ok)
	assert.Equal(t, "Main Program", c.DisplayName)

	// A hint that sanitises to nothing falls back to the base name.
	c, ok = Resolve(path, "\x1b[0m")
	require.True(t, ok)
	assert.Equal(t, "x.c", c.DisplayName)
}

func TestResolve_SanitisesName(t *testing.T) {
	t.Parallel()

	path := touch(t, filepath.Join(t.TempDir(), "evil\x1b[31mred.txt"))
	c, ok := Resolve(path, "")
	require.True(t, ok)
	assert.Equal(t, "evilred.txt", c.DisplayName)
}

func TestResolve_Rejects(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := touch(t, filepath.Join(dir, "target.txt"))
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))
	dangling := filepath.Join(dir, "dangling")
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), dangling))
	dirLink := filepath.Join(dir, "dirlink")
	require.NoError(t, os.Symlink(dir, dirLink))

	_, ok := Resolve(filepath.Join(dir, "missing.txt"), "")
	assert.False(t, ok, "missing file")

	_, ok = Resolve(dir, "")
	assert.False(t, ok, "directory")

	_, ok = Resolve(link, "")
	assert.False(t, ok, "symlink under default policy")

	c, ok := Resolver{FollowSymlinks: true}.Resolve(link, "")
	require.True(t, ok, "symlink when following")
	assert.Equal(t, "link.txt", c.DisplayName)

	_, ok = Resolver{FollowSymlinks: true}.Resolve(dangling, "")
	assert.False(t, ok, "dangling symlink")

	_, ok = Resolver{FollowSymlinks: true}.Resolve(dirLink, "")
	assert.False(t, ok, "symlink to directory")
}
