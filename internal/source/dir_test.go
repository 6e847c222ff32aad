package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree creates:
//
//	root/a.txt
//	root/.hidden
//	root/sub/b.txt
//	root/sub/deeper/c.txt
//	root/.dotdir/d.txt
//	root/link -> a.txt
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.txt"))
	touch(t, filepath.Join(root, ".hidden"))
	touch(t, filepath.Join(root, "sub", "b.txt"))
	touch(t, filepath.Join(root, "sub", "deeper", "c.txt"))
	touch(t, filepath.Join(root, ".dotdir", "d.txt"))
	require.NoError(t, os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link")))
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	sort.Strings(out)
	return out
}

func TestDirectoryFiles_Shallow(t *testing.T) {
	t.Parallel()

	root := makeTree(t)
	files, err := DirectoryFiles(context.Background(), root, DirOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, rel(t, root, files))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f))
	}
}

func TestDirectoryFiles_IncludeHidden(t *testing.T) {
	t.Parallel()

	root := makeTree(t)
	files, err := DirectoryFiles(context.Background(), root, DirOptions{IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden", "a.txt"}, rel(t, root, files))
}

func TestDirectoryFiles_FollowSymlinks(t *testing.T) {
	t.Parallel()

	root := makeTree(t)
	files, err := DirectoryFiles(context.Background(), root, DirOptions{FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "link"}, rel(t, root, files))
}

func TestDirectoryFiles_Recursive(t *testing.T) {
	t.Parallel()

	root := makeTree(t)

	files, err := DirectoryFiles(context.Background(), root, DirOptions{Recursive: true, MaxDepth: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, rel(t, root, files))

	files, err = DirectoryFiles(context.Background(), root, DirOptions{Recursive: true, MaxDepth: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/b.txt", "sub/deeper/c.txt"}, rel(t, root, files))

	files, err = DirectoryFiles(context.Background(), root, DirOptions{Recursive: true, MaxDepth: 3, IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".dotdir/d.txt", ".hidden", "a.txt", "sub/b.txt", "sub/deeper/c.txt"}, rel(t, root, files))
}

func TestDirectoryFiles_UnreadableRoot(t *testing.T) {
	t.Parallel()

	_, err := DirectoryFiles(context.Background(), filepath.Join(t.TempDir(), "missing"), DirOptions{})
	assert.Error(t, err)

	_, err = DirectoryFiles(context.Background(), filepath.Join(t.TempDir(), "missing"), DirOptions{Recursive: true, MaxDepth: 4})
	assert.Error(t, err)
}

func TestDirectoryFiles_Cancelled(t *testing.T) {
	t.Parallel()

	root := makeTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirectoryFiles(ctx, root, DirOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDepthOf(t *testing.T) {
	t.Parallel()

	root := "/r"
	assert.Equal(t, 1, depthOf(root, "/r"))
	assert.Equal(t, 2, depthOf(root, "/r/a"))
	assert.Equal(t, 3, depthOf(root, "/r/a/b"))
}
