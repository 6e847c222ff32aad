package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaxDepthLimit bounds recursive listings.
const MaxDepthLimit = 16

// DirOptions controls how directory-based sources list files.
type DirOptions struct {
	// Recursive descends into subdirectories up to MaxDepth levels.
	Recursive bool

	// MaxDepth counts the root as level 1. Ignored unless Recursive.
	MaxDepth int

	// IncludeHidden keeps dot files and descends into dot directories.
	IncludeHidden bool

	// FollowSymlinks keeps symbolic links that point at regular files.
	FollowSymlinks bool
}

// DirectoryFiles lists the regular files of dir.
//
// Directories, symbolic links (unless FollowSymlinks) and special files are
// excluded. Entries that disappear while listing are dropped silently, as are
// unreadable subdirectories. An unreadable root is an error.
func DirectoryFiles(ctx context.Context, dir string, opts DirOptions) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	if !opts.Recursive || opts.MaxDepth <= 1 {
		files := make([]string, 0, len(entries))
		for _, d := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !opts.IncludeHidden && isHidden(d.Name()) {
				continue
			}
			path := filepath.Join(root, d.Name())
			if d.IsDir() {
				continue
			}
			if keepFile(path, d, opts) {
				files = append(files, path)
			}
		}
		return files, nil
	}

	maxDepth := min(opts.MaxDepth, MaxDepthLimit)
	files := make([]string, 0, len(entries))
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if !opts.IncludeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if depthOf(root, path) > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if keepFile(path, d, opts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func keepFile(path string, d fs.DirEntry, opts DirOptions) bool {
	mode := d.Type()
	if mode&fs.ModeSymlink != 0 {
		if !opts.FollowSymlinks {
			return false
		}
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	}
	return mode.IsRegular()
}

// depthOf returns the level of dir below root, the root being level 1.
func depthOf(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 1
	}
	return strings.Count(rel, string(filepath.Separator)) + 2
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
