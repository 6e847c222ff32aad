package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseBookmarks reads a GTK bookmarks file: one URI per line, optionally
// followed by a space and a label. Non-local URIs are skipped.
func ParseBookmarks(rd io.Reader) ([]string, error) {
	var dirs []string
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		uri, _, _ := strings.Cut(line, " ")
		path, err := PathFromURI(uri)
		if err != nil {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		dirs = append(dirs, path)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan bookmarks: %w", err)
	}
	return dirs, nil
}

// ReadBookmarks parses the first bookmarks file that exists.
// No file at all yields no directories.
func ReadBookmarks(files []string) ([]string, error) {
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("open bookmarks: %w", err)
		}
		dirs, err := ParseBookmarks(f)
		f.Close()
		return dirs, err
	}
	return nil, nil
}

// BookmarkDirs lists the files of every bookmarked directory.
// Bookmarks that cannot be listed are skipped.
func BookmarkDirs(ctx context.Context, files []string, opts DirOptions) ([]string, error) {
	dirs, err := ReadBookmarks(files)
	if err != nil {
		return nil, err
	}
	return listDirs(ctx, dirs, opts)
}

func listDirs(ctx context.Context, dirs []string, opts DirOptions) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		files, err := DirectoryFiles(ctx, dir, opts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		out = append(out, files...)
	}
	return out, nil
}
