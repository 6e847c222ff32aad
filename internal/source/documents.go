package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DocumentProvider supplies the absolute paths of documents open in the host.
type DocumentProvider interface {
	OpenDocuments() []string
}

// StaticDocuments is a fixed list of open documents.
type StaticDocuments []string

// OpenDocuments implements DocumentProvider.
func (s StaticDocuments) OpenDocuments() []string {
	return s
}

// ReadDocumentList reads one path per line, skipping blanks and relative paths.
func ReadDocumentList(rd io.Reader) (StaticDocuments, error) {
	var docs StaticDocuments
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if path, err := PathFromURI(line); err == nil {
			docs = append(docs, path)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document list: %w", err)
	}
	return docs, nil
}

// DocumentDirectories returns the distinct parent directories of the open
// documents that still exist, in first-seen order.
func DocumentDirectories(p DocumentProvider) []string {
	if p == nil {
		return nil
	}
	var dirs []string
	seen := make(map[string]struct{})
	for _, doc := range p.OpenDocuments() {
		if doc == "" || !filepath.IsAbs(doc) {
			continue
		}
		if _, err := os.Stat(doc); err != nil {
			continue
		}
		dir := filepath.Dir(filepath.Clean(doc))
		if _, dup := seen[dir]; dup {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

// DocumentDirs lists the directories of every open document.
// Directories that cannot be listed are skipped.
func DocumentDirs(ctx context.Context, p DocumentProvider, opts DirOptions) ([]string, error) {
	return listDirs(ctx, DocumentDirectories(p), opts)
}
