// Package source implements the candidate collectors of the quick-open picker.
//
// Every collector returns the absolute paths it found and an error when the
// source as a whole could not be read. Collectors do not deduplicate or look
// up metadata; that happens once all of them have finished.
package source

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Kind identifies a candidate source.
type Kind string

const (
	KindRecent    Kind = "recent"
	KindDocuments Kind = "documents"
	KindDesktop   Kind = "desktop"
	KindHome      Kind = "home"
	KindBookmarks Kind = "bookmarks"
)

// AllKinds lists the sources in the order they are collected and merged.
var AllKinds = []Kind{KindRecent, KindDocuments, KindDesktop, KindHome, KindBookmarks}

// ErrNotLocal is returned for URIs that do not name a local file.
var ErrNotLocal = errors.New("not a local file URI")

// PathFromURI converts a file:// URI into a cleaned absolute path.
// Plain absolute paths are accepted as-is.
func PathFromURI(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", fmt.Errorf("empty uri: %w", ErrNotLocal)
	}
	if filepath.IsAbs(uri) {
		return filepath.Clean(uri), nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%s: %w", uri, ErrNotLocal)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("remote host %q: %w", u.Host, ErrNotLocal)
	}
	if u.Path == "" || !filepath.IsAbs(filepath.FromSlash(u.Path)) {
		return "", fmt.Errorf("%s: %w", uri, ErrNotLocal)
	}
	return filepath.Clean(filepath.FromSlash(u.Path)), nil
}

// URIFromPath returns the file:// URI for an absolute path.
func URIFromPath(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
