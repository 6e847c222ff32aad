package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// DefaultRecentGroup is the application group recent entries must carry.
const DefaultRecentGroup = "geany"

// MaxRecentFiles caps how many existing recent entries are collected.
const MaxRecentFiles = 200

// RecentEntry is one item of a recent-files registry.
type RecentEntry struct {
	URI         string
	Modified    time.Time
	Groups      []string
	DisplayName string
}

// HasGroup reports whether the entry is tagged with group.
func (e RecentEntry) HasGroup(group string) bool {
	return slices.Contains(e.Groups, group)
}

// RecentRegistry supplies recent-files entries.
type RecentRegistry interface {
	Entries(ctx context.Context) ([]RecentEntry, error)
}

// RecentOptions configures RecentFiles.
type RecentOptions struct {
	// Group filters entries by application group. Empty means DefaultRecentGroup.
	Group string

	// Limit caps the number of kept entries. Values outside 1..MaxRecentFiles
	// mean MaxRecentFiles.
	Limit int

	// FollowSymlinks counts symbolic links to files. Otherwise a link is
	// skipped before it can take a place under the limit.
	FollowSymlinks bool

	// Exists reports whether a path is a usable file. Defaults to an Lstat
	// check honouring FollowSymlinks.
	Exists func(path string) bool
}

// RecentResult is the ordered output of RecentFiles.
type RecentResult struct {
	// Paths is ordered by modification time, most recent first.
	Paths []string

	// Names holds registry-supplied display names keyed by path.
	Names map[string]string
}

// RecentFiles collects recently used files from reg.
//
// Entries not tagged with the group, non-local URIs and paths that no longer
// exist are skipped. Entries are ordered by Modified descending and only
// existing paths count toward the limit.
func RecentFiles(ctx context.Context, reg RecentRegistry, opts RecentOptions) (RecentResult, error) {
	result := RecentResult{Names: make(map[string]string)}
	if reg == nil {
		return result, errors.New("no recent registry")
	}

	entries, err := reg.Entries(ctx)
	if err != nil {
		return result, fmt.Errorf("read recent registry: %w", err)
	}

	group := opts.Group
	if strings.TrimSpace(group) == "" {
		group = DefaultRecentGroup
	}
	limit := opts.Limit
	if limit <= 0 || limit > MaxRecentFiles {
		limit = MaxRecentFiles
	}
	exists := opts.Exists
	if exists == nil {
		exists = func(path string) bool { return isFile(path, opts.FollowSymlinks) }
	}

	filtered := make([]RecentEntry, 0, len(entries))
	for _, e := range entries {
		if e.HasGroup(group) {
			filtered = append(filtered, e)
		}
	}
	slices.SortStableFunc(filtered, func(a, b RecentEntry) int {
		return b.Modified.Compare(a.Modified)
	})

	seen := make(map[string]struct{}, len(filtered))
	for _, e := range filtered {
		if len(result.Paths) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return RecentResult{}, err
		}
		path, err := PathFromURI(e.URI)
		if err != nil {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		if !exists(path) {
			continue
		}
		seen[path] = struct{}{}
		result.Paths = append(result.Paths, path)
		if name := strings.TrimSpace(e.DisplayName); name != "" {
			result.Names[path] = name
		}
	}
	return result, nil
}

// isFile reports whether path exists and is not a directory. Symbolic links
// are followed only when follow is set.
func isFile(path string, follow bool) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if !follow {
			return false
		}
		if info, err = os.Stat(path); err != nil {
			return false
		}
	}
	return !info.IsDir()
}

// MultiRegistry concatenates the entries of several registries.
// A failing member is skipped; the call fails only when every member fails.
type MultiRegistry []RecentRegistry

// Entries implements RecentRegistry.
func (m MultiRegistry) Entries(ctx context.Context) ([]RecentEntry, error) {
	var (
		all  []RecentEntry
		errs []error
	)
	for _, reg := range m {
		if reg == nil {
			continue
		}
		entries, err := reg.Entries(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		all = append(all, entries...)
	}
	if len(errs) > 0 && len(errs) == len(m) {
		return nil, errors.Join(errs...)
	}
	return all, nil
}

// StaticRegistry is an in-memory RecentRegistry.
type StaticRegistry []RecentEntry

// Entries implements RecentRegistry.
func (s StaticRegistry) Entries(context.Context) ([]RecentEntry, error) {
	return slices.Clone(s), nil
}
