package quickopen

import (
	"context"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/runger/quickopen/internal/config"
	qlog "github.com/runger/quickopen/internal/log"
	"github.com/runger/quickopen/internal/source"
)

// Deps carries the host-provided inputs of an aggregation.
type Deps struct {
	// Recent is the recent-files registry.
	Recent source.RecentRegistry

	// Documents lists the documents open in the host.
	Documents source.DocumentProvider

	// Home is the user's home directory.
	Home string

	// UserDirsFile is the xdg-user-dirs file locating the desktop directory.
	UserDirsFile string

	// BookmarksFiles are the GTK bookmark files in lookup order.
	BookmarksFiles []string

	// Logger receives source and stale-entry diagnostics. Nil discards them.
	Logger *slog.Logger

	// SessionID tags the summary log line.
	SessionID string
}

// DepsFromPaths fills the filesystem locations of Deps from paths.
func DepsFromPaths(paths *config.Paths, recent source.RecentRegistry, docs source.DocumentProvider, logger *slog.Logger) Deps {
	return Deps{
		Recent:         recent,
		Documents:      docs,
		Home:           config.HomeDir(),
		UserDirsFile:   paths.UserDirsFile(),
		BookmarksFiles: paths.BookmarksFiles(),
		Logger:         logger,
	}
}

// Batch is the output of one collector.
type Batch struct {
	Source source.Kind
	Paths  []string

	// Names holds display-name hints keyed by path.
	Names map[string]string

	// Ranked marks Paths as ordered most recent first.
	Ranked bool
}

// Entry is a merged, not yet resolved path.
type Entry struct {
	Path        string
	Sources     SourceSet
	Hint        string
	RecencyRank int
}

// Result is the outcome of an aggregation.
type Result struct {
	// Candidates are unique by path and ordered for presentation.
	Candidates []Candidate

	// Stale counts merged paths dropped by the resolver.
	Stale int

	// Unavailable records the sources that failed and why.
	Unavailable map[source.Kind]error
}

// EnabledSources returns the sources switched on in cfg, in collection order.
func EnabledSources(cfg *config.Config) []source.Kind {
	flags := map[source.Kind]bool{
		source.KindRecent:    cfg.Sources.IncludeRecentFiles,
		source.KindDocuments: cfg.Sources.IncludeOpenDocumentDirFiles,
		source.KindDesktop:   cfg.Sources.IncludeDesktopDirFiles,
		source.KindHome:      cfg.Sources.IncludeHomeDirFiles,
		source.KindBookmarks: cfg.Sources.IncludeBookmarkDirFiles,
	}
	var kinds []source.Kind
	for _, k := range source.AllKinds {
		if flags[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// DirOptions derives the directory listing policy from cfg.
func DirOptions(cfg *config.Config) source.DirOptions {
	return source.DirOptions{
		Recursive:      cfg.Picker.Recursive,
		MaxDepth:       cfg.Picker.MaxDepth,
		IncludeHidden:  cfg.Picker.IncludeHidden,
		FollowSymlinks: cfg.Picker.FollowSymlinks,
	}
}

// Aggregate runs the enabled collectors concurrently, merges their output,
// resolves metadata and orders the candidates.
//
// A failing collector is logged and contributes nothing. If ctx is done
// before the merge, partial results are discarded and ctx.Err() returned.
func Aggregate(ctx context.Context, cfg *config.Config, deps Deps) (*Result, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = qlog.Discard()
	}
	start := time.Now()

	kinds := EnabledSources(cfg)
	batches := make([]Batch, len(kinds))
	failures := make([]error, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			t0 := time.Now()
			b, err := collect(gctx, kind, cfg, deps)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				qlog.LogSourceUnavailable(logger, string(kind), err)
				return nil
			}
			batches[i] = b
			qlog.LogSourceCollected(logger, string(kind), len(b.Paths), time.Since(t0).Milliseconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Unavailable: make(map[source.Kind]error)}
	for i, err := range failures {
		if err != nil {
			result.Unavailable[kinds[i]] = err
		}
	}

	resolver := Resolver{FollowSymlinks: cfg.Picker.FollowSymlinks}
	result.Candidates, result.Stale = resolveAll(Merge(batches...), resolver, logger)
	Order(result.Candidates)

	qlog.LogAggregated(logger, deps.SessionID, len(result.Candidates), result.Stale, time.Since(start).Milliseconds())
	return result, nil
}

func collect(ctx context.Context, kind source.Kind, cfg *config.Config, deps Deps) (Batch, error) {
	b := Batch{Source: kind}
	opts := DirOptions(cfg)

	var err error
	switch kind {
	case source.KindRecent:
		var res source.RecentResult
		res, err = source.RecentFiles(ctx, deps.Recent, source.RecentOptions{
			Group:          cfg.Picker.RecentGroup,
			Limit:          cfg.Picker.MaxRecentFiles,
			FollowSymlinks: cfg.Picker.FollowSymlinks,
		})
		b.Paths, b.Names, b.Ranked = res.Paths, res.Names, true
	case source.KindDocuments:
		b.Paths, err = source.DocumentDirs(ctx, deps.Documents, opts)
	case source.KindDesktop:
		if deps.Home == "" {
			return b, source.ErrNoHome
		}
		b.Paths, err = source.DirectoryFiles(ctx, source.DesktopDir(deps.UserDirsFile, deps.Home), opts)
	case source.KindHome:
		if deps.Home == "" {
			return b, source.ErrNoHome
		}
		b.Paths, err = source.DirectoryFiles(ctx, deps.Home, opts)
	case source.KindBookmarks:
		b.Paths, err = source.BookmarkDirs(ctx, deps.BookmarksFiles, opts)
	}
	return b, err
}

// resolveAll turns merged entries into candidates, dropping the ones the
// resolver rejects. It returns the candidates and the number dropped.
func resolveAll(entries []Entry, r Resolver, logger *slog.Logger) ([]Candidate, int) {
	cands := make([]Candidate, 0, len(entries))
	stale := 0
	for _, e := range entries {
		c, ok := r.Resolve(e.Path, e.Hint)
		if !ok {
			stale++
			qlog.LogStaleEntry(logger, e.Path, "unresolvable")
			continue
		}
		c.RecencyRank = e.RecencyRank
		c.Sources = e.Sources
		cands = append(cands, c)
	}
	return cands, stale
}

// Merge combines batches into entries unique by canonical absolute path,
// sorted by path. The result does not depend on the order of batches.
func Merge(batches ...Batch) []Entry {
	merged := make(map[string]*Entry)
	for _, b := range batches {
		var ranks map[string]int
		if b.Ranked {
			ranks = RecencyRanks(canonicalAll(b.Paths), source.MaxRecentFiles)
		}
		for _, p := range b.Paths {
			path, ok := canonical(p)
			if !ok {
				continue
			}
			e := merged[path]
			if e == nil {
				e = &Entry{Path: path, RecencyRank: -1}
				merged[path] = e
			}
			e.Sources = e.Sources.With(b.Source)
			if hint := b.Names[p]; hint != "" && (e.Hint == "" || hint < e.Hint) {
				e.Hint = hint
			}
			if r, ok := ranks[path]; ok && (e.RecencyRank < 0 || r < e.RecencyRank) {
				e.RecencyRank = r
			}
		}
	}

	keys := slices.Sorted(maps.Keys(merged))
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = *merged[k]
	}
	return entries
}

func canonical(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	return filepath.Clean(abs), true
}

func canonicalAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if c, ok := canonical(p); ok {
			out = append(out, c)
		}
	}
	return out
}
