// Package cmdutil wires the quickopen core to its host environment: the
// configuration, logger, recent-files registries and session journal shared
// by the quickopen and quickopen-picker commands.
package cmdutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/runger/quickopen/internal/config"
	qlog "github.com/runger/quickopen/internal/log"
	"github.com/runger/quickopen/internal/quickopen"
	"github.com/runger/quickopen/internal/source"
	"github.com/runger/quickopen/internal/storage"
)

// Options controls how an Env is opened.
type Options struct {
	// LogOutput receives log records. Nil means stderr, or the log file
	// when LogToFile is set.
	LogOutput io.Writer

	// LogToFile sends logs to the configured log file so a full-screen UI
	// is not disturbed.
	LogToFile bool

	// NoStore skips opening the SQLite registry.
	NoStore bool
}

// Env is the host environment of one command invocation.
type Env struct {
	Paths  *config.Paths
	Config *config.Config
	Logger *slog.Logger

	// Store is nil when the database could not be opened.
	Store storage.Store

	logFile *os.File
}

// Open loads the configuration from paths, builds the logger and opens the
// recent-files database. A database that cannot be opened is logged and
// leaves Store nil; the desktop registry still serves recent files.
func Open(paths *config.Paths, opts Options) (*Env, error) {
	env := &Env{Paths: paths}

	out, err := env.logOutput(opts, "")
	if err != nil {
		return nil, err
	}
	boot := qlog.New(&qlog.Config{Output: out, Level: slog.LevelWarn})
	env.Config = config.LoadFromFile(paths.ConfigFile(), boot)

	if opts.LogToFile && env.Config.Log.File != "" {
		if out, err = env.logOutput(opts, env.Config.Log.File); err != nil {
			return nil, err
		}
	}
	env.Logger = qlog.New(&qlog.Config{
		Output: out,
		Level:  qlog.ParseLevel(env.Config.Log.Level),
		Debug:  os.Getenv("QUICKOPEN_DEBUG") == "1",
	})

	if !opts.NoStore {
		store, err := storage.NewSQLiteStore(paths.DatabaseFile())
		if err != nil {
			env.Logger.Warn("recent database unavailable", "path", paths.DatabaseFile(), "error", err)
		} else {
			env.Store = store
		}
	}
	return env, nil
}

// logOutput picks the log writer, replacing any previously opened file.
func (e *Env) logOutput(opts Options, file string) (io.Writer, error) {
	if opts.LogOutput != nil {
		return opts.LogOutput, nil
	}
	if !opts.LogToFile {
		return os.Stderr, nil
	}
	if file == "" {
		file = e.Paths.LogFile()
	}
	f, err := qlog.OpenFile(file)
	if err != nil {
		return nil, err
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
	e.logFile = f
	return f, nil
}

// Registry returns the recent-files registries: the desktop-wide XBEL file
// and, when open, the quickopen database.
func (e *Env) Registry() source.RecentRegistry {
	reg := source.MultiRegistry{source.XBELRegistry{Path: e.Paths.RecentlyUsedFile()}}
	if e.Store != nil {
		reg = append(reg, e.Store)
	}
	return reg
}

// Deps builds the aggregation inputs for the given open documents.
func (e *Env) Deps(docs source.DocumentProvider) quickopen.Deps {
	return quickopen.DepsFromPaths(e.Paths, e.Registry(), docs, e.Logger)
}

// Record stores path in the quickopen registry under the configured group.
func (e *Env) Record(ctx context.Context, path, displayName string) error {
	if e.Store == nil {
		return errors.New("recent database unavailable")
	}
	err := e.Store.RecordOpened(ctx, &storage.RecentFile{
		Path:        path,
		Group:       e.Config.Picker.RecentGroup,
		DisplayName: displayName,
	})
	if err != nil {
		qlog.LogRecordError(e.Logger, path, err)
		return err
	}
	return e.pruneRecent(ctx)
}

// pruneRecent keeps the registry within the recent-files cap.
func (e *Env) pruneRecent(ctx context.Context) error {
	group := e.Config.Picker.RecentGroup
	if group == "" {
		group = source.DefaultRecentGroup
	}
	_, err := e.Store.PruneRecent(ctx, group, source.MaxRecentFiles)
	return err
}

// JournalEntry describes a finished picker session.
type JournalEntry struct {
	SessionID  string
	Started    time.Time
	Candidates int
	MatchMode  string
	Outcome    storage.Outcome
	Path       string
}

// Journal records a finished session. It is a no-op without a database.
func (e *Env) Journal(ctx context.Context, j JournalEntry) error {
	if e.Store == nil {
		return nil
	}
	if err := e.Store.CreateSession(ctx, &storage.PickerSession{
		SessionID:       j.SessionID,
		StartedAtUnixMs: j.Started.UnixMilli(),
		Candidates:      j.Candidates,
		MatchMode:       j.MatchMode,
	}); err != nil {
		return err
	}
	return e.Store.EndSession(ctx, j.SessionID, j.Outcome, j.Path, time.Now().UnixMilli())
}

// Close releases the database and the log file.
func (e *Env) Close() error {
	var errs []error
	if e.Store != nil {
		errs = append(errs, e.Store.Close())
	}
	if e.logFile != nil {
		errs = append(errs, e.logFile.Close())
	}
	return errors.Join(errs...)
}
