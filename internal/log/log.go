// Package log provides JSON-lines structured logging for quickopen.
//
// Log format:
//
//	{"ts":"2024-01-15T10:30:00Z","level":"INFO","msg":"session started","session_id":"…"}
//
// Log levels:
//   - debug: Verbose (enabled via QUICKOPEN_DEBUG=1), stale entries
//   - info: Session start, aggregation summary, activation
//   - warn: Unavailable sources, unreadable configuration
//   - error: Failures surfaced to the user
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
		Debug:  false,
	}
}

// New creates a new JSON-lines structured logger.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// NewFromEnv creates a logger configured from environment variables.
// QUICKOPEN_DEBUG=1 enables debug logging.
func NewFromEnv() *slog.Logger {
	cfg := DefaultConfig()
	if os.Getenv("QUICKOPEN_DEBUG") == "1" {
		cfg.Debug = true
	}
	return New(cfg)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config level name onto a slog.Level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OpenFile opens (creating parent directories) an append-only log file.
// The caller owns the returned file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// SessionInfo holds information to log when a picker session starts.
type SessionInfo struct {
	SessionID  string
	Version    string
	ConfigPath string
	Sources    []string
	MatchMode  string
	Documents  int
	PID        int
}

// LogSessionStart logs the start of a picker session.
func LogSessionStart(logger *slog.Logger, info SessionInfo) {
	logger.Info("session started",
		"session_id", info.SessionID,
		"version", info.Version,
		"config_path", info.ConfigPath,
		"sources", info.Sources,
		"match_mode", info.MatchMode,
		"documents", info.Documents,
		"pid", info.PID,
	)
}

// LogSourceUnavailable logs a collector that failed; the source contributes nothing.
func LogSourceUnavailable(logger *slog.Logger, source string, err error) {
	logger.Warn("source unavailable", "source", source, "error", err)
}

// LogSourceCollected logs how many paths a collector produced.
func LogSourceCollected(logger *slog.Logger, source string, count int, durationMs int64) {
	logger.Debug("source collected", "source", source, "count", count, "duration_ms", durationMs)
}

// LogStaleEntry logs a path that vanished or became ineligible before metadata lookup.
func LogStaleEntry(logger *slog.Logger, path string, reason string) {
	logger.Debug("stale entry skipped", "path", path, "reason", reason)
}

// LogAggregated logs the aggregation summary.
func LogAggregated(logger *slog.Logger, sessionID string, candidates, stale int, durationMs int64) {
	logger.Info("candidates aggregated",
		"session_id", sessionID,
		"candidates", candidates,
		"stale", stale,
		"duration_ms", durationMs,
	)
}

// LogConfigUnreadable logs a configuration file that was replaced by defaults.
func LogConfigUnreadable(logger *slog.Logger, configPath string, err error) {
	logger.Warn("config unreadable, using defaults", "config_path", configPath, "error", err)
}

// LogActivated logs the path returned to the host.
func LogActivated(logger *slog.Logger, sessionID, path, query string) {
	logger.Info("candidate activated", "session_id", sessionID, "path", path, "query_len", len(query))
}

// LogCancelled logs a session that ended without a selection.
func LogCancelled(logger *slog.Logger, sessionID string, reason string) {
	logger.Info("session cancelled", "session_id", sessionID, "reason", reason)
}

// LogRecordError logs a failure to store an opened path in the recent registry.
func LogRecordError(logger *slog.Logger, path string, err error) {
	logger.Error("recent registry write failed", "path", path, "error", err)
}
