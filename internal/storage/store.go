// Package storage provides SQLite-based persistent storage for quickopen.
// It keeps the picker's own recent-files registry and a journal of picker
// sessions.
package storage

import (
	"context"
	"time"

	"github.com/runger/quickopen/internal/source"
)

// Store defines the interface for all storage operations.
type Store interface {
	source.RecentRegistry

	// Recent files
	RecordOpened(ctx context.Context, f *RecentFile) error
	RecentFiles(ctx context.Context, q RecentQuery) ([]RecentFile, error)
	Forget(ctx context.Context, path string) (int64, error)
	PruneRecent(ctx context.Context, group string, keep int) (int64, error)

	// Sessions
	CreateSession(ctx context.Context, s *PickerSession) error
	EndSession(ctx context.Context, sessionID string, outcome Outcome, path string, endTime int64) error
	GetSession(ctx context.Context, sessionID string) (*PickerSession, error)
	QuerySessions(ctx context.Context, limit int) ([]PickerSession, error)

	// Lifecycle
	Close() error
}

// RecentFile is one row of the recent-files registry.
type RecentFile struct {
	Path             string
	Group            string
	DisplayName      string
	ModifiedAtUnixMs int64
	OpenCount        int
}

// Modified returns the modification time as a time.Time.
func (f RecentFile) Modified() time.Time {
	return time.UnixMilli(f.ModifiedAtUnixMs)
}

// RecentQuery selects recent files.
type RecentQuery struct {
	Group string // Empty matches every group
	Limit int    // 0 means no limit
}

// Outcome is how a picker session ended.
type Outcome string

const (
	OutcomeActivated Outcome = "activated"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// PickerSession records one picker invocation.
type PickerSession struct {
	SessionID       string
	StartedAtUnixMs int64
	EndedAtUnixMs   *int64
	Candidates      int
	MatchMode       string
	Outcome         Outcome
	ActivatedPath   string
}
