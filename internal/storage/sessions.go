package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session is not found.
var ErrSessionNotFound = errors.New("session not found")

// errSessionIDRequired is the validation message for a missing session_id.
const errSessionIDRequired = "session_id is required"

// CreateSession creates a new picker session record.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *PickerSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.SessionID == "" {
		return errors.New(errSessionIDRequired)
	}
	if session.StartedAtUnixMs <= 0 {
		return errors.New("started_at is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO picker_sessions (
			session_id, started_at_unix_ms, ended_at_unix_ms,
			candidate_count, match_mode, outcome, activated_path
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		session.SessionID,
		session.StartedAtUnixMs,
		session.EndedAtUnixMs,
		session.Candidates,
		session.MatchMode,
		string(session.Outcome),
		nullableString(session.ActivatedPath),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("session with id %s already exists", session.SessionID)
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// EndSession records how a session ended.
func (s *SQLiteStore) EndSession(ctx context.Context, sessionID string, outcome Outcome, path string, endTime int64) error {
	if sessionID == "" {
		return errors.New(errSessionIDRequired)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE picker_sessions
		SET ended_at_unix_ms = ?, outcome = ?, activated_path = ?
		WHERE session_id = ?
	`, endTime, string(outcome), nullableString(path), sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*PickerSession, error) {
	if sessionID == "" {
		return nil, errors.New(errSessionIDRequired)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, started_at_unix_ms, ended_at_unix_ms,
		       candidate_count, match_mode, outcome, activated_path
		FROM picker_sessions WHERE session_id = ?
	`, sessionID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// QuerySessions returns the most recent sessions first.
func (s *SQLiteStore) QuerySessions(ctx context.Context, limit int) ([]PickerSession, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, started_at_unix_ms, ended_at_unix_ms,
		       candidate_count, match_mode, outcome, activated_path
		FROM picker_sessions
		ORDER BY started_at_unix_ms DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []PickerSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*PickerSession, error) {
	var (
		session   PickerSession
		endedAt   sql.NullInt64
		outcome   string
		activated sql.NullString
	)
	err := row.Scan(
		&session.SessionID,
		&session.StartedAtUnixMs,
		&endedAt,
		&session.Candidates,
		&session.MatchMode,
		&outcome,
		&activated,
	)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		session.EndedAtUnixMs = &endedAt.Int64
	}
	session.Outcome = Outcome(outcome)
	if activated.Valid {
		session.ActivatedPath = activated.String
	}
	return &session, nil
}
