package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/runger/quickopen/internal/source"
)

// RecordOpened upserts f into the registry, bumping its open count.
// A zero ModifiedAtUnixMs means now; an empty Group means the default group.
func (s *SQLiteStore) RecordOpened(ctx context.Context, f *RecentFile) error {
	if f == nil {
		return errors.New("recent file cannot be nil")
	}
	if f.Path == "" {
		return errors.New("path is required")
	}
	if !filepath.IsAbs(f.Path) {
		return fmt.Errorf("path must be absolute: %s", f.Path)
	}
	group := strings.TrimSpace(f.Group)
	if group == "" {
		group = source.DefaultRecentGroup
	}
	modified := f.ModifiedAtUnixMs
	if modified == 0 {
		modified = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recent_files (path, app_group, display_name, modified_at_unix_ms, open_count)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(path, app_group) DO UPDATE SET
			modified_at_unix_ms = MAX(modified_at_unix_ms, excluded.modified_at_unix_ms),
			display_name = CASE WHEN excluded.display_name != '' THEN excluded.display_name ELSE display_name END,
			open_count = open_count + 1
	`, filepath.Clean(f.Path), group, f.DisplayName, modified)
	if err != nil {
		return fmt.Errorf("failed to record opened file: %w", err)
	}
	return nil
}

// RecentFiles returns registry rows, most recently modified first.
func (s *SQLiteStore) RecentFiles(ctx context.Context, q RecentQuery) ([]RecentFile, error) {
	query := `
		SELECT path, app_group, display_name, modified_at_unix_ms, open_count
		FROM recent_files`
	var args []any
	if q.Group != "" {
		query += ` WHERE app_group = ?`
		args = append(args, q.Group)
	}
	query += ` ORDER BY modified_at_unix_ms DESC, path ASC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent files: %w", err)
	}
	defer rows.Close()

	var files []RecentFile
	for rows.Next() {
		var f RecentFile
		if err := rows.Scan(&f.Path, &f.Group, &f.DisplayName, &f.ModifiedAtUnixMs, &f.OpenCount); err != nil {
			return nil, fmt.Errorf("failed to scan recent file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent files: %w", err)
	}
	return files, nil
}

// Entries implements source.RecentRegistry. Rows of one path in several
// groups are reported as a single entry carrying every group.
func (s *SQLiteStore) Entries(ctx context.Context) ([]source.RecentEntry, error) {
	files, err := s.RecentFiles(ctx, RecentQuery{})
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(files))
	entries := make([]source.RecentEntry, 0, len(files))
	for _, f := range files {
		if i, ok := index[f.Path]; ok {
			entries[i].Groups = append(entries[i].Groups, f.Group)
			continue
		}
		index[f.Path] = len(entries)
		entries = append(entries, source.RecentEntry{
			URI:         source.URIFromPath(f.Path),
			Modified:    f.Modified(),
			Groups:      []string{f.Group},
			DisplayName: f.DisplayName,
		})
	}
	return entries, nil
}

// Forget removes path from every group and returns the number of rows deleted.
func (s *SQLiteStore) Forget(ctx context.Context, path string) (int64, error) {
	if path == "" {
		return 0, errors.New("path is required")
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM recent_files WHERE path = ?`, filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("failed to forget recent file: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// PruneRecent keeps the keep most recent rows of group and deletes the rest.
func (s *SQLiteStore) PruneRecent(ctx context.Context, group string, keep int) (int64, error) {
	if group == "" {
		return 0, errors.New("group is required")
	}
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM recent_files
		WHERE app_group = ? AND path NOT IN (
			SELECT path FROM recent_files
			WHERE app_group = ?
			ORDER BY modified_at_unix_ms DESC, path ASC
			LIMIT ?
		)
	`, group, group, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune recent files: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
