package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_files (
    path              TEXT PRIMARY KEY,
    extension         TEXT NOT NULL,
    codec             TEXT NOT NULL DEFAULT '',
    bitrate_kbps      INTEGER NOT NULL DEFAULT 0,
    size_bytes        INTEGER NOT NULL DEFAULT 0,
    duration_seconds  REAL NOT NULL DEFAULT 0,
    width             INTEGER NOT NULL DEFAULT 0,
    height            INTEGER NOT NULL DEFAULT 0,
    frames_per_second REAL NOT NULL DEFAULT 0,
    action            TEXT NOT NULL,
    created_at        TEXT NOT NULL,
    updated_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pending_files_action ON pending_files(action);
`

// Store manages pending-work persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the pending-work database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create queue directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Upsert inserts or replaces the record for file.Path. Replacing keeps
// the original created_at so the queue remembers when work was first owed.
func (s *Store) Upsert(ctx context.Context, file PendingFile) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO pending_files (
            path, extension, codec, bitrate_kbps, size_bytes, duration_seconds,
            width, height, frames_per_second, action, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            extension = excluded.extension,
            codec = excluded.codec,
            bitrate_kbps = excluded.bitrate_kbps,
            size_bytes = excluded.size_bytes,
            duration_seconds = excluded.duration_seconds,
            width = excluded.width,
            height = excluded.height,
            frames_per_second = excluded.frames_per_second,
            action = excluded.action,
            updated_at = excluded.updated_at`,
		file.Path,
		file.Extension,
		file.Info.Codec,
		file.Info.BitrateKbps,
		file.Info.SizeBytes,
		file.Info.DurationSeconds,
		file.Info.Width,
		file.Info.Height,
		file.Info.FramesPerSecond,
		string(file.Action),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", file.Path, err)
	}
	return nil
}

// Remove deletes the record for path. Removing an absent path is not an
// error.
func (s *Store) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pending_files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// RemoveMissing deletes records whose source file no longer exists on
// disk and returns how many were dropped.
func (s *Store) RemoveMissing(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM pending_files`)
	if err != nil {
		return 0, fmt.Errorf("list queued paths: %w", err)
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return 0, fmt.Errorf("scan queued path: %w", err)
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, path)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate queued paths: %w", err)
	}

	for _, path := range missing {
		if err := s.Remove(ctx, path); err != nil {
			return 0, err
		}
	}
	return len(missing), nil
}

// Pending returns the records matching filter, ordered by its sort order.
func (s *Store) Pending(ctx context.Context, filter Filter) ([]PendingFile, error) {
	query := strings.Builder{}
	query.WriteString(`
        SELECT path, extension, codec, bitrate_kbps, size_bytes, duration_seconds,
               width, height, frames_per_second, action, created_at, updated_at
        FROM pending_files`)

	var clauses []string
	var args []any
	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(filter.Action))
	}
	if len(filter.Extensions) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Extensions)), ", ")
		clauses = append(clauses, fmt.Sprintf("extension IN (%s)", placeholders))
		for _, ext := range filter.Extensions {
			args = append(args, strings.ToLower(ext))
		}
	}
	if filter.MinBitrateKbps > 0 {
		clauses = append(clauses, "bitrate_kbps >= ?")
		args = append(args, filter.MinBitrateKbps)
	}
	if filter.MaxBitrateKbps > 0 {
		clauses = append(clauses, "bitrate_kbps <= ?")
		args = append(args, filter.MaxBitrateKbps)
	}
	if filter.MinDuration > 0 {
		clauses = append(clauses, "duration_seconds >= ?")
		args = append(args, filter.MinDuration)
	}
	if filter.MaxDuration > 0 {
		clauses = append(clauses, "duration_seconds <= ?")
		args = append(args, filter.MaxDuration)
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY " + filter.Sort.SQLOrderClause())
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query pending files: %w", err)
	}
	defer rows.Close()

	var files []PendingFile
	for rows.Next() {
		var f PendingFile
		var action string
		if err := rows.Scan(
			&f.Path, &f.Extension, &f.Info.Codec, &f.Info.BitrateKbps, &f.Info.SizeBytes,
			&f.Info.DurationSeconds, &f.Info.Width, &f.Info.Height, &f.Info.FramesPerSecond,
			&action, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan pending file: %w", err)
		}
		parsed, err := ParseAction(action)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", f.Path, err)
		}
		f.Action = parsed
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending files: %w", err)
	}
	return files, nil
}

// Clear truncates the queue and returns how many records were dropped.
func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_files`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared records: %w", err)
	}
	return int(affected), nil
}

// Stats aggregates queue counts and sizes.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := s.db.QueryRowContext(ctx, `
        SELECT COUNT(*),
               COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(size_bytes), 0),
               COALESCE(SUM(duration_seconds), 0)
        FROM pending_files`,
		string(ActionRemux), string(ActionConvert))
	if err := row.Scan(&stats.Total, &stats.Remux, &stats.Convert, &stats.TotalBytes, &stats.TotalSeconds); err != nil {
		return Stats{}, fmt.Errorf("queue stats: %w", err)
	}
	return stats, nil
}

// ExtensionStats groups queue records by source extension, largest share
// first.
func (s *Store) ExtensionStats(ctx context.Context) ([]ExtensionStat, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT extension, COUNT(*), COALESCE(SUM(size_bytes), 0)
        FROM pending_files
        GROUP BY extension
        ORDER BY COUNT(*) DESC, extension ASC`)
	if err != nil {
		return nil, fmt.Errorf("extension stats: %w", err)
	}
	defer rows.Close()

	var stats []ExtensionStat
	for rows.Next() {
		var stat ExtensionStat
		if err := rows.Scan(&stat.Extension, &stat.Count, &stat.TotalBytes); err != nil {
			return nil, fmt.Errorf("scan extension stat: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extension stats: %w", err)
	}
	return stats, nil
}
