package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// BeginRun inserts a new run row and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, runUUID, rootDir string, overwriteExisting, importSubfolders bool) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_uuid, root_dir, overwrite_existing, import_subfolders, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		runUUID, rootDir, boolToInt(overwriteExisting), boolToInt(importSubfolders), now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// RecordUnit appends a processed unit to a run.
func (s *Store) RecordUnit(ctx context.Context, runID int64, category, displayName, kind, mediaPath, outcome, detail string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_units (run_id, category, display_name, kind, media_path, outcome, detail, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, category, displayName, kind, mediaPath, outcome, nullableString(detail), now,
	)
	if err != nil {
		return fmt.Errorf("insert run unit: %w", err)
	}
	return nil
}

// FinishRun stamps a run as complete.
func (s *Store) FinishRun(ctx context.Context, runID int64, authorized bool) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET authorized = ?, finished_at = ? WHERE id = ?`,
		boolToInt(authorized), now, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs with per-outcome unit counts.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.run_uuid, r.root_dir, r.overwrite_existing, r.import_subfolders,
                r.authorized, r.started_at, r.finished_at,
                COALESCE(SUM(CASE WHEN u.outcome = 'created' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN u.outcome = 'skipped' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN u.outcome = 'failed' THEN 1 ELSE 0 END), 0)
         FROM runs r
         LEFT JOIN run_units u ON u.run_id = r.id
         GROUP BY r.id
         ORDER BY r.started_at DESC, r.id DESC
         LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var overwrite, subfolders, authorized int
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &run.RunUUID, &run.RootDir, &overwrite, &subfolders,
			&authorized, &started, &finished, &run.Created, &run.Skipped, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.OverwriteExisting = overwrite != 0
		run.ImportSubfolders = subfolders != 0
		run.Authorized = authorized != 0
		run.StartedAt = parseTimestamp(started)
		if finished.Valid {
			ts := parseTimestamp(finished.String)
			run.FinishedAt = &ts
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Units returns the recorded units for one run in insertion order.
func (s *Store) Units(ctx context.Context, runID int64) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, category, display_name, kind, media_path, outcome, COALESCE(detail, ''), recorded_at
         FROM run_units WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run units: %w", err)
	}
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		var unit Unit
		var recorded string
		if err := rows.Scan(&unit.ID, &unit.RunID, &unit.Category, &unit.DisplayName,
			&unit.Kind, &unit.MediaPath, &unit.Outcome, &unit.Detail, &recorded); err != nil {
			return nil, fmt.Errorf("scan run unit: %w", err)
		}
		unit.RecordedAt = parseTimestamp(recorded)
		units = append(units, unit)
	}
	return units, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
