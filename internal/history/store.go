// Package history persists analysis runs to a local SQLite database so
// alignment regressions can be tracked across invocations.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run represents a single `framecheck analyze` invocation
type Run struct {
	ID         string
	StartedAt  time.Time
	FileCount  int
	ErrorCount int
}

// FileResult represents the outcome for one file within a run.
// For a file that could not be read, Error holds the cause and the
// width fields are zero.
type FileResult struct {
	RunID       string
	Path        string
	LineCount   int
	SampleCount int
	MinWidth    int
	MaxWidth    int
	Consistent  bool
	Error       string
}

// Stats summarizes the whole history database
type Stats struct {
	Runs              int
	Files             int
	InconsistentFiles int
	FailedFiles       int
}

// Store manages the SQLite database holding run history
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	// Ensure parent directory exists for file-based databases
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// Pragmas go in the DSN so every connection the pool opens gets
	// them; a one-off db.Exec would only configure whichever
	// connection happened to serve it.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each pooled connection to :memory: would get its own empty
	// database, so pin the pool to one connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates the tables if they do not exist. Creation is
// serialized across processes with a lock file beside the database,
// since two analyze runs may race to initialize the same file.
func (s *Store) initSchema() error {
	if s.dbPath != ":memory:" {
		lockPath := s.dbPath + ".lock"
		lock := flock.New(lockPath)
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s: %w", lockPath, err)
		}
		defer lock.Unlock()
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts a run and its per-file results in one transaction
// and returns the generated run ID.
func (s *Store) RecordRun(ctx context.Context, startedAt time.Time, results []FileResult) (string, error) {
	runID := uuid.NewString()

	errorCount := 0
	for _, r := range results {
		if r.Error != "" {
			errorCount++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, file_count, error_count) VALUES (?, ?, ?, ?)`,
		runID, startedAt.UTC(), len(results), errorCount)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, r := range results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO file_results (run_id, path, line_count, sample_count, min_width, max_width, consistent, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Path, r.LineCount, r.SampleCount, r.MinWidth, r.MaxWidth, r.Consistent, r.Error)
		if err != nil {
			return "", fmt.Errorf("insert file result for %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
// A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, file_count, error_count FROM runs ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FileCount, &run.ErrorCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunResults returns the per-file results of a run in insertion order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, path, line_count, sample_count, min_width, max_width, consistent, error
		 FROM file_results WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query file results: %w", err)
	}
	defer rows.Close()

	var results []FileResult
	for rows.Next() {
		var r FileResult
		if err := rows.Scan(&r.RunID, &r.Path, &r.LineCount, &r.SampleCount,
			&r.MinWidth, &r.MaxWidth, &r.Consistent, &r.Error); err != nil {
			return nil, fmt.Errorf("scan file result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Stats returns aggregate counts across the whole database.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&stats.Runs); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM file_results`).Scan(&stats.Files); err != nil {
		return nil, fmt.Errorf("count file results: %w", err)
	}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM file_results WHERE consistent = 0 AND error = ''`).Scan(&stats.InconsistentFiles)
	if err != nil {
		return nil, fmt.Errorf("count inconsistent files: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM file_results WHERE error != ''`).Scan(&stats.FailedFiles)
	if err != nil {
		return nil, fmt.Errorf("count failed files: %w", err)
	}

	return stats, nil
}

// Clear deletes runs older than the given number of days, along with
// their file results. A value of 0 deletes everything. Returns the
// number of runs deleted.
//
// File results are deleted explicitly in the same transaction rather
// than relying on the foreign-key cascade, so no orphans are possible
// even against a connection missing the foreign_keys pragma.
func (s *Store) Clear(ctx context.Context, olderThanDays int) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var result sql.Result
	if olderThanDays <= 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM file_results`); err != nil {
			return 0, fmt.Errorf("delete file results: %w", err)
		}
		result, err = tx.ExecContext(ctx, `DELETE FROM runs`)
	} else {
		cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
		_, err = tx.ExecContext(ctx,
			`DELETE FROM file_results WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, cutoff)
		if err != nil {
			return 0, fmt.Errorf("delete file results: %w", err)
		}
		result, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear: %w", err)
	}
	return deleted, nil
}
