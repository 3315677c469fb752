// Package history persists smoke-test runs in a local sqlite database so
// operators can see how the service behaved across restarts.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/luisrosales852/object-detection/pkg/report"
)

// Store records runs and their per-check results.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		base_url TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		passed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_checks (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		label TEXT NOT NULL,
		passed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		detail TEXT,
		duration_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_run_checks_run_id ON run_checks(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores one complete run atomically.
func (s *Store) RecordRun(ctx context.Context, rep *report.RunReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, base_url, started_at, passed) VALUES (?, ?, ?, ?)",
		rep.ID, rep.BaseURL, rep.StartedAt, rep.Passed(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, res := range rep.Results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_checks (run_id, name, label, passed, skipped, detail, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rep.ID, res.Name, res.Label, res.Passed, res.Skipped, res.Detail,
			res.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert check result %s: %w", res.Name, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the recent-runs listing.
type RunSummary struct {
	ID        string
	BaseURL   string
	StartedAt time.Time
	Passed    bool
	Checks    int
}

// RecentRuns returns the newest runs first, at most limit of them.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.base_url, r.started_at, r.passed, COUNT(c.run_id)
		 FROM runs r
		 LEFT JOIN run_checks c ON c.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.started_at DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var summary RunSummary
		if err := rows.Scan(&summary.ID, &summary.BaseURL, &summary.StartedAt, &summary.Passed, &summary.Checks); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
