// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. A run and its emitted rows are written inside one
// transaction; volumes here are tiny (tens of rows per run), so plain
// prepared INSERTs are plenty.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"h1bstats/internal/storage"
)

// init registers the "sqlite" backend with the storage factory.
func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg storage.Config
}

// NewRepository opens a SQLite connection using the provided DSN and ensures
// the archive tables exist.
//
// DSN is passed directly to database/sql, for example:
//
//	"file:runs.db?cache=shared"
//	"runs.db"
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	r := &Repository{db: db, cfg: cfg}
	if err := r.ensureTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureTables(ctx context.Context) error {
	runs := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		input_path TEXT,
		started_at TEXT NOT NULL,
		rows_in INTEGER NOT NULL,
		rows_skipped INTEGER NOT NULL,
		occupations_qualifying INTEGER NOT NULL,
		states_qualifying INTEGER NOT NULL
	)`, r.cfg.Table)

	rows := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s_rows (
		run_id INTEGER NOT NULL REFERENCES %s(id),
		metric TEXT NOT NULL,
		rank INTEGER NOT NULL,
		value TEXT NOT NULL,
		count INTEGER NOT NULL,
		percentage REAL NOT NULL
	)`, r.cfg.Table, r.cfg.Table)

	if _, err := r.db.ExecContext(ctx, runs); err != nil {
		return fmt.Errorf("sqlite: create %s: %w", r.cfg.Table, err)
	}
	if _, err := r.db.ExecContext(ctx, rows); err != nil {
		return fmt.Errorf("sqlite: create %s_rows: %w", r.cfg.Table, err)
	}
	return nil
}

// ArchiveRun stores the run and its emitted rows in one transaction.
func (r *Repository) ArchiveRun(ctx context.Context, run storage.RunRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (job, fingerprint, input_path, started_at, rows_in, rows_skipped, occupations_qualifying, states_qualifying)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, r.cfg.Table),
		run.Job, run.Fingerprint, run.InputPath, run.StartedAt.UTC().Format(time.RFC3339),
		run.RowsIn, run.RowsSkipped, run.OccupationsQualifying, run.StatesQualifying,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s_rows (run_id, metric, rank, value, count, percentage)
		 VALUES (?, ?, ?, ?, ?, ?)`, r.cfg.Table))
	if err != nil {
		return fmt.Errorf("sqlite: prepare rows: %w", err)
	}
	defer stmt.Close()

	for _, row := range run.Rows {
		if _, err := stmt.ExecContext(ctx, runID, row.Metric, row.Rank, row.Value, row.Count, row.Percentage); err != nil {
			return fmt.Errorf("sqlite: insert row %s/%d: %w", row.Metric, row.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Close implements storage.Repository.Close.
func (r *Repository) Close() { r.db.Close() }
