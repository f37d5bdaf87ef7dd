// Package postgres implements a Postgres-backed storage.Repository using
// pgx v5. The run insert returns its generated id, and the emitted rows ride
// along in the same transaction.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"h1bstats/internal/storage"
)

// init registers the "postgres" backend with the storage factory.
func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  storage.Config
}

// NewRepository connects via pgxpool and ensures the archive tables exist.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	r := &Repository{pool: pool, cfg: cfg}
	if err := r.ensureTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureTables(ctx context.Context) error {
	runs := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		job TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		input_path TEXT,
		started_at TIMESTAMPTZ NOT NULL,
		rows_in BIGINT NOT NULL,
		rows_skipped BIGINT NOT NULL,
		occupations_qualifying BIGINT NOT NULL,
		states_qualifying BIGINT NOT NULL
	)`, pgIdent(r.cfg.Table))

	rows := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		run_id BIGINT NOT NULL REFERENCES %s(id),
		metric TEXT NOT NULL,
		rank INT NOT NULL,
		value TEXT NOT NULL,
		count BIGINT NOT NULL,
		percentage DOUBLE PRECISION NOT NULL
	)`, pgIdent(r.cfg.Table+"_rows"), pgIdent(r.cfg.Table))

	if _, err := r.pool.Exec(ctx, runs); err != nil {
		return fmt.Errorf("postgres: create %s: %w", r.cfg.Table, err)
	}
	if _, err := r.pool.Exec(ctx, rows); err != nil {
		return fmt.Errorf("postgres: create %s_rows: %w", r.cfg.Table, err)
	}
	return nil
}

// ArchiveRun stores the run and its emitted rows in one transaction.
func (r *Repository) ArchiveRun(ctx context.Context, run storage.RunRecord) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx, fmt.Sprintf(
		`INSERT INTO %s (job, fingerprint, input_path, started_at, rows_in, rows_skipped, occupations_qualifying, states_qualifying)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`, pgIdent(r.cfg.Table)),
		run.Job, run.Fingerprint, run.InputPath, run.StartedAt.UTC(),
		run.RowsIn, run.RowsSkipped, run.OccupationsQualifying, run.StatesQualifying,
	).Scan(&runID)
	if err != nil {
		return fmt.Errorf("postgres: insert run: %w", err)
	}

	for _, row := range run.Rows {
		_, err := tx.Exec(ctx, fmt.Sprintf(
			`INSERT INTO %s (run_id, metric, rank, value, count, percentage)
			 VALUES ($1, $2, $3, $4, $5, $6)`, pgIdent(r.cfg.Table+"_rows")),
			runID, row.Metric, row.Rank, row.Value, row.Count, row.Percentage)
		if err != nil {
			return fmt.Errorf("postgres: insert row %s/%d: %w", row.Metric, row.Rank, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// Close implements storage.Repository.Close.
func (r *Repository) Close() { r.pool.Close() }

// pgIdent quotes a possibly schema-qualified identifier.
func pgIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
