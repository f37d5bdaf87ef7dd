// Package storage contains the storage-agnostic contract for archiving
// finished report runs, plus a registry so backends can be selected by
// config without the caller importing them directly.
//
// The archive is write-only bookkeeping: it records what a run saw and what
// it emitted. All aggregation happens in memory before anything reaches a
// repository.
package storage

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Config selects and configures a backend.
type Config struct {
	// DSN is the backend connection string.
	DSN string

	// Table is the run table name; the per-report row table derives from it
	// with a "_rows" suffix. Empty means "report_runs".
	Table string
}

// RunRecord is one archived report run.
type RunRecord struct {
	Job         string
	Fingerprint string
	InputPath   string
	StartedAt   time.Time

	RowsIn                int
	RowsSkipped           int
	OccupationsQualifying int
	StatesQualifying      int

	// Rows are the emitted data lines of both reports, rank order per metric.
	Rows []ArchivedRow
}

// ArchivedRow is one emitted report line. Metric is "occupations" or
// "states"; Rank is 1-based within the metric.
type ArchivedRow struct {
	Metric     string
	Rank       int
	Value      string
	Count      int
	Percentage float64
}

// Repository persists run records.
type Repository interface {
	// ArchiveRun stores the run and its emitted rows atomically.
	ArchiveRun(ctx context.Context, run RunRecord) error

	// Close releases the backend's resources.
	Close()
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var factories = map[string]Factory{}

// Register makes a backend available under kind. Backends call this from
// init; a duplicate kind panics early rather than shadowing silently.
func Register(kind string, f Factory) {
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("storage: duplicate backend %q", kind))
	}
	factories[kind] = f
}

// New constructs the backend registered under kind.
func New(ctx context.Context, kind string, cfg Config) (Repository, error) {
	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("storage: unknown backend %q (registered: %v)", kind, Kinds())
	}
	if cfg.Table == "" {
		cfg.Table = "report_runs"
	}
	return f(ctx, cfg)
}

// Kinds lists the registered backend kinds, sorted.
func Kinds() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
