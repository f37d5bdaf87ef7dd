// Package config defines the JSON-serializable run configuration for the
// report generator. It is intentionally small and dependency-free: runs work
// with no config file at all, and a file only overrides the defaults it
// names. Decoding is performed by the standard library.
//
// Example (trimmed):
//
//	{
//	  "job": "fy2016",
//	  "parser":  { "delimiter": ";", "trim_space": true },
//	  "reports": { "top_n": 10, "preview": false },
//	  "archive": { "kind": "sqlite", "dsn": "file:runs.db", "table": "report_runs" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Run is the top-level object decoded from a run config file.
type Run struct {
	// Job names the run for logging, metrics labeling, and the archive.
	Job string `json:"job"`

	// Parser configures how the input file is read.
	Parser Parser `json:"parser"`

	// Reports configures report shape and rendering.
	Reports Reports `json:"reports"`

	// Schema optionally replaces the built-in alias list for a canonical
	// field, e.g. {"work_state": ["my_state_col"]}. The field's fallback
	// regex still applies when no listed alias matches.
	Schema map[string][]string `json:"schema"`

	// Archive optionally persists run summaries and emitted rows.
	Archive Archive `json:"archive"`
}

// Parser holds input parsing options.
type Parser struct {
	// Delimiter is a one-character field separator. Empty means ";".
	Delimiter string `json:"delimiter"`

	// TrimSpace trims surrounding whitespace from every field value.
	TrimSpace bool `json:"trim_space"`
}

// Reports holds report generation options.
type Reports struct {
	// TopN caps data rows per report. Zero means 10.
	TopN int `json:"top_n"`

	// Preview additionally renders both reports as console tables.
	Preview bool `json:"preview"`
}

// Archive selects an optional sink for run summaries. Kind "" disables
// archiving; "sqlite" and "postgres" are supported.
type Archive struct {
	Kind string `json:"kind"`

	// DSN is the backend connection string. For sqlite this is a file DSN;
	// for postgres a pgx connection string. Empty falls back to the
	// ARCHIVE_DSN environment variable.
	DSN string `json:"dsn"`

	// Table is the destination table name. Empty means "report_runs".
	Table string `json:"table"`
}

// Default returns the configuration used when no file is provided.
func Default() Run {
	return Run{
		Job:     "h1bstats",
		Parser:  Parser{Delimiter: ";", TrimSpace: true},
		Reports: Reports{TopN: 10},
	}
}

// Load decodes a Run from r, layered over Default.
func Load(r io.Reader) (Run, error) {
	run := Default()
	if err := json.NewDecoder(r).Decode(&run); err != nil {
		return Run{}, fmt.Errorf("decode run config: %w", err)
	}
	return run, nil
}

// LoadFile decodes a Run from the file at path, layered over Default.
func LoadFile(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("open run config: %w", err)
	}
	defer f.Close()
	return Load(f)
}
