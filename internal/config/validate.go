// This file adds a lightweight linter for Run values. It performs static
// checks over a decoded Run and returns a list of issues (errors and
// warnings) that callers can surface in the CLI.
package config

import (
	"fmt"
	"strings"

	"h1bstats/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but not fatal.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "archive.kind"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidateRun statically validates a Run without mutating it. Callers decide
// whether warnings are fatal.
func ValidateRun(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and archive rows",
		})
	}

	if d := r.Parser.Delimiter; d != "" && len([]rune(d)) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.delimiter",
			Message:  fmt.Sprintf("delimiter must be a single character, got %q", d),
		})
	}

	if r.Reports.TopN < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "reports.top_n",
			Message:  "top_n must not be negative",
		})
	}
	if r.Reports.TopN > 100 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "reports.top_n",
			Message:  fmt.Sprintf("top_n of %d is unusually large for a summary report", r.Reports.TopN),
		})
	}

	for name, aliases := range r.Schema {
		if _, ok := schema.FieldByName(name); !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "schema." + name,
				Message:  fmt.Sprintf("unknown canonical field %q", name),
			})
			continue
		}
		if len(aliases) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "schema." + name,
				Message:  "empty alias override disables alias matching; only the fallback regex will bind columns",
			})
		}
	}

	switch r.Archive.Kind {
	case "", "sqlite", "postgres":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "archive.kind",
			Message:  fmt.Sprintf("unknown archive kind %q (want sqlite or postgres)", r.Archive.Kind),
		})
	}
	if r.Archive.Kind != "" && strings.TrimSpace(r.Archive.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "archive.dsn",
			Message:  "archive enabled with empty dsn; ARCHIVE_DSN env will be used",
		})
	}

	return issues
}
