// Package report renders ranked aggregate rows as the delimited text files
// the reports are delivered as, plus an optional console preview table.
package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"h1bstats/internal/aggregate"
)

// Delimiter used in the emitted text tables, matching the input convention.
const Delimiter = ";"

// Report output headers. The middle and last columns are shared by both
// metrics; the first names the grouped value.
const (
	OccupationsHeader = "TOP_OCCUPATIONS;NUMBER_CERTIFIED_APPLICATIONS;PERCENTAGE"
	StatesHeader      = "TOP_STATES;NUMBER_CERTIFIED_APPLICATIONS;PERCENTAGE"
)

// Emit renders the header line followed by one line per aggregate row. The
// output is deterministic and byte-stable for identical input: the header is
// always present, percentages always carry one decimal and a trailing "%",
// and an empty row set produces the header-only table.
func Emit(rows []aggregate.Row, header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(r.Value)
		b.WriteString(Delimiter)
		b.WriteString(strconv.Itoa(r.Count))
		b.WriteString(Delimiter)
		b.WriteString(FormatPercentage(r.Percentage))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatPercentage renders a percentage with exactly one decimal and a
// trailing percent sign, e.g. "60.0%".
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// WriteFile writes the rendered report text to path. Failures are fatal for
// the run of that report: the file is either written whole or the error is
// surfaced.
func WriteFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
