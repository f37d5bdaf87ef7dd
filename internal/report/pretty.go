package report

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"h1bstats/internal/aggregate"
)

// Preview renders the ranked rows as a human-readable console table. It is
// a convenience view behind the CLI -preview flag; the delimited files
// emitted by Emit stay the canonical output.
func Preview(rows []aggregate.Row, title, valueColumn string) string {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", valueColumn, "CERTIFIED", "PERCENTAGE"})
	for i, r := range rows {
		t.AppendRow(table.Row{i + 1, r.Value, r.Count, FormatPercentage(r.Percentage)})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}
