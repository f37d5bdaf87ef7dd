// Package aggregate turns a sorted stream of qualifying records into ranked
// (value, count, percentage) rows. Grouping is run-length: the input must
// arrive sorted ascending by the group field, which is why the only accepted
// input type is query.SortedBy.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"h1bstats/internal/query"
)

// Row is one emitted group: its key value, the number of qualifying records,
// and that count as a percentage of all qualifying records.
type Row struct {
	Value      string
	Count      int
	Percentage float64
}

// TopN is the report length both metrics use.
const TopN = 10

// Groups scans the sorted records once, closing a group whenever the key
// changes, then ranks groups by count descending with ties broken by key
// ascending. Percentages are computed over the filtered population (the
// total of all group counts), not the raw input size. An empty input yields
// an empty slice: the header-only report case.
func Groups(sorted query.SortedBy) []Row {
	recs := sorted.Records
	if len(recs) == 0 {
		return nil
	}
	field := sorted.Field

	var rows []Row
	current := recs[0].String(field)
	count := 0
	for _, r := range recs {
		v := r.String(field)
		if v != current {
			rows = append(rows, Row{Value: current, Count: count})
			current = v
			count = 0
		}
		count++
	}
	rows = append(rows, Row{Value: current, Count: count})

	total := len(recs)
	for i := range rows {
		rows[i].Percentage = percentage(rows[i].Count, total)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return strings.Compare(rows[i].Value, rows[j].Value) < 0
	})
	return rows
}

// Top truncates ranked rows to at most n.
func Top(rows []Row, n int) []Row {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// percentage is count/total*100 rounded half away from zero to one decimal.
// The convention is documented in DESIGN.md; counts are non-negative so this
// behaves as round-half-up.
func percentage(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*1000) / 10
}
