// Package query implements the generic select/filter/sort engine shared by
// both report pipelines. It has no knowledge of any particular metric: the
// caller supplies the predicate, the projection, and the sort keys.
package query

import (
	"fmt"
	"sort"
	"strings"

	"h1bstats/pkg/records"
)

// Predicate decides whether a record survives filtering.
type Predicate func(records.Record) bool

// SortKey names a projected field and its direction. Keys are applied in
// slice order: the first key is primary, ties fall through to the next.
type SortKey struct {
	Field string
	Desc  bool
}

// SortedBy carries records together with the single field they are sorted
// ascending by. It exists to make the "sorted before run-length grouping"
// precondition explicit: the aggregator accepts only a SortedBy, so a
// pipeline reordering that drops the sort stage fails to compile instead of
// silently splitting groups.
type SortedBy struct {
	Field   string
	Records []records.Record
}

// Process filters in input order (stable: survivors keep their relative
// order), projects each survivor to the requested fields, then applies a
// stable multi-key sort. A nil predicate keeps everything; an empty
// projection keeps all fields; no sort keys leaves input order intact.
func Process(in []records.Record, pred Predicate, project []string, keys []SortKey) []records.Record {
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		if pred != nil && !pred(r) {
			continue
		}
		out = append(out, projectRecord(r, project))
	}

	if len(keys) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i], out[j], keys)
		})
	}
	return out
}

// ProcessSorted runs Process with a single ascending sort key and wraps the
// result in the SortedBy marker required by the aggregation stage.
func ProcessSorted(in []records.Record, pred Predicate, project []string, field string) SortedBy {
	return SortedBy{
		Field:   field,
		Records: Process(in, pred, project, []SortKey{{Field: field}}),
	}
}

// projectRecord copies only the requested fields into a fresh record.
// Projection always copies so later stages never alias the raw rows.
func projectRecord(r records.Record, project []string) records.Record {
	if len(project) == 0 {
		return r.Clone()
	}
	out := make(records.Record, len(project))
	for _, k := range project {
		if v, ok := r[k]; ok {
			out[k] = v
		}
	}
	return out
}

// less compares two records over the sort keys. Values are compared as
// strings; nil sorts before any string so missing values group together at
// the ascending end.
func less(a, b records.Record, keys []SortKey) bool {
	for _, k := range keys {
		c := strings.Compare(stringValue(a[k.Field]), stringValue(b[k.Field]))
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
