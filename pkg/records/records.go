// Package records defines the row model shared by the parser, transformers,
// and the query engine. A Record is one input row keyed by canonical header
// name; empty CSV cells are stored as nil so that "absent" and "empty" behave
// identically downstream.
package records

import "strings"

// Record is a single tabular row: header name -> value. Values produced by
// the CSV parser are nil (empty cell) or string; transformers may write
// derived values under synthetic keys.
type Record map[string]any

// String returns the value under key as a string. Nil and non-string values
// yield "".
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Empty reports whether the value under key is missing, nil, or blank after
// trimming ASCII whitespace.
func (r Record) Empty(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) == ""
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
