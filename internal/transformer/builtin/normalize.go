// Package builtin contains the reusable transformers of the report pipeline.
package builtin

import (
	"strings"

	"h1bstats/pkg/records"
)

// Normalize trims surrounding whitespace from every string value and
// replaces NO-BREAK SPACE with ASCII space. Values trimmed down to "" become
// nil so that "empty" and "absent" stay interchangeable downstream.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
			if s == "" {
				r[k] = nil
			} else {
				r[k] = s
			}
		}
	}
	return in
}
