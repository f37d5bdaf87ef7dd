package builtin

import "h1bstats/pkg/records"

// Coalesce merges the priority-ordered Sources columns of each record into a
// single value stored under Target.
//
// The first source provides the base value; a later source is consulted only
// while the running value is still empty or absent. A non-empty value is
// never overwritten, so the highest-priority populated column always wins.
// Records where every source is empty get Target = nil; with no sources at
// all (field unbound for this dataset) every record gets Target = nil.
type Coalesce struct {
	// Target is the canonical key the merged value is written under.
	Target string

	// Sources are the bound physical column names, highest priority first.
	Sources []string
}

func (c Coalesce) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		var merged any
		for _, col := range c.Sources {
			if !empty(merged) {
				break
			}
			if v, ok := r[col]; ok && !empty(v) {
				merged = v
			}
		}
		r[c.Target] = merged
	}
	return in
}

// empty reports whether v is nil or the empty string. Whitespace-only values
// are handled by Normalize, which runs before Coalesce in the chain.
func empty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
