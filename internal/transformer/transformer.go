// Package transformer defines the record transformation chain applied
// between parsing and the report queries.
package transformer

import "h1bstats/pkg/records"

// Transformer rewrites a batch of records in place and returns the batch.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
