package builtin

import (
	"reflect"
	"testing"

	"h1bstats/pkg/records"
)

/*
TestCoalesceApply verifies the merge rule: the first populated source in
priority order wins; later sources only fill in while the running value is
empty; a record with all sources empty gets a nil target; zero sources
(unbound field) always yields nil.
*/
func TestCoalesceApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Coalesce
		in   []records.Record
		want []records.Record
	}{
		{
			name: "priority_wins_when_both_present",
			c:    Coalesce{Target: "_v", Sources: []string{"a", "b"}},
			in:   []records.Record{{"a": "X", "b": "Y"}},
			want: []records.Record{{"a": "X", "b": "Y", "_v": "X"}},
		},
		{
			name: "fallback_fills_empty_primary",
			c:    Coalesce{Target: "_v", Sources: []string{"a", "b"}},
			in:   []records.Record{{"a": "", "b": "X"}},
			want: []records.Record{{"a": "", "b": "X", "_v": "X"}},
		},
		{
			name: "nil_primary_falls_back",
			c:    Coalesce{Target: "_v", Sources: []string{"a", "b"}},
			in:   []records.Record{{"a": nil, "b": "X"}},
			want: []records.Record{{"a": nil, "b": "X", "_v": "X"}},
		},
		{
			name: "all_empty_yields_nil",
			c:    Coalesce{Target: "_v", Sources: []string{"a", "b"}},
			in:   []records.Record{{"a": "", "b": nil}},
			want: []records.Record{{"a": "", "b": nil, "_v": nil}},
		},
		{
			name: "absent_column_skipped",
			c:    Coalesce{Target: "_v", Sources: []string{"a", "b"}},
			in:   []records.Record{{"b": "X"}},
			want: []records.Record{{"b": "X", "_v": "X"}},
		},
		{
			name: "no_sources_always_nil",
			c:    Coalesce{Target: "_v"},
			in:   []records.Record{{"a": "X"}},
			want: []records.Record{{"a": "X", "_v": nil}},
		},
		{
			name: "third_source_used_when_first_two_empty",
			c:    Coalesce{Target: "_v", Sources: []string{"a", "b", "c"}},
			in:   []records.Record{{"a": "", "b": nil, "c": "Z"}},
			want: []records.Record{{"a": "", "b": nil, "c": "Z", "_v": "Z"}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.c.Apply(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Apply = %v, want %v", got, tc.want)
			}
		})
	}
}
