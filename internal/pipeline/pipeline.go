// Package pipeline wires the stages of a report run together: bind the
// header row to canonical fields, merge duplicate columns, filter to
// certified applications, sort, aggregate, and render both reports.
package pipeline

import (
	"strings"
	"time"

	"h1bstats/internal/aggregate"
	"h1bstats/internal/metrics"
	"h1bstats/internal/query"
	"h1bstats/internal/report"
	"h1bstats/internal/schema"
	"h1bstats/internal/transformer"
	"h1bstats/internal/transformer/builtin"
	"h1bstats/pkg/records"
)

// certified is the only certification status that qualifies a row, compared
// case-insensitively after trimming.
const certified = "CERTIFIED"

// Options tunes a report run. The zero value is the production default.
type Options struct {
	// Job names the run for metrics labeling. Empty defaults to "h1bstats".
	Job string

	// TopN caps the number of data rows per report. Zero means 10.
	TopN int

	// Aliases overrides the static alias list per field; fields absent from
	// the map keep the built-in aliases.
	Aliases map[schema.Field][]string
}

// Summary describes what a run did. Parser-level skip counts are owned by
// the caller, which sees the raw file; everything here is derived from the
// rows handed to Generate.
type Summary struct {
	Fingerprint           string
	RowsIn                int
	OccupationsQualifying int
	StatesQualifying      int
	OccupationGroups      int
	StateGroups           int
}

// Result carries both rendered reports, the ranked rows they were rendered
// from, and the run summary.
type Result struct {
	Occupations    string
	States         string
	OccupationRows []aggregate.Row
	StateRows      []aggregate.Row
	Summary        Summary
}

// Generate runs both report pipelines over one dataset. It is a pure
// function of its input: identical headers and rows produce byte-identical
// report texts.
//
// Missing canonical fields are soft failures. A dataset that never names a
// work-state column, for example, yields a header-only states report rather
// than an error.
func Generate(headers []string, rows []records.Record, opt Options) Result {
	job := opt.Job
	if job == "" {
		job = "h1bstats"
	}
	topN := opt.TopN
	if topN <= 0 {
		topN = aggregate.TopN
	}

	start := time.Now()
	binding := schema.BindWith(headers, opt.Aliases)

	// One merge pass serves both metrics: every canonical field is coalesced
	// into its synthetic key up front.
	chain := transformer.Chain{builtin.Normalize{}}
	for _, f := range schema.Fields {
		chain = append(chain, builtin.Coalesce{Target: f.Key(), Sources: binding[f]})
	}
	rows = chain.Apply(rows)
	metrics.RecordStep(job, "merge", nil, time.Since(start))
	metrics.RecordRow(job, "processed", int64(len(rows)))

	occRows := metricRows(job, "occupations", rows, occupationPredicate,
		[]string{schema.CaseNumber.Key(), schema.SOCName.Key(), schema.SOCCode.Key()},
		schema.SOCName.Key(), topN)
	stateRows := metricRows(job, "states", rows, statePredicate,
		[]string{schema.CaseNumber.Key(), schema.WorkState.Key()},
		schema.WorkState.Key(), topN)

	res := Result{
		Occupations:    report.Emit(occRows.top, report.OccupationsHeader),
		States:         report.Emit(stateRows.top, report.StatesHeader),
		OccupationRows: occRows.top,
		StateRows:      stateRows.top,
		Summary: Summary{
			Fingerprint:           Fingerprint(headers, len(rows)),
			RowsIn:                len(rows),
			OccupationsQualifying: occRows.qualifying,
			StatesQualifying:      stateRows.qualifying,
			OccupationGroups:      occRows.groups,
			StateGroups:           stateRows.groups,
		},
	}
	return res
}

// metricResult is the per-metric intermediate: ranked rows plus the counts
// the summary reports.
type metricResult struct {
	top        []aggregate.Row
	qualifying int
	groups     int
}

// metricRows runs the shared engine for one metric: stable filter, project,
// sort ascending by the grouping key, run-length aggregate, rank, truncate.
func metricRows(job, name string, rows []records.Record, pred query.Predicate, project []string, groupKey string, topN int) metricResult {
	start := time.Now()
	sorted := query.ProcessSorted(rows, pred, project, groupKey)
	grouped := aggregate.Groups(sorted)
	metrics.RecordStep(job, name, nil, time.Since(start))
	metrics.RecordRow(job, name+"_qualifying", int64(len(sorted.Records)))
	return metricResult{
		top:        aggregate.Top(grouped, topN),
		qualifying: len(sorted.Records),
		groups:     len(grouped),
	}
}

// isCertified applies the certification-status rule: trimmed,
// case-insensitive equality with "CERTIFIED". Missing status never
// qualifies.
func isCertified(r records.Record) bool {
	s := strings.TrimSpace(r.String(schema.CertificationStatus.Key()))
	return strings.EqualFold(s, certified)
}

// occupationPredicate qualifies a row for the occupations metric. Both SOC
// code and SOC name must be populated: a code without a name has no
// reportable label, and a name without a code is not a reconciled SOC entry.
func occupationPredicate(r records.Record) bool {
	return isCertified(r) &&
		!r.Empty(schema.CaseNumber.Key()) &&
		!r.Empty(schema.SOCName.Key()) &&
		!r.Empty(schema.SOCCode.Key())
}

// statePredicate qualifies a row for the states metric.
func statePredicate(r records.Record) bool {
	return isCertified(r) &&
		!r.Empty(schema.CaseNumber.Key()) &&
		!r.Empty(schema.WorkState.Key())
}
