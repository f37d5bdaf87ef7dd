// This file keeps the CLI layer thin: it wires the data source, parser,
// pipeline, report writers, and optional archive together without any of
// them importing each other.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"h1bstats/internal/config"
	"h1bstats/internal/datasource/file"
	"h1bstats/internal/metrics"
	csvparser "h1bstats/internal/parser/csv"
	"h1bstats/internal/pipeline"
	"h1bstats/internal/report"
	"h1bstats/internal/schema"
	"h1bstats/internal/storage"
)

// outputPaths names the one input and two output files of a run.
type outputPaths struct {
	Input       string
	Occupations string
	States      string
}

// Function variables used to introduce test seams.
// In production these point to real implementations; tests can override them.
var (
	newRepositoryFn = func(ctx context.Context, kind string, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, kind, cfg)
	}

	writeReportFn = report.WriteFile
)

// runReports executes one full run: read the disclosure file, generate both
// ranked reports, write them concurrently, and optionally archive the run.
//
// Report writing failures are fatal; archive failures are logged and do not
// fail the run, since both report files are already on disk by then.
func runReports(ctx context.Context, run config.Run, paths outputPaths) error {
	startedAt := time.Now().UTC()

	src := file.NewLocal(paths.Input)
	rc, err := src.Open(ctx)
	if err != nil {
		return fmt.Errorf("source open: %w", err)
	}
	defer rc.Close()

	parsed, err := csvparser.NewParser(parserOptions(run.Parser)).Parse(rc)
	if err != nil {
		return fmt.Errorf("parse %s: %w", paths.Input, err)
	}
	metrics.RecordRow(run.Job, "skipped", int64(parsed.Skipped))

	res := pipeline.Generate(parsed.Headers, parsed.Rows, pipeline.Options{
		Job:     run.Job,
		TopN:    run.Reports.TopN,
		Aliases: aliasOverrides(run.Schema),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		return writeReportFn(paths.Occupations, res.Occupations)
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		return writeReportFn(paths.States, res.States)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf(
		"summary: fingerprint=%s rows_in=%d skipped=%d occupations_qualifying=%d states_qualifying=%d occupation_groups=%d state_groups=%d",
		res.Summary.Fingerprint,
		res.Summary.RowsIn,
		parsed.Skipped,
		res.Summary.OccupationsQualifying,
		res.Summary.StatesQualifying,
		res.Summary.OccupationGroups,
		res.Summary.StateGroups,
	)

	if run.Reports.Preview {
		fmt.Println(report.Preview(res.OccupationRows, "Top occupations", "OCCUPATION"))
		fmt.Println(report.Preview(res.StateRows, "Top work states", "STATE"))
	}

	if run.Archive.Kind != "" {
		if err := archiveRun(ctx, run, paths, parsed.Skipped, startedAt, res); err != nil {
			log.Printf("archive: %v", err)
		}
	}

	return nil
}

// aliasOverrides maps config schema overrides onto canonical fields. Unknown
// field names were already reported by the config linter; they are skipped
// here.
func aliasOverrides(schemaCfg map[string][]string) map[schema.Field][]string {
	if len(schemaCfg) == 0 {
		return nil
	}
	out := make(map[schema.Field][]string, len(schemaCfg))
	for name, aliases := range schemaCfg {
		if f, ok := schema.FieldByName(name); ok {
			out[f] = aliases
		}
	}
	return out
}

// parserOptions maps the decoded parser config onto csv parser options.
func parserOptions(p config.Parser) csvparser.Options {
	opt := csvparser.Options{TrimSpace: p.TrimSpace}
	if p.Delimiter != "" {
		opt.Comma = []rune(p.Delimiter)[0]
	}
	return opt
}

// archiveRun persists the run summary and both reports' emitted rows to the
// configured archive backend. The DSN falls back to the ARCHIVE_DSN
// environment variable when the config leaves it empty.
func archiveRun(ctx context.Context, run config.Run, paths outputPaths, skipped int, startedAt time.Time, res pipeline.Result) error {
	dsn := run.Archive.DSN
	if dsn == "" {
		dsn = os.Getenv("ARCHIVE_DSN")
	}

	repo, err := newRepositoryFn(ctx, run.Archive.Kind, storage.Config{
		DSN:   dsn,
		Table: run.Archive.Table,
	})
	if err != nil {
		return fmt.Errorf("init repo: %w", err)
	}
	defer repo.Close()

	rec := storage.RunRecord{
		Job:                   run.Job,
		Fingerprint:           res.Summary.Fingerprint,
		InputPath:             paths.Input,
		StartedAt:             startedAt,
		RowsIn:                res.Summary.RowsIn,
		RowsSkipped:           skipped,
		OccupationsQualifying: res.Summary.OccupationsQualifying,
		StatesQualifying:      res.Summary.StatesQualifying,
	}
	for i, r := range res.OccupationRows {
		rec.Rows = append(rec.Rows, storage.ArchivedRow{
			Metric: "occupations", Rank: i + 1, Value: r.Value, Count: r.Count, Percentage: r.Percentage,
		})
	}
	for i, r := range res.StateRows {
		rec.Rows = append(rec.Rows, storage.ArchivedRow{
			Metric: "states", Rank: i + 1, Value: r.Value, Count: r.Count, Percentage: r.Percentage,
		})
	}

	if err := repo.ArchiveRun(ctx, rec); err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	return nil
}
