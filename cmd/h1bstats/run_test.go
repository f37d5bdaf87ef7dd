package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"h1bstats/internal/config"
	"h1bstats/internal/storage"
)

const sampleInput = `;CASE_NUMBER;CASE_STATUS;SOC_CODE;SOC_NAME;WORKSITE_STATE
0;I-200-1;CERTIFIED;15-1132;SOFTWARE DEVELOPERS;CA
1;I-200-2;CERTIFIED;15-1132;SOFTWARE DEVELOPERS;CA
2;I-200-3;CERTIFIED;15-1121;COMPUTER SYSTEMS ANALYSTS;NY
3;I-200-4;DENIED;15-1132;SOFTWARE DEVELOPERS;CA
4;I-200-5;CERTIFIED;;ACCOUNTANTS;TX
`

func writeSample(t *testing.T) outputPaths {
	t.Helper()
	dir := t.TempDir()
	paths := outputPaths{
		Input:       filepath.Join(dir, "in.csv"),
		Occupations: filepath.Join(dir, "occupations.txt"),
		States:      filepath.Join(dir, "states.txt"),
	}
	if err := os.WriteFile(paths.Input, []byte(sampleInput), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return paths
}

/*
TestRunReports_WritesBothReports runs the full wiring over a small fixture and
checks the two emitted files. The row with an empty SOC code is certified and
counts for the states report but not for occupations.
*/
func TestRunReports_WritesBothReports(t *testing.T) {
	paths := writeSample(t)

	if err := runReports(context.Background(), config.Default(), paths); err != nil {
		t.Fatalf("runReports: %v", err)
	}

	occ, err := os.ReadFile(paths.Occupations)
	if err != nil {
		t.Fatalf("read occupations: %v", err)
	}
	wantOcc := "TOP_OCCUPATIONS;NUMBER_CERTIFIED_APPLICATIONS;PERCENTAGE\n" +
		"SOFTWARE DEVELOPERS;2;66.7%\n" +
		"COMPUTER SYSTEMS ANALYSTS;1;33.3%\n"
	if string(occ) != wantOcc {
		t.Errorf("occupations report:\n%s\nwant:\n%s", occ, wantOcc)
	}

	states, err := os.ReadFile(paths.States)
	if err != nil {
		t.Fatalf("read states: %v", err)
	}
	wantStates := "TOP_STATES;NUMBER_CERTIFIED_APPLICATIONS;PERCENTAGE\n" +
		"CA;2;50.0%\n" +
		"NY;1;25.0%\n" +
		"TX;1;25.0%\n"
	if string(states) != wantStates {
		t.Errorf("states report:\n%s\nwant:\n%s", states, wantStates)
	}
}

type fakeRepo struct{ runs []storage.RunRecord }

func (f *fakeRepo) ArchiveRun(_ context.Context, run storage.RunRecord) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRepo) Close() {}

/*
TestRunReports_Archives swaps the repository seam for a fake and checks the
archived record carries the summary and one row per emitted report line.
*/
func TestRunReports_Archives(t *testing.T) {
	paths := writeSample(t)

	fake := &fakeRepo{}
	orig := newRepositoryFn
	newRepositoryFn = func(_ context.Context, kind string, _ storage.Config) (storage.Repository, error) {
		if kind != "sqlite" {
			t.Errorf("kind = %q, want sqlite", kind)
		}
		return fake, nil
	}
	defer func() { newRepositoryFn = orig }()

	run := config.Default()
	run.Archive = config.Archive{Kind: "sqlite", DSN: "file:unused.db"}

	if err := runReports(context.Background(), run, paths); err != nil {
		t.Fatalf("runReports: %v", err)
	}

	if len(fake.runs) != 1 {
		t.Fatalf("archived runs = %d, want 1", len(fake.runs))
	}
	rec := fake.runs[0]
	if rec.RowsIn != 5 || rec.StatesQualifying != 4 || rec.OccupationsQualifying != 3 {
		t.Errorf("summary = rows_in=%d states=%d occupations=%d, want 5/4/3",
			rec.RowsIn, rec.StatesQualifying, rec.OccupationsQualifying)
	}
	if len(rec.Rows) != 5 { // 2 occupation lines + 3 state lines
		t.Fatalf("archived rows = %d, want 5", len(rec.Rows))
	}
	if rec.Rows[0].Metric != "occupations" || rec.Rows[0].Rank != 1 || rec.Rows[0].Value != "SOFTWARE DEVELOPERS" {
		t.Errorf("first archived row = %+v", rec.Rows[0])
	}
}

/*
TestRunReports_MissingInput surfaces the source error instead of writing
anything.
*/
func TestRunReports_MissingInput(t *testing.T) {
	dir := t.TempDir()
	paths := outputPaths{
		Input:       filepath.Join(dir, "nope.csv"),
		Occupations: filepath.Join(dir, "occ.txt"),
		States:      filepath.Join(dir, "states.txt"),
	}
	err := runReports(context.Background(), config.Default(), paths)
	if err == nil || !strings.Contains(err.Error(), "source open") {
		t.Fatalf("err = %v, want source open error", err)
	}
	if _, statErr := os.Stat(paths.Occupations); !os.IsNotExist(statErr) {
		t.Errorf("occupations file should not exist")
	}
}
