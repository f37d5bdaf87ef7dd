// Package csv parses one yearly disclosure file into records keyed by
// canonicalized header names. Disclosure files are semicolon-delimited with a
// header row; rows that fail to parse or have the wrong width are skipped and
// counted rather than aborting the run.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"h1bstats/pkg/records"
)

// Options configures the parser. Zero values get sensible defaults.
type Options struct {
	// Comma is the field delimiter. When zero, ';' is used (the disclosure
	// file convention).
	Comma rune

	// TrimSpace trims leading/trailing whitespace from each field value.
	TrimSpace bool
}

// Parser reads delimited rows according to Options. Safe to reuse across
// inputs; not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// skipLogLimit caps per-row skip logging so a badly damaged file cannot
// flood stderr.
const skipLogLimit = 400

// Result is the parsed dataset: canonical headers, one Record per data row,
// and the number of rows skipped as malformed.
type Result struct {
	Headers []string
	Rows    []records.Record
	Skipped int
}

// Parse consumes the input and returns headers plus rows. The first row is
// always the header; each header cell is canonicalized (BOM stripped,
// accents removed, lowercased) so the schema alias tables can match it.
// Rows whose width differs from the header are soft-failed.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // width enforced after read, as a soft failure

	h, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	headers := canonicalHeaders(h)

	res := &Result{Headers: headers}
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if res.Skipped < skipLogLimit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			res.Skipped++
			continue
		}
		if len(row) != len(headers) {
			if res.Skipped < skipLogLimit {
				log.Printf("csv: skipping row %d: expected %d fields, got %d", line, len(headers), len(row))
			}
			res.Skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[headers[i]] = emptyToNil(val)
		}
		res.Rows = append(res.Rows, rec)
	}
	return res, nil
}

// emptyToNil converts an empty string to nil; all other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
