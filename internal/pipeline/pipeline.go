// Package pipeline implements the streaming row validation and cleaning
// loop: one record at a time flows from the tokenizer through the shape
// check, the cell cleaner, and the required-column check, then out to the
// primary writer or the bad-row sink. Processing is strictly sequential;
// record N+1 is never touched before record N's fate is decided.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"scrub/internal/cleaner"
	"scrub/internal/uniquifier"
)

// RecordReader is the tokenizer side of the pipeline. Read returns io.EOF at
// end of input; any other error aborts the run (a corrupt framing is not a
// single-row problem).
type RecordReader interface {
	Read() ([]string, error)
	BytesRead() uint64
}

// RecordWriter is the serializing side. Flush must be called once after the
// loop; buffered bytes only count once flushed.
type RecordWriter interface {
	Write([]string) error
	Flush() error
}

// Options selects the optional behaviors of a run. The cleaner configuration
// lives in cleaner.Cleaner; everything else is here.
type Options struct {
	// CleanColumnNames rewrites the header through the uniquifier.
	CleanColumnNames bool

	// ASCIIColumnNames strips diacritics during header cleaning.
	ASCIIColumnNames bool

	// RequiredColumns are column names (matched against the written header,
	// i.e. the cleaned names when CleanColumnNames is on) that must be
	// non-empty after cleaning.
	RequiredColumns []string

	// DedupeRows drops rows whose written fields hash identically to an
	// earlier row's.
	DedupeRows bool
}

// Summary reports the counters of a completed run.
type Summary struct {
	// Rows is the total row count; the header counts as row one.
	Rows uint64

	// BadRows counts rows rejected by the shape check or the required-column
	// check.
	BadRows uint64

	// DuplicateRows counts rows dropped by dedupe. Duplicates are not bad
	// rows and do not feed the quality gate.
	DuplicateRows uint64

	// BytesRead is the raw input consumed.
	BytesRead uint64

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Pipeline owns one run. Construct with New, execute with Run once.
type Pipeline struct {
	rdr RecordReader
	wtr RecordWriter
	bad RecordWriter // nil when no bad-row sink is configured
	cln *cleaner.Cleaner
	opt Options
}

// New assembles a pipeline. bad may be nil.
func New(rdr RecordReader, wtr, bad RecordWriter, cln *cleaner.Cleaner, opt Options) *Pipeline {
	return &Pipeline{rdr: rdr, wtr: wtr, bad: bad, cln: cln, opt: opt}
}

// Run executes the row loop until the input is exhausted, flushes all
// output, and returns the counters. The quality gate is the caller's job
// (Summary.CheckQuality), so the summary can be reported before the verdict.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	// The header counts as the first row processed.
	sum := Summary{Rows: 1}

	hdr, err := p.rdr.Read()
	if err == io.EOF {
		// Empty input: nothing to write, nothing bad.
		sum.BytesRead = p.rdr.BytesRead()
		sum.Elapsed = time.Since(start)
		return sum, nil
	}
	if err != nil {
		return sum, fmt.Errorf("cannot read headers: %w", err)
	}

	if p.opt.CleanColumnNames {
		u := uniquifier.New(p.opt.ASCIIColumnNames)
		cleaned := make([]string, len(hdr))
		for i, col := range hdr {
			cleaned[i] = u.UniqueIDFor(col)
		}
		hdr = cleaned
	}

	if err := p.wtr.Write(hdr); err != nil {
		return sum, fmt.Errorf("cannot write headers: %w", err)
	}

	expectedCols := len(hdr)

	// Precompute which positions must hold a value. Names are matched
	// against the header as written (cleaned form when cleaning is on).
	required := make([]bool, len(hdr))
	anyRequired := false
	for i, name := range hdr {
		for _, want := range p.opt.RequiredColumns {
			if want == name {
				required[i] = true
				anyRequired = true
				break
			}
		}
	}

	// Fast path: with no cleaning and no required columns, rows of the right
	// shape pass through untouched. Must stay equivalent to the slow path
	// with everything disabled.
	useFastPath := !p.cln.Active() && !anyRequired

	var seen *dedupeSet
	if p.opt.DedupeRows {
		seen = newDedupeSet()
	}

nextRow:
	for {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		record, err := p.rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("cannot read record: %w", err)
		}

		sum.Rows++

		// Shape check. This alone catches most malformed input: a wrong
		// delimiter, an embedded unescaped newline, a truncated final row.
		if len(record) != expectedCols {
			sum.BadRows++
			if err := p.divert(record); err != nil {
				return sum, err
			}
			continue
		}

		if useFastPath {
			if seen != nil && seen.isDuplicate(record) {
				sum.DuplicateRows++
				continue
			}
			if err := p.wtr.Write(record); err != nil {
				return sum, fmt.Errorf("cannot write record: %w", err)
			}
			continue
		}

		cleaned := make([]string, len(record))
		for i, v := range record {
			cleaned[i] = p.cln.Clean(v)
		}

		if anyRequired {
			for i, must := range required {
				if must && cleaned[i] == "" {
					sum.BadRows++
					// The diverted copy is the original record as received,
					// not the cleaned one: the sink exists for diagnosing
					// why a row was rejected.
					if err := p.divert(record); err != nil {
						return sum, err
					}
					continue nextRow
				}
			}
		}

		if seen != nil && seen.isDuplicate(cleaned) {
			sum.DuplicateRows++
			continue
		}
		if err := p.wtr.Write(cleaned); err != nil {
			return sum, fmt.Errorf("cannot write record: %w", err)
		}
	}

	if err := p.wtr.Flush(); err != nil {
		return sum, fmt.Errorf("error writing records: %w", err)
	}
	if p.bad != nil {
		if err := p.bad.Flush(); err != nil {
			return sum, fmt.Errorf("error writing bad rows: %w", err)
		}
	}

	sum.BytesRead = p.rdr.BytesRead()
	sum.Elapsed = time.Since(start)
	return sum, nil
}

// divert writes a rejected record to the bad-row sink, if one is configured.
func (p *Pipeline) divert(record []string) error {
	if p.bad == nil {
		return nil
	}
	if err := p.bad.Write(record); err != nil {
		return fmt.Errorf("cannot write bad row: %w", err)
	}
	return nil
}
