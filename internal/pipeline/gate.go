package pipeline

import "fmt"

// TooManyBadRowsError is the quality-gate verdict: more than 10% of rows
// were bad. Everything already written stays written; the error exists so
// the caller can signal a distinct outcome (and automation can choose to
// tolerate it) separate from hard I/O or parse failures.
type TooManyBadRowsError struct {
	Bad   uint64
	Total uint64
}

func (e *TooManyBadRowsError) Error() string {
	return fmt.Sprintf("Too many rows (%d of %d) were bad", e.Bad, e.Total)
}

// CheckQuality applies the fixed 10% threshold to a finished run. It returns
// a *TooManyBadRowsError when bad*10 > total, nil otherwise.
func (s Summary) CheckQuality() error {
	if s.BadRows*10 > s.Rows {
		return &TooManyBadRowsError{Bad: s.BadRows, Total: s.Rows}
	}
	return nil
}
