// Package config defines the run configuration for the scrub tool and the
// parsing helpers for single-character specifiers (delimiter, quote).
//
// The configuration is assembled once from the command line, validated, and
// then treated as immutable for the rest of the run.
package config

import "fmt"

// Config is the full configuration surface of one scrub run.
type Config struct {
	// InputPath is the input file; empty means standard input.
	InputPath string

	// Delimiter is the input field separator byte.
	Delimiter byte

	// Quote is the input quote byte; meaningful only when Quoting is true.
	Quote byte

	// Quoting is false when quote processing is disabled entirely.
	Quoting bool

	// NullPattern, when non-empty, blanks any field it matches in full. Case
	// sensitivity is controlled by the pattern itself ("(?i)...").
	NullPattern string

	// ReplaceNewlines folds CRLF/CR/LF sequences inside values to spaces.
	ReplaceNewlines bool

	// TrimWhitespace removes leading/trailing ASCII whitespace from values.
	TrimWhitespace bool

	// CleanColumnNames rewrites header cells to cleaned, unique names.
	CleanColumnNames bool

	// ASCIIColumnNames additionally strips diacritics during header cleaning.
	ASCIIColumnNames bool

	// RequiredColumns lists columns (by their cleaned name when
	// CleanColumnNames is on) that must be non-empty; rows violating this are
	// diverted as bad.
	RequiredColumns []string

	// BadRowsPath, when non-empty, receives diverted bad rows.
	BadRowsPath string

	// DedupeRows drops rows identical (after cleaning) to an earlier row.
	DedupeRows bool

	// Quiet suppresses the summary line.
	Quiet bool
}

// ParseCharSpec parses a single-character specifier. Accepted forms: a single
// ASCII byte, the two-character escape `\t`, the alias "tab", and "none"
// (which disables the feature; enabled is false). Anything else is a
// configuration error.
func ParseCharSpec(spec string) (ch byte, enabled bool, err error) {
	if len(spec) == 1 && spec[0] < 0x80 {
		return spec[0], true, nil
	}
	switch spec {
	case `\t`, "tab":
		return '\t', true, nil
	case "none":
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("cannot parse %q as a single character", spec)
	}
}
