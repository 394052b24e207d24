// This file adds a lightweight linter/validator for Config values. It
// performs static checks and returns a list of issues (errors and warnings)
// that the CLI surfaces before any row is processed.
package config

import (
	"fmt"
	"regexp"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced to users but does
	// not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path names the offending option (e.g. "delimiter", "null"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func (c Config) Validate() []Issue {
	var issues []Issue

	if c.Delimiter == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "delimiter",
			Message:  "field delimiter is required; \"none\" is not a valid delimiter",
		})
	}
	if c.Quoting && c.Quote != '"' {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "quote",
			Message:  fmt.Sprintf("unsupported quote character %q; use '\"' or \"none\"", string(c.Quote)),
		})
	}
	if c.NullPattern != "" {
		if _, err := regexp.Compile(c.NullPattern); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "null",
				Message:  fmt.Sprintf("cannot compile regular expression: %v", err),
			})
		}
	}
	if c.ASCIIColumnNames && !c.CleanColumnNames {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "ascii-column-names",
			Message:  "has no effect without clean-column-names",
		})
	}
	if len(c.RequiredColumns) > 0 {
		for i, name := range c.RequiredColumns {
			if name == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     fmt.Sprintf("drop-row-if-null[%d]", i),
					Message:  "column name must not be empty",
				})
			}
		}
	}

	return issues
}
