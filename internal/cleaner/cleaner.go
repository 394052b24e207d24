// Package cleaner applies per-cell normalizations: null-pattern blanking,
// whitespace trimming, and newline folding. A Cleaner is configured once per
// run and is stateless afterwards; it changes field content, never field
// count.
package cleaner

import (
	"fmt"
	"regexp"
	"strings"
)

// asciiSpace is the byte-wise trim cutset: the ASCII whitespace bytes. The
// trim is deliberately not Unicode-aware so it stays safe on non-UTF-8,
// ASCII-compatible data.
const asciiSpace = " \t\n\x0c\r"

// Cleaner holds the compiled per-cell transformation configuration.
type Cleaner struct {
	nullRe          *regexp.Regexp
	trimWhitespace  bool
	replaceNewlines bool

	// newlineRe matches a CRLF pair, a lone CR, or a lone LF. These sequences
	// break downstream CSV importers (BigQuery among them) when they appear
	// inside quoted values. Built once at construction; no package-level
	// singleton.
	newlineRe *regexp.Regexp
}

// New compiles the cleaning configuration. nullPattern, when non-empty, is
// anchored so it must match an entire field value; case sensitivity is
// controlled by the pattern itself (e.g. "(?i)null"). An unparseable pattern
// is a configuration error.
func New(nullPattern string, trimWhitespace, replaceNewlines bool) (*Cleaner, error) {
	c := &Cleaner{
		trimWhitespace:  trimWhitespace,
		replaceNewlines: replaceNewlines,
		newlineRe:       regexp.MustCompile(`\r\n|\r|\n`),
	}
	if nullPattern != "" {
		re, err := regexp.Compile(`\A(?:` + nullPattern + `)\z`)
		if err != nil {
			return nil, fmt.Errorf("compile null pattern %q: %w", nullPattern, err)
		}
		c.nullRe = re
	}
	return c, nil
}

// Active reports whether any cleaning step is enabled. When false, Clean is
// the identity function and callers may skip it entirely.
func (c *Cleaner) Active() bool {
	return c.nullRe != nil || c.trimWhitespace || c.replaceNewlines
}

// Clean transforms one field value. The step order is fixed: null blanking,
// then trimming, then newline folding, each operating on the previous step's
// output. Unchanged values are returned without copying.
func (c *Cleaner) Clean(v string) string {
	if c.nullRe != nil && c.nullRe.MatchString(v) {
		v = ""
	}
	if c.trimWhitespace {
		v = strings.Trim(v, asciiSpace)
	}
	// Cheap pre-check before the costly substitution.
	if c.replaceNewlines && strings.ContainsAny(v, "\r\n") {
		v = c.newlineRe.ReplaceAllString(v, " ")
	}
	return v
}
