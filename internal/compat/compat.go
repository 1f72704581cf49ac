// Package compat canonicalizes free-text identity fields (names, emails,
// places) so that values typed differently by different people compare equal.
package compat

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the comparison form of s: canonical decomposition,
// combining marks dropped, full Unicode case folding and every whitespace
// rune removed.
//
//	Normalize(" Jean Paul ") == Normalize("jeanpaul")
//	Normalize("José") == Normalize("JOSE")
//	Normalize("Straße") == Normalize("STRASSE")
//
// Folding can introduce combining marks again (İ folds to i + U+0307), so
// marks are stripped once more after it; this keeps Normalize idempotent.
func Normalize(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, out)
}

// Equal reports whether a and b have the same comparison form.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
