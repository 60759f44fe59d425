// file: internal/matcher/fuzzy.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package matcher

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxTolerance caps the edit distance accepted by Matches.
const MaxTolerance = 2

// Tolerance returns the accepted edit distance for a needle of n runes:
// min(2, n/3). Needles shorter than three runes must match exactly.
func Tolerance(n int) int {
	return min(MaxTolerance, n/3)
}

// Matches reports whether needle approximately occurs in haystack.
//
// Both sides are normalized first. A plain substring hit wins immediately;
// otherwise every haystack word (and the whole haystack) is compared to the
// needle as a unit, and then every needle-length window of the haystack is
// compared, each against Tolerance(len(needle)). Distance is unit-cost
// Levenshtein over runes.
func Matches(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	h := Normalize(haystack)
	n := Normalize(needle)
	if h == "" || n == "" {
		return false
	}
	if strings.Contains(h, n) {
		return true
	}

	nr := []rune(n)
	tol := Tolerance(len(nr))
	if tol == 0 {
		return false
	}

	for _, w := range strings.Fields(haystack) {
		if withinDistance(Normalize(w), n, len(nr), tol) {
			return true
		}
	}
	if withinDistance(h, n, len(nr), tol) {
		return true
	}

	hr := []rune(h)
	for i := 0; i+len(nr) <= len(hr); i++ {
		if fuzzy.LevenshteinDistance(string(hr[i:i+len(nr)]), n) <= tol {
			return true
		}
	}
	return false
}

func withinDistance(word, needle string, needleLen, tol int) bool {
	if word == "" {
		return false
	}
	diff := len([]rune(word)) - needleLen
	if diff > tol || -diff > tol {
		return false
	}
	return fuzzy.LevenshteinDistance(word, needle) <= tol
}

// ContainsPlain is the non-fuzzy check used for numeric identifiers such as
// phone numbers. Only digits are folded; nothing else is normalized.
func ContainsPlain(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(FoldDigits(haystack), FoldDigits(needle))
}

// MatchesAny reports whether needle matches at least one of fields.
func MatchesAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if Matches(f, needle) {
			return true
		}
	}
	return false
}
