// file: internal/matcher/normalize.go
// version: 2.0.0
// guid: c4e8a1d3-6b29-4f70-8d5e-2a9f13b7c604

package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

// letterFolds collapses Arabic orthographic variants that survive mark
// removal. Hamza carriers (أ إ آ ؤ ئ) are already split into a base letter
// plus a nonspacing mark by NFKD.
var letterFolds = map[rune]rune{
	'ة': 'ه',
	'ى': 'ي',
	'ی': 'ي', // farsi yeh
	'ک': 'ك', // keheh
	'ٱ': 'ا', // alef wasla
}

// Normalize folds s into the canonical comparison form used by every text
// match in the engine: diacritics and harakat stripped, hamza and ta
// marbuta variants folded, lower-cased, Eastern Arabic digits mapped to
// ASCII and all whitespace removed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r), r == tatweel:
			continue
		case unicode.Is(unicode.Mn, r), unicode.Is(unicode.Cf, r):
			// lower-casing can reintroduce combining marks (e.g. U+0130)
			continue
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		default:
			if f, ok := letterFolds[r]; ok {
				r = f
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FoldDigits maps Eastern Arabic digits to ASCII and leaves everything else
// untouched, including whitespace.
func FoldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		}
		return r
	}, s)
}
