// file: internal/matcher/fuzzy_test.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8901-bcde-f23456789012

package matcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"فاطمة", "فاطمه"},
		{"أحمد", "احمد"},
		{"إيمان", "ايمان"},
		{"آمنة", "امنه"},
		{"مُحَمَّد", "محمد"},
		{"مصطفى", "مصطفي"},
		{"مؤمن", "مومن"},
		{"هانـــي", "هاني"},
		{"José Ñúñez", "josenunez"},
		{"Maria  Santos", "mariasantos"},
		{"٠١٢٣", "0123"},
		{"ÇAĞRI", "cagri"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"فاطمة الزهراء", "İstanbul", "ℌello", "Maria Santos", "سيريلانكية",
		"مُحَمَّد", "ﻻ", "ﷺ", "x‏y", "Straße", "١٢ سنة",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "not idempotent for %q", in)
	}
}

func TestTolerance(t *testing.T) {
	assert.Equal(t, 0, Tolerance(1))
	assert.Equal(t, 0, Tolerance(2))
	assert.Equal(t, 1, Tolerance(3))
	assert.Equal(t, 1, Tolerance(5))
	assert.Equal(t, 2, Tolerance(6))
	assert.Equal(t, 2, Tolerance(40))
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		haystack  string
		needle    string
		wantMatch bool
	}{
		{"empty haystack", "", "maria", false},
		{"empty needle", "Maria", "", false},
		{"whitespace needle", "Maria", "   ", false},
		{"substring", "Maria Santos", "sant", true},
		{"case insensitive", "Maria Santos", "MARIA", true},
		{"ta marbuta folded", "فاطمة", "فاطمه", true},
		{"hamza folded", "أحمد علي", "احمد", true},
		{"different name", "فريدة", "فاطمه", false},
		{"one typo", "Maria Santos", "Santoz", true},
		{"two typos long needle", "Christopher", "Kristofer", false},
		{"two typos long needle match", "Christopher Lee", "Chrystophar", true},
		{"short needle exact only", "Maria", "mx", false},
		{"short needle substring", "Maria", "ri", true},
		{"no reverse containment", "Ana", "Anastasia", false},
		{"diacritics", "José", "jose", true},
		{"window inside word", "Philippines", "filipp", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMatch, Matches(tt.haystack, tt.needle))
		})
	}
}

func TestMatchesSubstringImpliesMatch(t *testing.T) {
	haystack := "Maria Dela Cruz Santos"
	for i := 0; i < len(haystack); i++ {
		for j := i + 1; j <= len(haystack); j++ {
			needle := haystack[i:j]
			if strings.TrimSpace(needle) == "" {
				continue
			}
			assert.True(t, Matches(haystack, needle), "needle %q", needle)
		}
	}
}

func TestContainsPlain(t *testing.T) {
	assert.True(t, ContainsPlain("+966 555 1234", "555"))
	assert.True(t, ContainsPlain("0555", "٠٥٥٥"))
	assert.False(t, ContainsPlain("0555", "0556"))
	assert.False(t, ContainsPlain("", "1"))
	assert.False(t, ContainsPlain("123", " "))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, MatchesAny("santos", "", "Maria Santos"))
	assert.False(t, MatchesAny("santos"))
}

func TestSuggest(t *testing.T) {
	options := []string{"الفلبين", "Philippines", "Kenya", "Ethiopia", "India"}

	got := Suggest("ken", options, 5)
	assert.Equal(t, []string{"Kenya"}, got)

	got = Suggest("filipines", options, 5)
	assert.Contains(t, got, "Philippines")

	assert.Equal(t, []string{"الفلبين", "Philippines"}, Suggest("", options, 2))
	assert.Len(t, Suggest("i", options, 2), 2)
}
