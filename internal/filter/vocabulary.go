// file: internal/filter/vocabulary.go
// version: 1.1.0
// guid: 7b2e9f14-3c85-4d6a-90e7-c1a4d8f63b29

package filter

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/elsayedebiad/qsr-final-sub001/internal/matcher"
	"gopkg.in/yaml.v3"
)

// Vocabulary holds the bilingual token tables used by predicates. Entries
// from a YAML file are merged over the built-in defaults.
type Vocabulary struct {
	// Nationalities maps a canonical code to its display aliases and stems.
	Nationalities map[string][]string `yaml:"nationalities"`
	// PositionCategories maps a category key to the keywords that mark it.
	PositionCategories map[string][]string `yaml:"position_categories"`
	Religions          map[string][]string `yaml:"religions"`
	EducatedKeys       []string            `yaml:"educated_keys"`
	UneducatedKeys     []string            `yaml:"uneducated_keys"`
	UneducatedTokens   []string            `yaml:"uneducated_tokens"`
	NoExperience       []string            `yaml:"no_experience"`
	ExperienceWords    map[string]int      `yaml:"experience_words"`
}

// DefaultVocabulary returns the built-in tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Nationalities: map[string][]string{
			"FILIPINO":    {"فلبينية", "فلبيني", "الفلبين", "فلبين", "filipino", "filipina", "philippines"},
			"INDIAN":      {"هندية", "هندي", "الهند", "indian", "india"},
			"SRI_LANKAN":  {"سريلانكية", "سريلانكي", "سريلانكا", "سيريلانك", "سريلانك", "sri lanka", "srilankan"},
			"BANGLADESHI": {"بنغلاديشية", "بنغلاديش", "بنجلاديش", "bangladesh", "bangladeshi"},
			"ETHIOPIAN":   {"إثيوبية", "إثيوبيا", "إثيوبي", "اثيوبي", "ethiopia", "ethiopian"},
			"KENYAN":      {"كينية", "كينيا", "كيني", "kenya", "kenyan"},
			"UGANDAN":     {"أوغندية", "اوغندية", "أوغند", "اوغند", "uganda", "ugandan"},
			"BURUNDIAN":   {"بوروندية", "بوروندي", "بروندي", "burundi", "burundian"},
		},
		PositionCategories: map[string][]string{
			"DRIVER":   {"سائق", "سائقة", "driver"},
			"SERVICES": {"نقل خدمات", "نقل الخدمات", "transport services", "services transfer"},
		},
		Religions: map[string][]string{
			"MUSLIM":    {"مسلم", "muslim", "islam"},
			"CHRISTIAN": {"مسيحي", "christian"},
			"BUDDHIST":  {"بوذي", "buddhist", "buddhism"},
			"HINDU":     {"هندوس", "hindu"},
		},
		EducatedKeys:   []string{"EDUCATED", "متعلم", "متعلمة"},
		UneducatedKeys: []string{"UNEDUCATED", "غير متعلم", "غير متعلمة"},
		UneducatedTokens: []string{
			"غير متعلم", "أمي", "أمية", "لا يقرأ", "لا يكتب", "لا تقرأ", "لا تكتب",
			"بدون تعليم", "illiterate", "uneducated", "not educated", "no education", "none",
		},
		NoExperience: []string{
			"لا يوجد", "لايوجد", "بدون خبرة", "بدون", "لا", "غير محدد",
			"none", "no", "no experience", "nil", "n/a",
		},
		ExperienceWords: map[string]int{
			"سنة واحدة": 1, "سنه": 1, "عام": 1, "سنتين": 2, "سنتان": 2, "عامين": 2,
			"ثلاث": 3, "ثلاثة": 3, "اربع": 4, "أربع": 4, "أربعة": 4, "خمس": 5, "خمسة": 5,
			"ست": 6, "ستة": 6, "سبع": 7, "سبعة": 7, "ثمان": 8, "ثمانية": 8,
			"تسع": 9, "تسعة": 9, "عشر": 10, "عشرة": 10,
			"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
			"seven": 7, "eight": 8, "nine": 9, "ten": 10,
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file and merges it over the
// defaults. An empty path returns the defaults.
func LoadVocabulary(path string) (*Vocabulary, error) {
	v := DefaultVocabulary()
	if path == "" {
		return v, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	var extra Vocabulary
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}
	v.Merge(&extra)
	return v, nil
}

// Merge adds the entries of other to v. Alias lists are appended.
func (v *Vocabulary) Merge(other *Vocabulary) {
	if other == nil {
		return
	}
	mergeLists := func(dst, src map[string][]string) {
		for k, list := range src {
			key := strings.ToUpper(strings.TrimSpace(k))
			dst[key] = append(dst[key], list...)
		}
	}
	mergeLists(v.Nationalities, other.Nationalities)
	mergeLists(v.PositionCategories, other.PositionCategories)
	mergeLists(v.Religions, other.Religions)
	v.EducatedKeys = append(v.EducatedKeys, other.EducatedKeys...)
	v.UneducatedKeys = append(v.UneducatedKeys, other.UneducatedKeys...)
	v.UneducatedTokens = append(v.UneducatedTokens, other.UneducatedTokens...)
	v.NoExperience = append(v.NoExperience, other.NoExperience...)
	for k, n := range other.ExperienceWords {
		v.ExperienceWords[k] = n
	}
}

// lexicon is the normalized, read-only form of a Vocabulary.
type lexicon struct {
	nationalities    []tokenGroup
	positions        map[string][]string
	religions        []tokenGroup
	educated         map[string]bool
	uneducated       map[string]bool
	uneducatedTokens []string
	noExperience     map[string]bool
	experienceWords  []weightedWord
}

type tokenGroup struct {
	key    string
	tokens []string
}

// weightedWord is a number phrase split into normalized words. It only
// matches whole words of the text, so "ست" does not hit "ستمائة".
type weightedWord struct {
	words []string
	value int
}

func compile(v *Vocabulary) *lexicon {
	if v == nil {
		v = DefaultVocabulary()
	}
	lx := &lexicon{
		positions:    make(map[string][]string, len(v.PositionCategories)),
		educated:     normalizedSet(v.EducatedKeys),
		uneducated:   normalizedSet(v.UneducatedKeys),
		noExperience: normalizedSet(v.NoExperience),
	}
	lx.nationalities = groups(v.Nationalities)
	lx.religions = groups(v.Religions)
	for k, words := range v.PositionCategories {
		lx.positions[strings.ToUpper(k)] = normalizedList(words)
	}
	lx.uneducatedTokens = normalizedList(v.UneducatedTokens)
	for w, n := range v.ExperienceWords {
		if words := normalizedList(strings.Fields(w)); len(words) > 0 {
			lx.experienceWords = append(lx.experienceWords, weightedWord{words: words, value: n})
		}
	}
	// longest phrase first so "سنة واحدة" wins over "سنه"
	sort.Slice(lx.experienceWords, func(i, j int) bool {
		a, b := lx.experienceWords[i], lx.experienceWords[j]
		if len(a.words) != len(b.words) {
			return len(a.words) > len(b.words)
		}
		return strings.Join(a.words, " ") < strings.Join(b.words, " ")
	})
	return lx
}

func groups(m map[string][]string) []tokenGroup {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]tokenGroup, 0, len(keys))
	for _, k := range keys {
		tokens := normalizedList(append([]string{k}, m[k]...))
		out = append(out, tokenGroup{key: strings.ToUpper(k), tokens: tokens})
	}
	return out
}

func normalizedList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := matcher.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func normalizedSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range normalizedList(in) {
		out[s] = true
	}
	return out
}

// canonicalNationality resolves s to a canonical code. An exact alias hit
// wins; otherwise the longest alias contained in s decides.
func (lx *lexicon) canonicalNationality(s string) string {
	ns := matcher.Normalize(s)
	if ns == "" {
		return ""
	}
	best, bestLen := "", 0
	for _, g := range lx.nationalities {
		for _, tok := range g.tokens {
			if tok == ns {
				return g.key
			}
			if len(tok) > bestLen && strings.Contains(ns, tok) {
				best, bestLen = g.key, len(tok)
			}
		}
	}
	return best
}

func (lx *lexicon) isPositionCategory(value string) bool {
	_, ok := lx.positions[strings.ToUpper(strings.TrimSpace(value))]
	return ok
}
