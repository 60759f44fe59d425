// file: internal/filter/predicates.go
// version: 1.1.0
// guid: 9c6f1a37-2e84-4b50-8d19-e3b7a05c4f82

package filter

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/elsayedebiad/qsr-final-sub001/internal/matcher"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

// Predicate decides whether rec satisfies value for one dimension. Every
// predicate returns true for ALL and false for values it does not know.
type Predicate func(rec *models.CandidateRecord, value string) bool

// Catalog maps each dimension to its predicate.
type Catalog map[Dimension]Predicate

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

func isAll(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, All)
}

// NewCatalog builds the predicate catalog backed by vocab. A nil vocab uses
// the built-in tables.
func NewCatalog(vocab *Vocabulary) Catalog {
	lx := compile(vocab)
	return Catalog{
		DimNationality:    guard(lx.nationality),
		DimPosition:       guard(lx.position),
		DimAge:            guard(ageMatches),
		DimSkills:         guard(skillsMatch),
		DimArabicLevel:    guard(languageMatches(func(r *models.CandidateRecord) models.SkillLevel { return r.ArabicLevel })),
		DimEnglishLevel:   guard(languageMatches(func(r *models.CandidateRecord) models.SkillLevel { return r.EnglishLevel })),
		DimEducation:      guard(lx.education),
		DimExperience:     guard(lx.experience),
		DimHeight:         guard(measureMatches(func(r *models.CandidateRecord) string { return r.Height.String() }, heightAliases)),
		DimWeight:         guard(measureMatches(func(r *models.CandidateRecord) string { return r.Weight.String() }, weightAliases)),
		DimLocation:       guard(locationMatches),
		DimReligion:       guard(lx.religion),
		DimMaritalStatus:  guard(textEquals(func(r *models.CandidateRecord) string { return r.MaritalStatus })),
		DimPassportStatus: guard(passportMatches),
		DimChildren:       guard(childrenMatches),
		DimSalary:         guard(measureMatches(func(r *models.CandidateRecord) string { return r.MonthlySalary.String() }, salaryAliases)),
		DimContractPeriod: guard(textEquals(func(r *models.CandidateRecord) string { return r.ContractPeriod })),
		DimDriving:        guard(drivingMatches),
		DimStatus:         guard(textEquals(func(r *models.CandidateRecord) string { return string(r.Status) })),
	}
}

// guard applies the ALL rule and rejects nil records.
func guard(p Predicate) Predicate {
	return func(rec *models.CandidateRecord, value string) bool {
		if isAll(value) {
			return true
		}
		if rec == nil {
			return false
		}
		return p(rec, strings.TrimSpace(value))
	}
}

func (lx *lexicon) nationality(rec *models.CandidateRecord, value string) bool {
	nat := strings.TrimSpace(rec.Nationality)
	if nat == "" {
		return false
	}
	if strings.EqualFold(nat, value) {
		return true
	}
	if nv := matcher.Normalize(value); nv != "" && strings.Contains(matcher.Normalize(nat), nv) {
		return true
	}
	code := lx.canonicalNationality(value)
	return code != "" && code == lx.canonicalNationality(nat)
}

func (lx *lexicon) position(rec *models.CandidateRecord, value string) bool {
	pos := strings.TrimSpace(rec.Position)
	if pos == "" {
		return false
	}
	np := matcher.Normalize(pos)
	if keywords, ok := lx.positions[strings.ToUpper(value)]; ok {
		for _, kw := range keywords {
			if strings.Contains(np, kw) {
				return true
			}
		}
		return false
	}
	if strings.EqualFold(pos, value) {
		return true
	}
	nv := matcher.Normalize(value)
	return nv != "" && strings.Contains(np, nv)
}

func ageMatches(rec *models.CandidateRecord, value string) bool {
	age := float64(rec.Age)
	if age <= 0 {
		return false
	}
	in, ok := parseRange(value)
	return ok && in(age)
}

func skillsMatch(rec *models.CandidateRecord, value string) bool {
	for _, raw := range strings.Split(value, ",") {
		level, ok := rec.Skill(models.SkillKey(strings.TrimSpace(raw)))
		if ok && level.Capable() {
			return true
		}
	}
	return false
}

const levelWeak = models.SkillLevel("WEAK")

func languageMatches(get func(*models.CandidateRecord) models.SkillLevel) Predicate {
	return func(rec *models.CandidateRecord, value string) bool {
		stored := get(rec)
		if stored == levelWeak {
			stored = models.LevelNone
		}
		switch want := models.ParseSkillLevel(value); want {
		case levelWeak:
			return stored == models.LevelNone
		case models.LevelYes, models.LevelNo, models.LevelWilling:
			return stored.OrNo() == want
		}
		return false
	}
}

func drivingMatches(rec *models.CandidateRecord, value string) bool {
	switch want := models.ParseSkillLevel(value); want {
	case models.LevelYes, models.LevelNo, models.LevelWilling:
		return rec.Driving.OrNo() == want
	}
	return false
}

func (lx *lexicon) isUneducated(rec *models.CandidateRecord) bool {
	text := matcher.Normalize(rec.EducationText())
	if text == "" {
		return true
	}
	for _, tok := range lx.uneducatedTokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

func (lx *lexicon) education(rec *models.CandidateRecord, value string) bool {
	key := matcher.Normalize(value)
	switch {
	case lx.uneducated[key]:
		return lx.isUneducated(rec)
	case lx.educated[key]:
		return !lx.isUneducated(rec)
	}
	return false
}

// experienceYears extracts the years of experience from free text. The
// first integer wins; without digits the text is checked against the
// "none" phrases and then the number-word table. Unknown text counts as 0.
func (lx *lexicon) experienceYears(text string) int {
	text = strings.TrimSpace(matcher.FoldDigits(text))
	if text == "" {
		return 0
	}
	if m := numberPattern.FindString(text); m != "" {
		if n, err := strconv.ParseFloat(m, 64); err == nil {
			return int(n)
		}
	}
	nt := matcher.Normalize(text)
	if lx.noExperience[nt] {
		return 0
	}
	words := normalizedList(strings.Fields(text))
	for _, w := range lx.experienceWords {
		if containsPhrase(words, w.words) {
			return w.value
		}
	}
	return 0
}

// containsPhrase reports whether phrase occurs as consecutive whole words
// of words.
func containsPhrase(words, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(words); i++ {
		if slices.Equal(words[i:i+len(phrase)], phrase) {
			return true
		}
	}
	return false
}

func (lx *lexicon) experience(rec *models.CandidateRecord, value string) bool {
	years := lx.experienceYears(rec.Experience)
	switch strings.ToUpper(value) {
	case "NONE", "NO_EXPERIENCE":
		return years == 0
	case "10+", "MORE_10":
		return years > 10
	}
	in, ok := parseRange(value)
	return ok && in(float64(years))
}

// bucket reports whether a number falls inside a named range.
type bucket func(x float64) bool

var heightAliases = map[string]bucket{
	"SHORT":  func(x float64) bool { return x < 160 },
	"MEDIUM": func(x float64) bool { return x >= 160 && x <= 170 },
	"TALL":   func(x float64) bool { return x > 170 },
}

var weightAliases = map[string]bucket{
	"LIGHT":  func(x float64) bool { return x < 60 },
	"MEDIUM": func(x float64) bool { return x >= 60 && x <= 80 },
	"HEAVY":  func(x float64) bool { return x > 80 },
}

var salaryAliases = map[string]bucket{
	"LOW":    func(x float64) bool { return x >= 0 && x <= 500 },
	"MEDIUM": func(x float64) bool { return x >= 501 && x <= 1000 },
	"HIGH":   func(x float64) bool { return x >= 1001 && x <= 1500 },
}

// parseRange understands "A-B" (inclusive on both ends) and "A+".
func parseRange(value string) (bucket, bool) {
	v := strings.ReplaceAll(matcher.FoldDigits(value), " ", "")
	v = strings.NewReplacer("–", "-", "—", "-").Replace(v)
	if strings.HasSuffix(v, "+") {
		lo, err := strconv.ParseFloat(strings.TrimSuffix(v, "+"), 64)
		if err != nil {
			return nil, false
		}
		return func(x float64) bool { return x >= lo }, true
	}
	lo, hi, found := strings.Cut(v, "-")
	if !found {
		return nil, false
	}
	l, err1 := strconv.ParseFloat(lo, 64)
	h, err2 := strconv.ParseFloat(hi, 64)
	if err1 != nil || err2 != nil || l > h {
		return nil, false
	}
	return func(x float64) bool { return x >= l && x <= h }, true
}

// firstNumber parses the leading numeric value out of strings like "165 cm".
func firstNumber(s string) (float64, bool) {
	m := numberPattern.FindString(matcher.FoldDigits(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func measureMatches(get func(*models.CandidateRecord) string, aliases map[string]bucket) Predicate {
	return func(rec *models.CandidateRecord, value string) bool {
		x, ok := firstNumber(get(rec))
		if !ok {
			return false
		}
		if in, named := aliases[strings.ToUpper(value)]; named {
			return in(x)
		}
		in, ok := parseRange(value)
		return ok && in(x)
	}
}

func locationMatches(rec *models.CandidateRecord, value string) bool {
	needle := strings.ToLower(value)
	for _, field := range []string{rec.LivingTown, rec.PlaceOfBirth} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (lx *lexicon) religion(rec *models.CandidateRecord, value string) bool {
	nr := matcher.Normalize(rec.Religion)
	if nr == "" {
		return false
	}
	key := strings.ToUpper(value)
	known := false
	for _, g := range lx.religions {
		hit := containsAny(nr, g.tokens)
		if g.key == key {
			return hit
		}
		known = known || hit
	}
	if key == "OTHER" {
		return !known
	}
	return nr == matcher.Normalize(value)
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func passportMatches(rec *models.CandidateRecord, value string) bool {
	hasNumber := strings.TrimSpace(rec.PassportNumber) != ""
	hasExpiry := strings.TrimSpace(rec.PassportExpiryDate) != ""
	switch strings.ToUpper(value) {
	case "VALID":
		return hasNumber && hasExpiry
	case "EXPIRED":
		return hasNumber && !hasExpiry
	case "MISSING":
		return !hasNumber
	}
	return false
}

func childrenMatches(rec *models.CandidateRecord, value string) bool {
	n := rec.ChildrenCount()
	switch strings.ToUpper(value) {
	case "NONE":
		return n == 0
	case "FEW":
		return n >= 1 && n <= 2
	case "MANY", "3+":
		return n >= 3
	}
	if want, err := strconv.Atoi(value); err == nil {
		return n == want
	}
	return false
}

func textEquals(get func(*models.CandidateRecord) string) Predicate {
	return func(rec *models.CandidateRecord, value string) bool {
		field := strings.TrimSpace(get(rec))
		if field == "" {
			return false
		}
		return strings.EqualFold(field, value) || matcher.Normalize(field) == matcher.Normalize(value)
	}
}
