// file: internal/filter/predicates_test.go
// version: 1.0.0
// guid: 2f8d6b41-7c09-4e53-a1b7-d94e0c3f6a18

package filter

import (
	"testing"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *models.FlexInt {
	v := models.FlexInt(n)
	return &v
}

func TestPredicatesAllIsNeutral(t *testing.T) {
	catalog := NewCatalog(nil)
	records := []*models.CandidateRecord{
		{},
		{FullName: "Maria", Nationality: "FILIPINO", Age: 30, Cleaning: models.LevelYes},
		nil,
	}
	for _, d := range AllDimensions {
		p, ok := catalog[d]
		if !assert.True(t, ok, "missing predicate for %s", d) {
			continue
		}
		for _, rec := range records {
			assert.True(t, p(rec, All), "%s should accept ALL", d)
			assert.True(t, p(rec, ""), "%s should accept empty", d)
		}
	}
}

func TestPredicatesRejectUnknownVocabulary(t *testing.T) {
	catalog := NewCatalog(nil)
	rec := &models.CandidateRecord{
		Age: 30, Height: "165", Weight: "70", MonthlySalary: "900",
		ArabicLevel: models.LevelYes, Driving: models.LevelYes,
		Cleaning: models.LevelYes, PassportNumber: "P1",
		Experience: "5 years", EducationLevel: "متعلم",
	}
	bogus := map[Dimension]string{
		DimAge:            "old",
		DimHeight:         "GIANT",
		DimWeight:         "x-y",
		DimSalary:         "lots",
		DimArabicLevel:    "FLUENT",
		DimDriving:        "MAYBE",
		DimSkills:         "juggling",
		DimPassportStatus: "STOLEN",
		DimExperience:     "LOTS",
		DimEducation:      "PHD",
		DimChildren:       "SOME",
	}
	for d, v := range bogus {
		assert.NotPanics(t, func() {
			assert.False(t, catalog[d](rec, v), "%s=%s should not match", d, v)
		})
	}
}

func TestNationalityPredicate(t *testing.T) {
	p := NewCatalog(nil)[DimNationality]

	assert.True(t, p(&models.CandidateRecord{Nationality: " FILIPINO "}, "filipino"))
	assert.True(t, p(&models.CandidateRecord{Nationality: "الفلبين"}, "فلبينية"))
	assert.True(t, p(&models.CandidateRecord{Nationality: "FILIPINO"}, "الفلبين"))
	assert.True(t, p(&models.CandidateRecord{Nationality: "سيريلانكية"}, "سريلانكية"))
	assert.True(t, p(&models.CandidateRecord{Nationality: "إثيوبية"}, "اثيوبية"))
	assert.True(t, p(&models.CandidateRecord{Nationality: "Kenyan national"}, "kenyan"))
	assert.False(t, p(&models.CandidateRecord{Nationality: "KENYAN"}, "FILIPINO"))
	assert.False(t, p(&models.CandidateRecord{}, "FILIPINO"))
}

func TestPositionPredicate(t *testing.T) {
	p := NewCatalog(nil)[DimPosition]

	assert.True(t, p(&models.CandidateRecord{Position: "سائق خاص"}, "DRIVER"))
	assert.True(t, p(&models.CandidateRecord{Position: "Private Driver"}, "driver"))
	assert.True(t, p(&models.CandidateRecord{Position: "نقل الخدمات"}, "SERVICES"))
	assert.False(t, p(&models.CandidateRecord{Position: "عاملة منزلية"}, "DRIVER"))
	assert.True(t, p(&models.CandidateRecord{Position: "عاملة منزلية"}, "عاملة منزلية"))
	assert.True(t, p(&models.CandidateRecord{Position: "Housemaid"}, "maid"))
}

func TestAgePredicateInclusiveBoundaries(t *testing.T) {
	p := NewCatalog(nil)[DimAge]
	at := func(age int) *models.CandidateRecord { return &models.CandidateRecord{Age: models.FlexInt(age)} }

	assert.True(t, p(at(30), "21-30"))
	assert.True(t, p(at(30), "30-40"))
	assert.True(t, p(at(21), "21-30"))
	assert.False(t, p(at(20), "21-30"))
	assert.True(t, p(at(40), "40-50"))
	assert.True(t, p(at(55), "50+"))
	assert.False(t, p(at(0), "21-30"))
}

func TestSkillsPredicateIsOr(t *testing.T) {
	p := NewCatalog(nil)[DimSkills]
	rec := &models.CandidateRecord{Cleaning: models.LevelNo, Sewing: models.LevelWilling}

	assert.True(t, p(rec, "sewing"))
	assert.True(t, p(rec, "cleaning,sewing"))
	assert.False(t, p(rec, "cleaning"))
	assert.False(t, p(rec, "ironing"))
	assert.False(t, p(rec, "unknownSkill"))
}

func TestLanguagePredicate(t *testing.T) {
	p := NewCatalog(nil)[DimArabicLevel]
	missing := &models.CandidateRecord{}
	yes := &models.CandidateRecord{ArabicLevel: models.LevelYes}
	no := &models.CandidateRecord{ArabicLevel: models.LevelNo}

	assert.True(t, p(missing, "NO"))
	assert.True(t, p(missing, "WEAK"))
	assert.False(t, p(no, "WEAK"))
	assert.True(t, p(no, "NO"))
	assert.True(t, p(yes, "yes"))
	assert.False(t, p(yes, "WILLING"))

	en := NewCatalog(nil)[DimEnglishLevel]
	assert.True(t, en(&models.CandidateRecord{EnglishLevel: models.LevelWilling}, "WILLING"))
	assert.False(t, en(yes, "YES"))
}

func TestEducationPredicate(t *testing.T) {
	p := NewCatalog(nil)[DimEducation]

	assert.True(t, p(&models.CandidateRecord{}, "UNEDUCATED"))
	assert.True(t, p(&models.CandidateRecord{EducationLevel: "أمية"}, "غير متعلم"))
	assert.True(t, p(&models.CandidateRecord{Education: "لا يقرأ ولا يكتب"}, "UNEDUCATED"))
	assert.True(t, p(&models.CandidateRecord{EducationLevel: "متعلم"}, "EDUCATED"))
	assert.True(t, p(&models.CandidateRecord{Education: "High School"}, "متعلم"))
	assert.False(t, p(&models.CandidateRecord{EducationLevel: "غير متعلم"}, "EDUCATED"))
	assert.False(t, p(&models.CandidateRecord{}, "EDUCATED"))
}

func TestExperiencePredicate(t *testing.T) {
	p := NewCatalog(nil)[DimExperience]
	exp := func(s string) *models.CandidateRecord { return &models.CandidateRecord{Experience: s} }

	assert.True(t, p(exp(""), "NONE"))
	assert.True(t, p(exp("لا يوجد"), "NONE"))
	assert.True(t, p(exp("No experience"), "NO_EXPERIENCE"))
	assert.True(t, p(exp("2 years in Dubai"), "1-2"))
	assert.True(t, p(exp("خبرة ٤ سنوات"), "3-5"))
	assert.True(t, p(exp("سنتين في السعودية"), "1-2"))
	assert.True(t, p(exp("10 years, then 3 more"), "6-10"))
	assert.False(t, p(exp("10 years"), "10+"))
	assert.True(t, p(exp("12 years"), "10+"))
	assert.True(t, p(exp("three years"), "3-5"))
	assert.False(t, p(exp("5 years"), "NONE"))
}

func TestExperienceWordsMatchWholeWords(t *testing.T) {
	p := NewCatalog(nil)[DimExperience]
	exp := func(s string) *models.CandidateRecord { return &models.CandidateRecord{Experience: s} }

	// "ست" (six) and "عام" (year) are prefixes of longer words here.
	assert.True(t, p(exp("ستمائة ساعة تدريب"), "NONE"))
	assert.True(t, p(exp("عامل نظافة"), "NONE"))
	assert.True(t, p(exp("عشرات المهام"), "NONE"))

	assert.True(t, p(exp("ست سنوات"), "6-10"))
	assert.True(t, p(exp("خبرة ستة أعوام"), "6-10"))
	assert.True(t, p(exp("سنة واحدة"), "1-2"))
	assert.True(t, p(exp("عام في الكويت"), "1-2"))
}

func TestEducationPredicateBilingualKeys(t *testing.T) {
	p := NewCatalog(nil)[DimEducation]
	educated := &models.CandidateRecord{EducationLevel: "High school"}
	unschooled := &models.CandidateRecord{EducationLevel: "أمية"}

	assert.True(t, p(educated, "متعلم"))
	assert.False(t, p(educated, "غير متعلم"))
	assert.True(t, p(unschooled, "غير متعلمة"))
	assert.True(t, p(unschooled, "UNEDUCATED"))
}

func TestHeightWeightSalaryPredicates(t *testing.T) {
	catalog := NewCatalog(nil)
	h := catalog[DimHeight]
	w := catalog[DimWeight]
	s := catalog[DimSalary]

	rec := &models.CandidateRecord{Height: "160 cm", Weight: "80", MonthlySalary: "1000 SAR"}
	assert.True(t, h(rec, "155-160"))
	assert.True(t, h(rec, "160-165"))
	assert.True(t, h(rec, "MEDIUM"))
	assert.False(t, h(rec, "SHORT"))
	assert.True(t, w(rec, "MEDIUM"))
	assert.False(t, w(rec, "HEAVY"))
	assert.True(t, w(rec, "70-80"))
	assert.True(t, s(rec, "501-1000"))
	assert.False(t, s(rec, "1001-1500"))
	assert.True(t, s(rec, "MEDIUM"))

	assert.False(t, h(&models.CandidateRecord{Height: "tall"}, "TALL"))
	assert.False(t, h(&models.CandidateRecord{}, "150-200"))
}

func TestLocationPredicate(t *testing.T) {
	p := NewCatalog(nil)[DimLocation]
	rec := &models.CandidateRecord{LivingTown: "Quezon City", PlaceOfBirth: "Cebu"}

	assert.True(t, p(rec, "quezon"))
	assert.True(t, p(rec, "CEBU"))
	assert.False(t, p(rec, "Manila"))
}

func TestReligionPredicate(t *testing.T) {
	p := NewCatalog(nil)[DimReligion]

	assert.True(t, p(&models.CandidateRecord{Religion: "مسلمة"}, "MUSLIM"))
	assert.True(t, p(&models.CandidateRecord{Religion: "Christian"}, "CHRISTIAN"))
	assert.False(t, p(&models.CandidateRecord{Religion: "Christian"}, "MUSLIM"))
	assert.True(t, p(&models.CandidateRecord{Religion: "Sikh"}, "OTHER"))
	assert.False(t, p(&models.CandidateRecord{Religion: "هندوسية"}, "OTHER"))
	assert.False(t, p(&models.CandidateRecord{}, "OTHER"))
}

func TestPassportAndChildrenPredicates(t *testing.T) {
	catalog := NewCatalog(nil)
	pp := catalog[DimPassportStatus]
	ch := catalog[DimChildren]

	assert.True(t, pp(&models.CandidateRecord{PassportNumber: "P1", PassportExpiryDate: "2030-01-01"}, "VALID"))
	assert.True(t, pp(&models.CandidateRecord{PassportNumber: "P1"}, "EXPIRED"))
	assert.True(t, pp(&models.CandidateRecord{}, "MISSING"))

	assert.True(t, ch(&models.CandidateRecord{}, "NONE"))
	assert.True(t, ch(&models.CandidateRecord{NumberOfChildren: intPtr(2)}, "FEW"))
	assert.True(t, ch(&models.CandidateRecord{NumberOfChildren: intPtr(4)}, "MANY"))
	assert.True(t, ch(&models.CandidateRecord{NumberOfChildren: intPtr(3)}, "3+"))
	assert.True(t, ch(&models.CandidateRecord{NumberOfChildren: intPtr(3)}, "3"))
	assert.False(t, ch(&models.CandidateRecord{NumberOfChildren: intPtr(1)}, "NONE"))
}

func TestTextEqualityPredicates(t *testing.T) {
	catalog := NewCatalog(nil)

	assert.True(t, catalog[DimMaritalStatus](&models.CandidateRecord{MaritalStatus: "Single"}, "SINGLE"))
	assert.True(t, catalog[DimContractPeriod](&models.CandidateRecord{ContractPeriod: "سنتين"}, "سنتين"))
	assert.True(t, catalog[DimStatus](&models.CandidateRecord{Status: models.StatusBooked}, "booked"))
	assert.False(t, catalog[DimStatus](&models.CandidateRecord{Status: models.StatusNew}, "BOOKED"))
	assert.True(t, catalog[DimDriving](&models.CandidateRecord{}, "NO"))
	assert.True(t, catalog[DimDriving](&models.CandidateRecord{Driving: models.LevelYes}, "YES"))
}

func TestLoadVocabularyMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/vocab.yaml"
	writeFile(t, path, "nationalities:\n  nepali:\n    - نيبالية\n    - nepal\n")

	vocab, err := LoadVocabulary(path)
	assert.NoError(t, err)
	assert.Contains(t, vocab.Nationalities, "NEPALI")
	assert.Contains(t, vocab.Nationalities, "FILIPINO")

	p := NewCatalog(vocab)[DimNationality]
	assert.True(t, p(&models.CandidateRecord{Nationality: "نيبالية"}, "NEPALI"))

	_, err = LoadVocabulary(dir + "/missing.yaml")
	assert.Error(t, err)

	def, err := LoadVocabulary("")
	assert.NoError(t, err)
	assert.NotEmpty(t, def.Religions)
}
