// file: internal/filter/evaluator_test.go
// version: 1.0.0
// guid: 6d0a3e85-b7c2-4f19-8e64-a5c13b9f2d70

package filter

import (
	"net/url"
	"os"
	"testing"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func names(records []models.CandidateRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.FullName
	}
	return out
}

func scenarioRecords() []models.CandidateRecord {
	return []models.CandidateRecord{
		{ID: "1", FullName: "Maria Santos", Nationality: "FILIPINO", Status: models.StatusNew, Cleaning: models.LevelYes},
		{ID: "2", FullName: "Grace Otieno", Nationality: "KENYAN", Status: models.StatusNew, Cleaning: models.LevelNo},
		{ID: "3", FullName: "Amina", Nationality: "FILIPINO", Status: models.StatusHired},
	}
}

func TestEvaluateEndToEndScenario(t *testing.T) {
	state := NewFilterState().Set(DimNationality, "FILIPINO").ToggleSkill(models.SkillCleaning)

	got := Default().Evaluate(scenarioRecords(), state, "")

	require.Len(t, got, 1)
	assert.Equal(t, "Maria Santos", got[0].FullName)
}

func TestEvaluateExcludesHiredAndArchived(t *testing.T) {
	records := []models.CandidateRecord{
		{FullName: "A", Status: models.StatusHired},
		{FullName: "B", Status: models.StatusArchived},
		{FullName: "C", Status: models.StatusReturned},
		{FullName: "D"},
	}
	e := Default()

	assert.Equal(t, []string{"C", "D"}, names(e.Evaluate(records, nil, "")))
	assert.Empty(t, e.Evaluate(records, nil, "A"))
	assert.Empty(t, e.Evaluate(records, NewFilterState().Set(DimStatus, "HIRED"), ""))
}

func TestEvaluateSearch(t *testing.T) {
	records := []models.CandidateRecord{
		{FullName: "Maria Santos", Phone: "0555123456"},
		{FullName: "Fatima", FullNameArabic: "فاطمة", Phone: "0500000000"},
		{FullName: "Farida", FullNameArabic: "فريدة", ReferenceCode: "QS-77"},
		{FullName: "Joy", Email: "joy@example.com"},
	}
	e := Default()

	assert.Equal(t, []string{"Maria Santos"}, names(e.Evaluate(records, nil, "santoz")))
	assert.Equal(t, []string{"Fatima"}, names(e.Evaluate(records, nil, "فاطمه")))
	assert.Equal(t, []string{"Farida"}, names(e.Evaluate(records, nil, "qs-77")))
	assert.Equal(t, []string{"Joy"}, names(e.Evaluate(records, nil, "joy@example")))
	assert.Equal(t, []string{"Maria Santos"}, names(e.Evaluate(records, nil, "123456")))
	// phone numbers never fuzzy-match
	assert.Empty(t, e.Evaluate(records, nil, "0555123457"))
	assert.Len(t, e.Evaluate(records, nil, "   "), 4)
}

func TestEvaluateIsPureAndOrderPreserving(t *testing.T) {
	records := []models.CandidateRecord{
		{FullName: "Zed", Nationality: "KENYAN", Age: 25},
		{FullName: "Amy", Nationality: "KENYAN", Age: 35},
		{FullName: "Bob", Nationality: "INDIAN", Age: 30},
		{FullName: "Cat", Nationality: "KENYAN", Age: 30},
	}
	e := Default()
	state := NewFilterState().Set(DimNationality, "KENYAN").Set(DimAge, "21-30")

	first := e.Evaluate(records, state, "")
	second := e.Evaluate(records, state, "")

	assert.Equal(t, []string{"Zed", "Cat"}, names(first))
	assert.Equal(t, first, second)

	first[0].FullName = "mutated"
	assert.Equal(t, "Zed", records[0].FullName)
	assert.Equal(t, "Zed", e.Evaluate(records, state, "")[0].FullName)
}

func TestEvaluateAndsDimensions(t *testing.T) {
	records := []models.CandidateRecord{
		{FullName: "A", Nationality: "KENYAN", Religion: "Christian", Sewing: models.LevelYes},
		{FullName: "B", Nationality: "KENYAN", Religion: "مسلمة", Sewing: models.LevelYes},
		{FullName: "C", Nationality: "KENYAN", Religion: "Christian"},
	}
	state := NewFilterState().
		Set(DimNationality, "KENYAN").
		Set(DimReligion, "CHRISTIAN").
		Set(DimSkills, "sewing,ironing")

	assert.Equal(t, []string{"A"}, names(Default().Evaluate(records, state, "")))
}

func TestPositionCategoryOverridesNationality(t *testing.T) {
	records := []models.CandidateRecord{
		{FullName: "Driver PH", Nationality: "FILIPINO", Position: "سائق"},
		{FullName: "Driver IN", Nationality: "INDIAN", Position: "Driver"},
		{FullName: "Maid PH", Nationality: "FILIPINO", Position: "عاملة منزلية"},
	}
	e := Default()

	state := NewFilterState().Set(DimNationality, "FILIPINO").Set(DimPosition, "DRIVER")
	assert.Equal(t, []string{"Driver PH", "Driver IN"}, names(e.Evaluate(records, state, "")))

	state = NewFilterState().Set(DimNationality, "FILIPINO")
	assert.Equal(t, []string{"Driver PH", "Maid PH"}, names(e.Evaluate(records, state, "")))

	separated := New(Config{SeparateTransport: true})
	assert.Equal(t, []string{"Maid PH"}, names(separated.Evaluate(records, state, "")))
}

func TestEvaluatorRecoversFromPanickingPredicate(t *testing.T) {
	catalog := NewCatalog(nil)
	catalog[DimReligion] = func(rec *models.CandidateRecord, value string) bool {
		panic("boom")
	}
	e := New(Config{Catalog: catalog})
	records := []models.CandidateRecord{{FullName: "A", Religion: "x"}}

	assert.NotPanics(t, func() {
		assert.Empty(t, e.Evaluate(records, NewFilterState().Set(DimReligion, "MUSLIM"), ""))
	})
	assert.Len(t, e.Evaluate(records, NewFilterState(), ""), 1)
}

func TestEvaluatorMissingPredicateExcludes(t *testing.T) {
	e := New(Config{Catalog: Catalog{}})
	records := []models.CandidateRecord{{FullName: "A", Nationality: "KENYAN"}}

	assert.Empty(t, e.Evaluate(records, NewFilterState().Set(DimNationality, "KENYAN"), ""))
	assert.Len(t, e.Evaluate(records, NewFilterState(), ""), 1)
}

func TestEvaluatorCustomSearchFields(t *testing.T) {
	e := New(Config{
		SearchFields: []SearchField{func(r *models.CandidateRecord) string { return r.LivingTown }},
		PlainFields:  []SearchField{},
	})
	records := []models.CandidateRecord{
		{FullName: "Maria", LivingTown: "Cebu", Phone: "123"},
	}

	assert.Len(t, e.Evaluate(records, nil, "cebu"), 1)
	assert.Empty(t, e.Evaluate(records, nil, "maria"))
	assert.Empty(t, e.Evaluate(records, nil, "123"))
}

func TestMatchesSingleRecord(t *testing.T) {
	rec := scenarioRecords()[0]
	e := Default()

	assert.True(t, e.Matches(&rec, nil, "maria"))
	assert.False(t, e.Matches(&rec, NewFilterState().Set(DimNationality, "KENYAN"), ""))
}

func TestFilterStateFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("nationality", "FILIPINO")
	q.Set("age", "ALL")
	q.Add("skills", "cleaning,sewing")
	q.Add("skills", "cleaning")
	q.Set("unknown", "x")

	state := FilterStateFromQuery(q)

	assert.Equal(t, "FILIPINO", state.Get(DimNationality))
	assert.Equal(t, All, state.Get(DimAge))
	assert.Equal(t, []models.SkillKey{models.SkillCleaning, models.SkillSewing}, state.Skills())
	assert.Equal(t, []Dimension{DimNationality, DimSkills}, state.Active())
}

func TestFilterStateMutations(t *testing.T) {
	state := NewFilterState()
	state.Set(DimHeight, "TALL").ToggleSkill(models.SkillDriving)
	clone := state.Clone()

	state.ToggleSkill(models.SkillDriving).Set(DimHeight, All)
	assert.Equal(t, All, state.Get(DimHeight))
	assert.Equal(t, All, state.Get(DimSkills))

	assert.Equal(t, "TALL", clone.Get(DimHeight))
	assert.Equal(t, "driving", clone.Get(DimSkills))

	clone.Reset()
	assert.Empty(t, clone.Active())

	var zero FilterState
	zero.Set(DimAge, "21-30")
	assert.Equal(t, "21-30", zero.Get(DimAge))
}
