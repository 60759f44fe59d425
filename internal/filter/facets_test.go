// file: internal/filter/facets_test.go
// version: 1.0.0
// guid: b51e8c3a-0f72-4d96-a3b8-7e2d49c16f05

package filter

import (
	"testing"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facetRecords() []models.CandidateRecord {
	return []models.CandidateRecord{
		{FullName: "A", Nationality: "FILIPINO", Age: 30, Cleaning: models.LevelYes, LivingTown: "Cebu"},
		{FullName: "B", Nationality: "FILIPINO", Age: 45, Cleaning: models.LevelWilling, PlaceOfBirth: "Manila"},
		{FullName: "C", Nationality: "KENYAN", Age: 30, Cleaning: models.LevelNo, LivingTown: "Nairobi"},
		{FullName: "D", Nationality: "FILIPINO", Age: 30, Status: models.StatusHired, LivingTown: "Davao"},
		{FullName: "E", Nationality: " KENYAN ", Age: 22, Status: models.StatusArchived},
	}
}

func TestCountFor(t *testing.T) {
	e := Default()
	records := facetRecords()

	assert.Equal(t, 2, e.CountFor(records, DimNationality, "FILIPINO"))
	assert.Equal(t, 1, e.CountFor(records, DimNationality, "KENYAN"))
	assert.Equal(t, 2, e.CountFor(records, DimAge, "21-30"))
	assert.Equal(t, 2, e.CountFor(records, DimAge, "30-40"))
	assert.Equal(t, 2, e.CountFor(records, DimSkills, "cleaning"))
	assert.Equal(t, 3, e.CountFor(records, DimNationality, All))
	assert.Equal(t, 0, e.CountFor(records, DimNationality, "MARTIAN"))
}

func TestCountForIgnoresOtherFilters(t *testing.T) {
	e := Default()
	records := facetRecords()

	before := e.CountFor(records, DimNationality, "FILIPINO")

	// Narrowing another dimension through the evaluator leaves facet
	// counts for nationality untouched.
	state := NewFilterState().Set(DimAge, "40-50")
	visible := e.Evaluate(records, state, "B")
	require.Len(t, visible, 1)

	assert.Equal(t, before, e.CountFor(records, DimNationality, "FILIPINO"))
}

func TestFacets(t *testing.T) {
	e := Default()
	facets := e.Facets(facetRecords(), []Dimension{DimNationality, DimAge, DimLocation})
	require.Len(t, facets, 3)

	nat := facets[0]
	assert.Equal(t, DimNationality, nat.Dimension)
	assert.Equal(t, 3, nat.Total)
	assert.Equal(t, []OptionCount{{Value: "FILIPINO", Count: 2}, {Value: "KENYAN", Count: 1}}, nat.Options)

	age := facets[1]
	assert.Equal(t, []OptionCount{
		{Value: "21-30", Count: 2},
		{Value: "30-40", Count: 2},
		{Value: "40-50", Count: 1},
	}, age.Options)

	loc := facets[2]
	assert.Equal(t, []string{"Cebu", "Manila", "Nairobi"}, optionValues(loc.Options))

	all := e.Facets(facetRecords(), nil)
	assert.Len(t, all, len(AllDimensions))
}

func TestUniqueValuesAndOptions(t *testing.T) {
	assert.Equal(t, []string{"FILIPINO", "KENYAN"}, UniqueValues(facetRecords(), DimNationality))
	assert.Empty(t, UniqueValues(facetRecords(), DimAge))

	assert.Nil(t, Options(DimNationality))
	assert.Len(t, Options(DimSkills), len(models.AllSkills))
	assert.Contains(t, Options(DimArabicLevel), "WEAK")
	assert.True(t, IsOpen(DimLocation))
	assert.False(t, IsOpen(DimAge))

	d, ok := ParseDimension("maritalStatus")
	assert.True(t, ok)
	assert.Equal(t, DimMaritalStatus, d)
	_, ok = ParseDimension("shoeSize")
	assert.False(t, ok)
}

func optionValues(opts []OptionCount) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}
