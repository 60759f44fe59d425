// file: internal/filter/facets.go
// version: 1.0.0
// guid: e83b5f16-0a27-4d9c-b4e8-5c71f2a906db

package filter

import (
	"sort"
	"strings"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

// OptionCount is the number of records an option alone would match.
type OptionCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facet holds the option counts of one dimension.
type Facet struct {
	Dimension Dimension     `json:"dimension"`
	Total     int           `json:"total"`
	Options   []OptionCount `json:"options"`
}

// CountFor returns how many discoverable records satisfy the single
// predicate of d with value. The search term and every other dimension
// are ignored so counts stay stable while operators explore options.
func (e *Evaluator) CountFor(records []models.CandidateRecord, d Dimension, value string) int {
	n := 0
	for i := range records {
		rec := &records[i]
		if !rec.Status.Discoverable() {
			continue
		}
		if isAll(value) || e.apply(d, rec, value) {
			n++
		}
	}
	return n
}

// Facets returns option counts for each requested dimension. Closed
// dimensions use their fixed vocabulary, open ones the values present in
// records. A nil dims slice means every dimension.
func (e *Evaluator) Facets(records []models.CandidateRecord, dims []Dimension) []Facet {
	if dims == nil {
		dims = AllDimensions
	}
	facets := make([]Facet, 0, len(dims))
	for _, d := range dims {
		opts := Options(d)
		if opts == nil {
			opts = UniqueValues(records, d)
		}
		f := Facet{
			Dimension: d,
			Total:     e.CountFor(records, d, All),
			Options:   make([]OptionCount, 0, len(opts)),
		}
		for _, v := range opts {
			f.Options = append(f.Options, OptionCount{Value: v, Count: e.CountFor(records, d, v)})
		}
		facets = append(facets, f)
	}
	return facets
}

// UniqueValues lists the distinct trimmed values of an open dimension among
// discoverable records, sorted. Location draws on both location fields.
func UniqueValues(records []models.CandidateRecord, d Dimension) []string {
	seen := make(map[string]bool)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			seen[s] = true
		}
	}
	for i := range records {
		rec := &records[i]
		if !rec.Status.Discoverable() {
			continue
		}
		switch d {
		case DimNationality:
			add(rec.Nationality)
		case DimPosition:
			add(rec.Position)
		case DimLocation:
			add(rec.LivingTown)
			add(rec.PlaceOfBirth)
		case DimMaritalStatus:
			add(rec.MaritalStatus)
		case DimContractPeriod:
			add(rec.ContractPeriod)
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
