// file: internal/filter/evaluator.go
// version: 1.0.0
// guid: 4a9e7d02-5b13-4c8f-9a6e-b20d81f37c45

package filter

import (
	"log"
	"strings"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/matcher"
	"github.com/elsayedebiad/qsr-final-sub001/internal/metrics"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

// SearchField extracts one searchable string from a record.
type SearchField func(*models.CandidateRecord) string

// DefaultSearchFields are matched fuzzily against the search term.
var DefaultSearchFields = []SearchField{
	func(r *models.CandidateRecord) string { return r.FullName },
	func(r *models.CandidateRecord) string { return r.FullNameArabic },
	func(r *models.CandidateRecord) string { return r.Nationality },
	func(r *models.CandidateRecord) string { return r.Position },
	func(r *models.CandidateRecord) string { return r.ReferenceCode },
	func(r *models.CandidateRecord) string { return r.Email },
}

// DefaultPlainFields are matched by plain substring only.
var DefaultPlainFields = []SearchField{
	func(r *models.CandidateRecord) string { return r.Phone },
}

// Config parameterizes an Evaluator. Zero fields fall back to the defaults.
type Config struct {
	SearchFields []SearchField
	PlainFields  []SearchField
	Catalog      Catalog
	Vocabulary   *Vocabulary
	// SeparateTransport drops driver and transport-services records when a
	// nationality is selected and no position filter is active.
	SeparateTransport bool
}

// Evaluator applies search and filters to record collections. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	searchFields      []SearchField
	plainFields       []SearchField
	catalog           Catalog
	lx                *lexicon
	separateTransport bool
}

// New builds an Evaluator from cfg.
func New(cfg Config) *Evaluator {
	e := &Evaluator{
		searchFields:      cfg.SearchFields,
		plainFields:       cfg.PlainFields,
		catalog:           cfg.Catalog,
		lx:                compile(cfg.Vocabulary),
		separateTransport: cfg.SeparateTransport,
	}
	if e.searchFields == nil {
		e.searchFields = DefaultSearchFields
	}
	if e.plainFields == nil {
		e.plainFields = DefaultPlainFields
	}
	if e.catalog == nil {
		e.catalog = NewCatalog(cfg.Vocabulary)
	}
	return e
}

// Default returns an Evaluator with the built-in fields and vocabulary.
func Default() *Evaluator {
	return New(Config{})
}

// Evaluate returns the records visible under state and searchTerm, in
// input order. The result is a fresh slice on every call.
func (e *Evaluator) Evaluate(records []models.CandidateRecord, state *FilterState, searchTerm string) []models.CandidateRecord {
	start := time.Now()
	if state == nil {
		state = NewFilterState()
	}
	active := e.effectiveDimensions(state)
	search := strings.TrimSpace(searchTerm)

	out := make([]models.CandidateRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		if e.visible(rec, state, active, search) {
			out = append(out, *rec)
		}
	}
	metrics.ObserveFilterEvaluation(time.Since(start))
	return out
}

// Matches reports whether a single record is visible under state and search.
func (e *Evaluator) Matches(rec *models.CandidateRecord, state *FilterState, searchTerm string) bool {
	if state == nil {
		state = NewFilterState()
	}
	return e.visible(rec, state, e.effectiveDimensions(state), strings.TrimSpace(searchTerm))
}

// MatchesSearch reports whether any searchable field matches term. An empty
// term matches everything.
func (e *Evaluator) MatchesSearch(rec *models.CandidateRecord, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	for _, f := range e.searchFields {
		if matcher.Matches(f(rec), term) {
			return true
		}
	}
	for _, f := range e.plainFields {
		if matcher.ContainsPlain(f(rec), term) {
			return true
		}
	}
	return false
}

func (e *Evaluator) visible(rec *models.CandidateRecord, state *FilterState, active []Dimension, search string) bool {
	if !rec.Status.Discoverable() {
		return false
	}
	if !e.MatchesSearch(rec, search) {
		return false
	}
	for _, d := range active {
		if !e.apply(d, rec, state.Get(d)) {
			return false
		}
	}
	if e.separateTransport && state.Get(DimNationality) != All && state.Get(DimPosition) == All {
		if e.isTransport(rec) {
			return false
		}
	}
	return true
}

// effectiveDimensions drops the nationality filter while a position
// category (drivers, transport services) is selected.
func (e *Evaluator) effectiveDimensions(state *FilterState) []Dimension {
	active := state.Active()
	if !e.lx.isPositionCategory(state.Get(DimPosition)) {
		return active
	}
	out := active[:0:0]
	for _, d := range active {
		if d != DimNationality {
			out = append(out, d)
		}
	}
	return out
}

func (e *Evaluator) isTransport(rec *models.CandidateRecord) bool {
	np := matcher.Normalize(rec.Position)
	if np == "" {
		return false
	}
	for _, keywords := range e.lx.positions {
		if containsAny(np, keywords) {
			return true
		}
	}
	return false
}

// apply runs one predicate. A missing predicate or a panic excludes rec.
func (e *Evaluator) apply(d Dimension, rec *models.CandidateRecord, value string) (ok bool) {
	p, found := e.catalog[d]
	if !found {
		log.Printf("[WARN] filter: no predicate for dimension %q", d)
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] filter: predicate %s panicked on record %s: %v", d, rec.Key(), r)
			ok = false
		}
	}()
	return p(rec, value)
}
