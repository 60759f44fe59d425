// file: internal/server/candidates.go
// version: 1.0.0
// guid: c5a1e9d4-72b8-4f03-9e6a-1d8b4c37f205

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elsayedebiad/qsr-final-sub001/internal/export"
	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
	"github.com/elsayedebiad/qsr-final-sub001/internal/matcher"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/elsayedebiad/qsr-final-sub001/internal/records"
)

const defaultSuggestLimit = 10

// CandidateService answers discovery queries against the current record
// snapshot.
type CandidateService struct {
	repo *records.Repository
	eval *filter.Evaluator
}

// NewCandidateService creates a CandidateService. A nil evaluator uses the
// default vocabulary.
func NewCandidateService(repo *records.Repository, eval *filter.Evaluator) *CandidateService {
	if eval == nil {
		eval = filter.Default()
	}
	return &CandidateService{repo: repo, eval: eval}
}

// Search filters the snapshot and returns one page plus the total match
// count.
func (s *CandidateService) Search(state *filter.FilterState, term string, limit, offset int) ([]models.CandidateRecord, int) {
	matches := s.eval.Evaluate(s.repo.Snapshot(), state, term)
	total := len(matches)
	if offset >= total {
		return []models.CandidateRecord{}, total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matches[offset:end], total
}

// Get returns one record by id.
func (s *CandidateService) Get(id string) (*models.CandidateRecord, bool) {
	return s.repo.Get(id)
}

// Facets counts options for dims, or for every dimension when dims is nil.
func (s *CandidateService) Facets(dims []filter.Dimension) []filter.Facet {
	return s.eval.Facets(s.repo.Snapshot(), dims)
}

// Suggest ranks the options of d against query.
func (s *CandidateService) Suggest(d filter.Dimension, query string, limit int) []string {
	opts := filter.Options(d)
	if opts == nil {
		opts = filter.UniqueValues(s.repo.Snapshot(), d)
	}
	out := matcher.Suggest(query, opts, limit)
	if out == nil {
		out = []string{}
	}
	return out
}

// Reload refreshes the record snapshot from its source.
func (s *CandidateService) Reload(ctx context.Context) (int, time.Time, error) {
	n, err := s.repo.Reload(ctx)
	if err != nil {
		return 0, time.Time{}, err
	}
	return n, s.repo.LoadedAt(), nil
}

func (s *Server) listCandidates(c *gin.Context) {
	params := ParsePaginationParams(c)
	if err := ValidateSearch(params.Search); err != nil {
		RespondWithValidationErr(c, "listCandidates", err)
		return
	}
	state := filter.FilterStateFromQuery(c.Request.URL.Query())

	page, total := s.candidates.Search(state, params.Search, params.Limit, params.Offset)
	c.JSON(http.StatusOK, NewCandidateListResponse(page, total, params, state))
}

func (s *Server) getCandidate(c *gin.Context) {
	id := c.Param("id")
	if err := ValidateID(id); err != nil {
		RespondWithValidationErr(c, "getCandidate", err)
		return
	}
	rec, ok := s.candidates.Get(id)
	if !ok {
		RespondWithNotFound(c, "candidate", id)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) getFacets(c *gin.Context) {
	dims, err := ValidateDimensions(c.Query("dimension"))
	if err != nil {
		RespondWithValidationErr(c, "getFacets", err)
		return
	}
	c.JSON(http.StatusOK, FacetResponse{Facets: s.candidates.Facets(dims)})
}

func (s *Server) suggestFacet(c *gin.Context) {
	d, err := ValidateDimension(c.Param("dimension"))
	if err != nil {
		RespondWithValidationErr(c, "suggestFacet", err)
		return
	}
	query := c.Query("q")
	if err := ValidateSearch(query); err != nil {
		RespondWithValidationErr(c, "suggestFacet", err)
		return
	}
	limit := ParseQueryInt(c, "limit", defaultSuggestLimit)
	if err := ValidateInteger(limit, "limit", 1, 100); err != nil {
		RespondWithValidationErr(c, "suggestFacet", err)
		return
	}

	c.JSON(http.StatusOK, SuggestResponse{
		Dimension:   d,
		Query:       query,
		Suggestions: s.candidates.Suggest(d, query, limit),
	})
}

func (s *Server) reloadRecords(c *gin.Context) {
	ol := operationLogger(c, "reloadRecords")
	ol.LogStart()

	n, loadedAt, err := s.candidates.Reload(c.Request.Context())
	if err != nil {
		ol.LogError(http.StatusBadGateway, err)
		RespondWithError(c, http.StatusBadGateway, "records reload failed: "+err.Error(), "RELOAD_FAILED")
		return
	}
	ol.AddDetail("records", n)
	ol.LogSuccess(http.StatusOK)
	c.JSON(http.StatusOK, ReloadResponse{Records: n, LoadedAt: loadedAt.Unix()})
}

// renderTemplate serves the built-in HTML card of one record, the same
// markup the exporter rasterizes.
func (s *Server) renderTemplate(c *gin.Context) {
	id := c.Param("id")
	rec, ok := s.candidates.Get(id)
	if !ok {
		RespondWithNotFound(c, "candidate", id)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.templates.Write(c.Writer, rec); err != nil {
		operationLogger(c, "renderTemplate").LogError(http.StatusInternalServerError, err)
	}
}

func newTemplateView(repo *records.Repository, rootClass string) *export.RecordTemplateSource {
	return export.NewRecordTemplateSource(repo.Get, rootClass)
}
