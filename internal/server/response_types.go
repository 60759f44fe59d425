// file: internal/server/response_types.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import (
	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

// ListResponse provides a consistent format for paginated list responses
type ListResponse struct {
	Items  any `json:"items"`
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// CreateResponse provides a consistent format for resource creation responses
type CreateResponse struct {
	ID   string `json:"id"`
	Data any    `json:"data,omitempty"`
}

// MessageResponse provides a consistent format for status messages
type MessageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// PaginationParams holds common pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
	Search string
}

// CandidateListResponse is one page of filtered candidates. Total counts
// every match before pagination.
type CandidateListResponse struct {
	ListResponse
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters"`
}

// FacetResponse carries option counts for the requested dimensions.
type FacetResponse struct {
	Facets []filter.Facet `json:"facets"`
}

// SuggestResponse lists fuzzy option suggestions for one dimension.
type SuggestResponse struct {
	Dimension   filter.Dimension `json:"dimension"`
	Query       string           `json:"query"`
	Suggestions []string         `json:"suggestions"`
}

// ReloadResponse reports a records reload.
type ReloadResponse struct {
	Records  int   `json:"records"`
	LoadedAt int64 `json:"loaded_at"`
}

// HealthResponse provides a consistent format for health check responses
type HealthResponse struct {
	Status        string         `json:"status"`
	Uptime        int64          `json:"uptime_seconds"`
	Timestamp     int64          `json:"timestamp"`
	Version       string         `json:"version"`
	Records       int            `json:"records"`
	RecordsLoaded int64          `json:"records_loaded_at,omitempty"`
	ActiveExports int            `json:"active_exports"`
	Memory        map[string]any `json:"memory,omitempty"`
	PartialError  string         `json:"partial_error,omitempty"`
}

// NewListResponse creates a new ListResponse with pagination info
func NewListResponse(items any, count int, limit int, offset int) *ListResponse {
	return &ListResponse{
		Items:  items,
		Count:  count,
		Limit:  limit,
		Offset: offset,
		Total:  count, // Set total equal to count by default
	}
}

// NewListResponseWithTotal creates a new ListResponse with a distinct total
func NewListResponseWithTotal(items any, count int, limit int, offset int, total int) *ListResponse {
	return &ListResponse{
		Items:  items,
		Count:  count,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}
}

// NewCandidateListResponse wraps a page of candidates with the filters that
// produced it. Unconstrained dimensions are left out of Filters.
func NewCandidateListResponse(page []models.CandidateRecord, total int, params PaginationParams, state *filter.FilterState) *CandidateListResponse {
	if page == nil {
		page = []models.CandidateRecord{}
	}
	filters := make(map[string]string)
	if state != nil {
		for _, d := range state.Active() {
			filters[string(d)] = state.Get(d)
		}
	}
	return &CandidateListResponse{
		ListResponse: *NewListResponseWithTotal(page, len(page), params.Limit, params.Offset, total),
		Search:       params.Search,
		Filters:      filters,
	}
}

// NewMessageResponse creates a new MessageResponse
func NewMessageResponse(message string, code string) *MessageResponse {
	return &MessageResponse{
		Message: message,
		Code:    code,
	}
}
