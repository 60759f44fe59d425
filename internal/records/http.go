// file: internal/records/http.go
// version: 1.0.0
// guid: 2b9d4f61-7a0c-4e38-9f15-c6e3a8d20b47

package records

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/cache"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

const maxResponseBytes = 64 << 20

// HTTPSource fetches records from the gallery API. Successful responses are
// cached for the configured TTL.
type HTTPSource struct {
	URL    string
	Token  string
	Client *http.Client
	cache  *cache.Cache[[]models.CandidateRecord]
}

// NewHTTPSource creates an HTTPSource. A ttl of zero disables caching.
func NewHTTPSource(url, token string, ttl time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache.New[[]models.CandidateRecord](ttl),
	}
}

// Describe implements Source.
func (s *HTTPSource) Describe() string { return "http:" + s.URL }

// Load implements Source.
func (s *HTTPSource) Load(ctx context.Context) ([]models.CandidateRecord, error) {
	return s.cache.GetOrLoad(ctx, s.URL, s.fetch)
}

// Invalidate drops the cached response so the next Load hits the network.
func (s *HTTPSource) Invalidate() {
	s.cache.InvalidateAll()
}

func (s *HTTPSource) fetch(ctx context.Context) ([]models.CandidateRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build records request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch records: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read records response: %w", err)
	}
	return decodeRecords(body)
}
