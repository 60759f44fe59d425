// file: internal/records/source.go
// version: 1.0.0
// guid: 4c1d7e2a-93b5-4f60-8a1e-2d6b9c0f3e71

// Package records loads candidate records from their upstream source and
// keeps the current snapshot for the rest of the application.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

// ErrUnsupportedSource is returned by NewSource for an unknown source type.
var ErrUnsupportedSource = errors.New("unsupported records source")

// Source type names accepted by NewSource.
const (
	TypeFile     = "file"
	TypeHTTP     = "http"
	TypePostgres = "postgres"
)

// Source loads the full record set.
type Source interface {
	Load(ctx context.Context) ([]models.CandidateRecord, error)
	Describe() string
}

// Options configures NewSource.
type Options struct {
	Type     string
	Location string
	Token    string
	Table    string
	CacheTTL time.Duration
}

// NewSource builds the source named by opts.Type.
func NewSource(opts Options) (Source, error) {
	if opts.Location == "" {
		return nil, fmt.Errorf("records source location is empty")
	}
	switch opts.Type {
	case TypeFile, "":
		return NewFileSource(opts.Location), nil
	case TypeHTTP:
		return NewHTTPSource(opts.Location, opts.Token, opts.CacheTTL), nil
	case TypePostgres:
		return OpenPostgresSource(opts.Location, opts.Table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, opts.Type)
	}
}

// decodeRecords accepts either a bare JSON array or an object wrapping the
// array under "cvs" or "data".
func decodeRecords(data []byte) ([]models.CandidateRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var recs []models.CandidateRecord
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return recs, nil
	}

	var wrapper struct {
		CVs  []models.CandidateRecord `json:"cvs"`
		Data []models.CandidateRecord `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if wrapper.CVs != nil {
		return wrapper.CVs, nil
	}
	return wrapper.Data, nil
}

// Dedupe drops records whose id was already seen, keeping the first.
// Records without an id are kept as-is.
func Dedupe(recs []models.CandidateRecord) []models.CandidateRecord {
	seen := make(map[string]struct{}, len(recs))
	out := make([]models.CandidateRecord, 0, len(recs))
	for _, r := range recs {
		key := r.Key()
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}
