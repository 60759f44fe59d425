// file: internal/records/file.go
// version: 1.0.0
// guid: 8e0f5a3b-1c27-4d94-b6e8-5a7c2f1d0b93

package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/elsayedebiad/qsr-final-sub001/internal/watcher"
)

// FileSource reads records from a JSON export on disk. Path may also name a
// directory, in which case every records file inside it is read in name
// order.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Describe implements Source.
func (s *FileSource) Describe() string { return "file:" + s.Path }

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]models.CandidateRecord, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, fmt.Errorf("stat records file: %w", err)
	}
	if !info.IsDir() {
		return readRecordsFile(s.Path)
	}

	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read records dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && watcher.IsRecordsFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var all []models.CandidateRecord
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := readRecordsFile(filepath.Join(s.Path, name))
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	return all, nil
}

func readRecordsFile(path string) ([]models.CandidateRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".ndjson") {
		return decodeLines(data)
	}
	recs, err := decodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// decodeLines reads one JSON record per line.
func decodeLines(data []byte) ([]models.CandidateRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var out []models.CandidateRecord
	for {
		var rec models.CandidateRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
}
