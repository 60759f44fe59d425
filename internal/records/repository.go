// file: internal/records/repository.go
// version: 1.0.0
// guid: 6f2e8b1d-4c09-47a3-b5de-91a0c7f36e24

package records

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/metrics"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/elsayedebiad/qsr-final-sub001/internal/watcher"
)

type invalidator interface {
	Invalidate()
}

// Repository holds the current record snapshot. Readers always see a
// complete snapshot; Reload swaps it atomically.
type Repository struct {
	source Source

	mu       sync.RWMutex
	records  []models.CandidateRecord
	byID     map[string]int
	loadedAt time.Time

	listenersMu sync.Mutex
	listeners   []func(count int)

	watch *watcher.Watcher
}

// NewRepository creates an empty repository backed by src.
func NewRepository(src Source) *Repository {
	return &Repository{source: src, byID: map[string]int{}}
}

// NewStaticRepository creates a repository over a fixed record slice.
func NewStaticRepository(recs []models.CandidateRecord) *Repository {
	r := &Repository{}
	r.swap(recs)
	return r
}

// OnReload registers fn to be called with the record count after every
// successful reload.
func (r *Repository) OnReload(fn func(count int)) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Reload fetches the record set from the source, bypassing any cache the
// source keeps, and replaces the snapshot.
func (r *Repository) Reload(ctx context.Context) (int, error) {
	if r.source == nil {
		return r.Len(), nil
	}
	if inv, ok := r.source.(invalidator); ok {
		inv.Invalidate()
	}

	start := time.Now()
	recs, err := r.source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load records from %s: %w", r.source.Describe(), err)
	}
	n := r.swap(recs)
	log.Printf("[INFO] records: loaded %d records from %s in %s", n, r.source.Describe(), time.Since(start).Round(time.Millisecond))

	r.listenersMu.Lock()
	listeners := append([]func(int){}, r.listeners...)
	r.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(n)
	}
	return n, nil
}

func (r *Repository) swap(recs []models.CandidateRecord) int {
	recs = Dedupe(recs)
	byID := make(map[string]int, len(recs))
	for i := range recs {
		if key := recs[i].Key(); key != "" {
			byID[key] = i
		}
	}

	r.mu.Lock()
	r.records = recs
	r.byID = byID
	r.loadedAt = time.Now()
	r.mu.Unlock()

	metrics.SetRecords(len(recs))
	return len(recs)
}

// Snapshot returns the current records. The slice is shared; callers must
// not modify it.
func (r *Repository) Snapshot() []models.CandidateRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records
}

// Get looks a record up by id.
func (r *Repository) Get(id string) (*models.CandidateRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	rec := r.records[i]
	return &rec, true
}

// Len returns the number of loaded records.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// LoadedAt returns when the current snapshot was taken.
func (r *Repository) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// Watch reloads the repository whenever the backing file changes. It is a
// no-op for sources that are not on the local filesystem.
func (r *Repository) Watch(debounce time.Duration) error {
	fs, ok := r.source.(*FileSource)
	if !ok {
		return nil
	}
	w := watcher.New(func(string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := r.Reload(ctx); err != nil {
			log.Printf("[ERROR] records: reload after change failed: %v", err)
		}
	}, debounce)
	if err := w.Start(fs.Path); err != nil {
		return fmt.Errorf("watch records: %w", err)
	}
	r.watch = w
	return nil
}

// Close stops the file watcher and releases the source.
func (r *Repository) Close() error {
	if r.watch != nil {
		r.watch.Stop()
		r.watch = nil
	}
	if c, ok := r.source.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
