// file: internal/database/pebble_store.go
// version: 2.1.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f

package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/pebble/v2"
	ulid "github.com/oklog/ulid/v2"
)

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - export:<id>                                   -> ExportSession JSON
// - exportlog:<session_id>:<timestamp>:<seq>      -> ExportLog JSON
// - counter:exportlog                             -> next export log ID
//
// Session ids are ULIDs, so key order is creation order.
type PebbleStore struct {
	db    *pebble.DB
	seqMu sync.Mutex
}

const (
	sessionPrefix = "export:"
	logPrefix     = "exportlog:"
)

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}

	store := &PebbleStore{db: db}

	// Initialize counters if they don't exist
	for _, counter := range []string{"exportlog"} {
		key := []byte(fmt.Sprintf("counter:%s", counter))
		if _, closer, err := db.Get(key); errors.Is(err, pebble.ErrNotFound) {
			if err := db.Set(key, []byte("1"), pebble.Sync); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to initialize counter %s: %w", counter, err)
			}
		} else if err == nil {
			closer.Close()
		} else {
			db.Close()
			return nil, fmt.Errorf("failed to check counter %s: %w", counter, err)
		}
	}

	return store, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

// nextID returns the current value of counter and advances it.
func (p *PebbleStore) nextID(counter string) (int, error) {
	p.seqMu.Lock()
	defer p.seqMu.Unlock()

	key := []byte(fmt.Sprintf("counter:%s", counter))
	value, closer, err := p.db.Get(key)
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(string(value))
	closer.Close()
	if err != nil {
		return 0, err
	}

	if err := p.db.Set(key, []byte(strconv.Itoa(id+1)), pebble.Sync); err != nil {
		return 0, err
	}
	return id, nil
}

// NewID returns a fresh ULID suitable for an export session. Ids created
// in one process sort in creation order.
func NewID() string {
	return ulid.Make().String()
}

func sessionKey(id string) []byte {
	return []byte(sessionPrefix + id)
}

func logKeyPrefix(sessionID string) []byte {
	return []byte(fmt.Sprintf("%s%s:", logPrefix, sessionID))
}

// prefixUpperBound returns the smallest key greater than every key with prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (p *PebbleStore) putSession(s *ExportSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.db.Set(sessionKey(s.ID), data, pebble.Sync)
}

// Export session operations

func (p *PebbleStore) CreateExportSession(id string, recordIDs []string, output string) (*ExportSession, error) {
	if id == "" {
		id = NewID()
	}
	if recordIDs == nil {
		recordIDs = []string{}
	}

	s := &ExportSession{
		ID:        id,
		Status:    StatusPending,
		RecordIDs: recordIDs,
		Output:    output,
		Total:     len(recordIDs),
		CreatedAt: time.Now(),
	}
	if err := p.putSession(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *PebbleStore) GetExportSession(id string) (*ExportSession, error) {
	value, closer, err := p.db.Get(sessionKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("export session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var s ExportSession
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListExportSessions returns up to limit sessions, most recent first. A
// non-positive limit returns every session.
func (p *PebbleStore) ListExportSessions(limit int) ([]ExportSession, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(sessionPrefix),
		UpperBound: prefixUpperBound([]byte(sessionPrefix)),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	sessions := []ExportSession{}
	for iter.Last(); iter.Valid(); iter.Prev() {
		if limit > 0 && len(sessions) >= limit {
			break
		}
		var s ExportSession
		if err := json.Unmarshal(iter.Value(), &s); err != nil {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (p *PebbleStore) UpdateExportStatus(id, status string, progress, total int, message string) error {
	s, err := p.GetExportSession(id)
	if err != nil {
		return err
	}

	s.Status = status
	// Progress never moves backwards; a lower figure keeps the stored pair.
	if progress > s.Progress || (progress == s.Progress && total > 0) {
		s.Progress = progress
		s.Total = total
	}
	s.Message = message

	now := time.Now()
	if status == StatusRunning && s.StartedAt == nil {
		s.StartedAt = &now
	} else if Terminal(status) && s.CompletedAt == nil {
		s.CompletedAt = &now
	}
	return p.putSession(s)
}

func (p *PebbleStore) UpdateExportResult(id string, succeeded, failed int) error {
	s, err := p.GetExportSession(id)
	if err != nil {
		return err
	}
	s.Succeeded = succeeded
	s.Failed = failed
	return p.putSession(s)
}

func (p *PebbleStore) UpdateExportError(id, errorMessage string) error {
	s, err := p.GetExportSession(id)
	if err != nil {
		return err
	}

	s.Status = StatusFailed
	s.ErrorMessage = &errorMessage
	now := time.Now()
	s.CompletedAt = &now
	return p.putSession(s)
}

// DeleteExportSession removes a session together with its logs.
func (p *PebbleStore) DeleteExportSession(id string) error {
	if _, err := p.GetExportSession(id); err != nil {
		return err
	}

	prefix := logKeyPrefix(id)
	batch := p.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(sessionKey(id), nil); err != nil {
		return err
	}
	if err := batch.DeleteRange(prefix, prefixUpperBound(prefix), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// Export log operations

func (p *PebbleStore) AddExportLog(sessionID, level, message string, details *string) error {
	id, err := p.nextID("exportlog")
	if err != nil {
		return err
	}

	entry := &ExportLog{
		ID:        id,
		SessionID: sessionID,
		Level:     level,
		Message:   message,
		Details:   details,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// Key format: exportlog:<session_id>:<timestamp>:<seq>
	key := []byte(fmt.Sprintf("%s%s:%020d:%010d", logPrefix, sessionID, entry.CreatedAt.UnixNano(), id))
	return p.db.Set(key, data, pebble.Sync)
}

func (p *PebbleStore) GetExportLogs(sessionID string) ([]ExportLog, error) {
	prefix := logKeyPrefix(sessionID)
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	logs := []ExportLog{}
	for iter.First(); iter.Valid(); iter.Next() {
		var entry ExportLog
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			continue
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
