// file: internal/database/store.go
// version: 3.0.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d

package database

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a stored export session does not exist.
var ErrNotFound = errors.New("not found")

// Export session statuses as persisted. They follow the queue lifecycle
// rather than the in-memory session states.
const (
	StatusPending   = "pending"
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// Terminal reports whether status ends a session's lifecycle.
func Terminal(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Store defines the persistence surface for export history. Filter state
// is never stored.
type Store interface {
	// Lifecycle
	Close() error

	// Export sessions
	CreateExportSession(id string, recordIDs []string, output string) (*ExportSession, error)
	GetExportSession(id string) (*ExportSession, error)
	ListExportSessions(limit int) ([]ExportSession, error)
	UpdateExportStatus(id, status string, progress, total int, message string) error
	UpdateExportResult(id string, succeeded, failed int) error
	UpdateExportError(id, errorMessage string) error
	DeleteExportSession(id string) error

	// Export session logs
	AddExportLog(sessionID, level, message string, details *string) error
	GetExportLogs(sessionID string) ([]ExportLog, error)
}

// ExportSession is the persisted record of one export run.
type ExportSession struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	RecordIDs    []string   `json:"record_ids"`
	Output       string     `json:"output,omitempty"`
	Progress     int        `json:"progress"`
	Total        int        `json:"total"`
	Message      string     `json:"message"`
	Succeeded    int        `json:"succeeded"`
	Failed       int        `json:"failed"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

// Summary renders the final count line for the session.
func (s *ExportSession) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed", s.Succeeded, s.Failed)
}

// ExportLog is a single log line recorded against an export session.
type ExportLog struct {
	ID        int       `json:"id"`
	SessionID string    `json:"session_id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Details   *string   `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Global store instance
var GlobalStore Store

// InitializeStore opens the export history store at path.
func InitializeStore(path string) error {
	store, err := NewPebbleStore(path)
	if err != nil {
		return fmt.Errorf("failed to initialize PebbleDB store: %w", err)
	}
	GlobalStore = store
	return nil
}

// CloseStore closes the global store
func CloseStore() error {
	if GlobalStore == nil {
		return nil
	}
	err := GlobalStore.Close()
	GlobalStore = nil
	return err
}
