// file: internal/export/session.go
// version: 1.0.0
// guid: 9a4f2c81-3e6d-4b07-85d9-b2c1e0f7a346

package export

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// State is the lifecycle of an export session.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateClosed  State = "closed"
)

// Summary is the final tally of a session.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d failed", s.Succeeded, s.Failed)
}

// Session is the state of one bulk export. Only the controller running it
// writes to it; the mutex lets other goroutines take snapshots.
type Session struct {
	ID string

	mu         sync.RWMutex
	tasks      []Task
	results    []TaskResult
	completed  int
	progress   int
	succeeded  int
	failed     int
	state      State
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time

	closeOnce sync.Once
	closed    chan struct{}
}

// SessionSnapshot is a consistent copy of a session's state.
type SessionSnapshot struct {
	ID         string       `json:"id"`
	State      State        `json:"state"`
	Total      int          `json:"total"`
	Completed  int          `json:"completed"`
	Progress   int          `json:"progress"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Results    []TaskResult `json:"results"`
	CreatedAt  time.Time    `json:"created_at"`
	StartedAt  time.Time    `json:"started_at,omitzero"`
	FinishedAt time.Time    `json:"finished_at,omitzero"`
}

// Summary returns the tally portion of the snapshot.
func (s SessionSnapshot) Summary() Summary {
	return Summary{Total: s.Total, Succeeded: s.Succeeded, Failed: s.Failed}
}

// NewSession creates an idle session over tasks.
func NewSession(tasks []Task) *Session {
	results := make([]TaskResult, len(tasks))
	for i, t := range tasks {
		results[i] = TaskResult{Task: t, State: TaskPending}
	}
	return &Session{
		ID:        newSessionID(),
		tasks:     append([]Task(nil), tasks...),
		results:   results,
		state:     StateIdle,
		createdAt: time.Now(),
		closed:    make(chan struct{}),
	}
}

// newSessionID returns a ULID. ulid.Make draws from a process-wide
// monotonic source, so ids sort in creation order.
func newSessionID() string {
	return ulid.Make().String()
}

// Tasks returns the session's tasks in processing order.
func (s *Session) Tasks() []Task {
	return append([]Task(nil), s.tasks...)
}

// Close stops the session from scheduling further tasks. The task in
// flight, if any, still completes. Close is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
	s.mu.Lock()
	if s.state == StateIdle {
		s.state = StateClosed
		s.finishedAt = time.Now()
	}
	s.mu.Unlock()
}

// Done is closed once Close has been called.
func (s *Session) Done() <-chan struct{} {
	return s.closed
}

// IsClosed reports whether Close has been called.
func (s *Session) IsClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot copies the session state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{
		ID:         s.ID,
		State:      s.state,
		Total:      len(s.tasks),
		Completed:  s.completed,
		Progress:   s.progress,
		Succeeded:  s.succeeded,
		Failed:     s.failed,
		Results:    append([]TaskResult(nil), s.results...),
		CreatedAt:  s.createdAt,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
}

func (s *Session) start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return fmt.Errorf("%w: %s is %s", ErrSessionStarted, s.ID, s.state)
	}
	s.state = StateRunning
	s.startedAt = time.Now()
	return nil
}

func (s *Session) setTaskState(i int, st TaskState) {
	s.mu.Lock()
	s.results[i].State = st
	s.mu.Unlock()
}

// record stores a finished attempt and advances progress. Progress is held
// below 100 until the last task so that 100 is reported exactly once.
func (s *Session) record(i int, res TaskResult) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[i] = res
	s.completed++
	if res.State == TaskSucceeded {
		s.succeeded++
	} else {
		s.failed++
	}

	total := len(s.tasks)
	p := int(math.Round(float64(s.completed) / float64(total) * 100))
	if s.completed < total && p >= 100 {
		p = 99
	}
	if p > s.progress {
		s.progress = p
	}
	return s.progress
}

func (s *Session) finish() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed == len(s.tasks) {
		s.state = StateDone
		s.progress = 100
	} else {
		s.state = StateClosed
	}
	s.finishedAt = time.Now()
	return Summary{Total: len(s.tasks), Succeeded: s.succeeded, Failed: s.failed}
}
