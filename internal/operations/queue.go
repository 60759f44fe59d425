// file: internal/operations/queue.go
// version: 2.1.0
// guid: 7d6e5f4a-3c2b-1a09-8f7e-6d5c4b3a2190

package operations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/database"
	"github.com/elsayedebiad/qsr-final-sub001/internal/metrics"
	"github.com/elsayedebiad/qsr-final-sub001/internal/realtime"
)

// Priority levels for operations
const (
	PriorityLow    = 0
	PriorityNormal = 1
	PriorityHigh   = 2
)

// ErrCanceled is returned by an OperationFunc that stopped early on request.
// The queue records such operations as canceled rather than failed.
var ErrCanceled = errors.New("operation canceled")

// OperationFunc represents an operation that can be executed
type OperationFunc func(ctx context.Context, progress ProgressReporter) error

// ProgressReporter allows operations to report their progress
type ProgressReporter interface {
	UpdateProgress(current, total int, message string) error
	Log(level, message string, details *string) error
	IsCanceled() bool
}

// Queue is the surface handlers need from the operation queue.
type Queue interface {
	Enqueue(id, opType string, priority int, fn OperationFunc) error
	Cancel(id string) error
	ActiveOperations() []ActiveOperation
	Shutdown(timeout time.Duration) error
}

// QueuedOperation represents an operation in the queue
type QueuedOperation struct {
	ID       string
	Type     string
	Priority int
	Func     OperationFunc
	Context  context.Context
	Cancel   context.CancelFunc
}

// OperationQueue runs queued operations on a fixed set of workers. The
// server uses a single worker so export sessions never overlap.
type OperationQueue struct {
	mu         sync.RWMutex
	operations map[string]*QueuedOperation
	pending    chan *QueuedOperation
	workers    int
	store      database.Store
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	listeners  map[string][]ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(operationID string, progress OperationProgress)

// OperationProgress represents the current state of an operation
type OperationProgress struct {
	Current int
	Total   int
	Message string
}

// NewOperationQueue creates a new operation queue
func NewOperationQueue(store database.Store, workers int) *OperationQueue {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &OperationQueue{
		operations: make(map[string]*QueuedOperation),
		pending:    make(chan *QueuedOperation, 100),
		workers:    workers,
		store:      store,
		ctx:        ctx,
		cancel:     cancel,
		listeners:  make(map[string][]ProgressListener),
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	return q
}

// Enqueue adds a new operation to the queue
func (q *OperationQueue) Enqueue(id, opType string, priority int, fn OperationFunc) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.operations[id]; exists {
		return fmt.Errorf("operation %s already exists", id)
	}
	if q.ctx.Err() != nil {
		return fmt.Errorf("operation queue is shut down")
	}

	ctx, cancel := context.WithCancel(q.ctx)
	op := &QueuedOperation{
		ID:       id,
		Type:     opType,
		Priority: priority,
		Func:     fn,
		Context:  ctx,
		Cancel:   cancel,
	}

	if len(q.pending) == cap(q.pending) {
		cancel()
		return fmt.Errorf("pending queue full, operation %s rejected", id)
	}

	// Persist before handing off so a fast worker's running status is not
	// overwritten.
	if q.store != nil {
		if err := q.store.UpdateExportStatus(id, database.StatusQueued, 0, 0, "operation queued"); err != nil {
			log.Printf("[WARN] operations: persist queued status for %s: %v", id, err)
		}
	}
	q.operations[id] = op
	q.pending <- op
	log.Printf("[INFO] operation %s (%s) enqueued with priority %d", id, opType, priority)
	return nil
}

// Cancel cancels an operation
func (q *OperationQueue) Cancel(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	op, exists := q.operations[id]
	if !exists {
		return fmt.Errorf("operation %s not found", id)
	}

	op.Cancel()

	if q.store != nil {
		_ = q.store.UpdateExportStatus(id, database.StatusCanceled, 0, 0, "operation canceled by user")
	}

	log.Printf("[INFO] operation %s canceled", id)
	return nil
}

// GetStatus returns the persisted state of an operation
func (q *OperationQueue) GetStatus(id string) (*database.ExportSession, error) {
	if q.store == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	return q.store.GetExportSession(id)
}

// AddListener adds a progress listener for an operation
func (q *OperationQueue) AddListener(operationID string, listener ProgressListener) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listeners[operationID] = append(q.listeners[operationID], listener)
}

// RemoveListeners removes all listeners for an operation
func (q *OperationQueue) RemoveListeners(operationID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.listeners, operationID)
}

// notifyListeners sends progress updates to all listeners
func (q *OperationQueue) notifyListeners(operationID string, progress OperationProgress) {
	q.mu.RLock()
	listeners := q.listeners[operationID]
	q.mu.RUnlock()

	for _, listener := range listeners {
		go listener(operationID, progress)
	}
}

// worker processes operations from the queue
func (q *OperationQueue) worker(id int) {
	defer q.wg.Done()

	log.Printf("[DEBUG] operations: worker %d started", id)

	for {
		select {
		case <-q.ctx.Done():
			log.Printf("[DEBUG] operations: worker %d stopped", id)
			return
		case op := <-q.pending:
			if op == nil {
				continue
			}
			q.run(op)
		}
	}
}

func (q *OperationQueue) run(op *QueuedOperation) {
	start := time.Now()
	metrics.IncOperationStarted(op.Type)

	defer func() {
		metrics.ObserveOperationDuration(op.Type, time.Since(start))
		q.mu.Lock()
		delete(q.operations, op.ID)
		q.mu.Unlock()
		q.RemoveListeners(op.ID)
	}()

	if op.Context.Err() != nil {
		q.finishCanceled(op, nil)
		return
	}

	if q.store != nil {
		_ = q.store.UpdateExportStatus(op.ID, database.StatusRunning, 0, 0, "operation started")
	}
	if realtime.GlobalHub != nil {
		realtime.GlobalHub.SendExportStatus(op.ID, database.StatusRunning, nil)
	}

	reporter := &operationProgressReporter{
		operationID: op.ID,
		store:       q.store,
		queue:       q,
		ctx:         op.Context,
	}

	err := q.invoke(op, reporter)

	switch {
	case errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled) || reporter.canceled:
		q.finishCanceled(op, reporter)
	case err != nil:
		if q.store != nil {
			_ = q.store.UpdateExportError(op.ID, err.Error())
		}
		metrics.IncOperationFailed(op.Type)
		if realtime.GlobalHub != nil {
			realtime.GlobalHub.SendExportStatus(op.ID, database.StatusFailed, map[string]any{
				"error": err.Error(),
			})
		}
		log.Printf("[ERROR] operation %s failed: %v", op.ID, err)
	default:
		if q.store != nil {
			_ = q.store.UpdateExportStatus(op.ID, database.StatusCompleted, reporter.current, reporter.total, "operation completed")
		}
		metrics.IncOperationCompleted(op.Type)
		if realtime.GlobalHub != nil {
			realtime.GlobalHub.SendExportStatus(op.ID, database.StatusCompleted, map[string]any{
				"current": reporter.current,
				"total":   reporter.total,
				"message": "operation completed",
			})
		}
		log.Printf("[INFO] operation %s completed successfully", op.ID)
	}
}

// invoke runs the operation, turning a panic into an error so one bad
// operation cannot take the worker down.
func (q *OperationQueue) invoke(op *QueuedOperation, reporter *operationProgressReporter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()
	return op.Func(op.Context, reporter)
}

// finishCanceled records the cancellation, keeping the last progress the
// operation reported. reporter is nil when the operation never started.
func (q *OperationQueue) finishCanceled(op *QueuedOperation, reporter *operationProgressReporter) {
	current, total := 0, 0
	if reporter != nil {
		current, total = reporter.current, reporter.total
	}
	if q.store != nil {
		_ = q.store.UpdateExportStatus(op.ID, database.StatusCanceled, current, total, "operation canceled")
	}
	metrics.IncOperationCanceled(op.Type)
	if realtime.GlobalHub != nil {
		realtime.GlobalHub.SendExportStatus(op.ID, database.StatusCanceled, map[string]any{
			"current": current,
			"total":   total,
			"message": "operation canceled",
		})
	}
	log.Printf("[INFO] operation %s was canceled", op.ID)
}

// Shutdown gracefully shuts down the queue
func (q *OperationQueue) Shutdown(timeout time.Duration) error {
	log.Println("[INFO] shutting down operation queue...")

	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[INFO] operation queue shut down gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}

// operationProgressReporter implements ProgressReporter
type operationProgressReporter struct {
	operationID string
	store       database.Store
	queue       *OperationQueue
	ctx         context.Context
	current     int
	total       int
	canceled    bool
}

func (r *operationProgressReporter) UpdateProgress(current, total int, message string) error {
	r.current = current
	r.total = total

	if r.store != nil {
		if err := r.store.UpdateExportStatus(r.operationID, database.StatusRunning, current, total, message); err != nil {
			return err
		}
	}

	r.queue.notifyListeners(r.operationID, OperationProgress{
		Current: current,
		Total:   total,
		Message: message,
	})

	if realtime.GlobalHub != nil {
		realtime.GlobalHub.SendExportProgress(r.operationID, current, total, percent(current, total), message)
	}

	return nil
}

func (r *operationProgressReporter) Log(level, message string, details *string) error {
	if r.store != nil {
		if err := r.store.AddExportLog(r.operationID, level, message, details); err != nil {
			return err
		}
	}

	if realtime.GlobalHub != nil {
		realtime.GlobalHub.SendExportLog(r.operationID, level, message, details)
	}

	return nil
}

func (r *operationProgressReporter) IsCanceled() bool {
	if r.canceled {
		return true
	}
	if r.ctx != nil && r.ctx.Err() != nil {
		r.canceled = true
		return true
	}

	if r.store != nil {
		s, err := r.store.GetExportSession(r.operationID)
		if err == nil && s.Status == database.StatusCanceled {
			r.canceled = true
			return true
		}
	}

	return false
}

func percent(current, total int) int {
	if total <= 0 {
		return 0
	}
	return current * 100 / total
}

// Global queue instance
var GlobalQueue Queue

// InitializeQueue initializes the global operation queue
func InitializeQueue(store database.Store, workers int) {
	if GlobalQueue != nil {
		log.Println("[WARN] operation queue already initialized")
		return
	}
	GlobalQueue = NewOperationQueue(store, workers)
	log.Printf("[INFO] operation queue initialized with %d workers", workers)
}

// SetStore assigns a database store to a queue that has none yet.
func (q *OperationQueue) SetStore(store database.Store) {
	if q == nil || store == nil {
		return
	}
	if q.store != nil {
		return
	}
	q.store = store
	log.Println("[INFO] operation queue store attached")
}

// ActiveOperation represents lightweight info about an in-flight operation.
type ActiveOperation struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// ActiveOperations returns a snapshot of currently queued/running operations.
func (q *OperationQueue) ActiveOperations() []ActiveOperation {
	if q == nil {
		return []ActiveOperation{}
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	results := make([]ActiveOperation, 0, len(q.operations))
	for id, op := range q.operations {
		results = append(results, ActiveOperation{ID: id, Type: op.Type})
	}
	return results
}

// ShutdownQueue shuts down the global operation queue
func ShutdownQueue(timeout time.Duration) error {
	if GlobalQueue == nil {
		return nil
	}
	err := GlobalQueue.Shutdown(timeout)
	GlobalQueue = nil
	return err
}
