// file: internal/server/exports.go
// version: 1.2.0
// guid: 3f0c8e52-9a1d-4b76-a2e4-58d1c7b09f63

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/config"
	"github.com/elsayedebiad/qsr-final-sub001/internal/database"
	"github.com/elsayedebiad/qsr-final-sub001/internal/export"
	"github.com/elsayedebiad/qsr-final-sub001/internal/operations"
	"github.com/elsayedebiad/qsr-final-sub001/internal/records"
	"github.com/elsayedebiad/qsr-final-sub001/internal/sysinfo"
)

var (
	// ErrNoRecords is returned when none of the requested ids is known.
	ErrNoRecords = errors.New("no known records selected")
	// ErrExportNotFound is returned for unknown session ids.
	ErrExportNotFound = errors.New("export session not found")
	// ErrExportFinished is returned when closing a session that already ended.
	ErrExportFinished = errors.New("export session already finished")
	// ErrQueueUnavailable is returned when sessions cannot be scheduled.
	ErrQueueUnavailable = errors.New("operation queue not initialized")
)

const (
	exportOperationType = "export"
	maxTrackedSessions  = 32
)

// ExportSettings is the pipeline configuration shared by every session of
// an ExportService.
type ExportSettings struct {
	Dir            string
	Zip            bool
	Format         export.Format
	SavesPerSecond float64
	Delay          time.Duration
	TaskTimeout    time.Duration
	TemplateURL    string
	TemplateToken  string
	Surface        export.SurfaceOptions
}

// ExportSettingsFromConfig maps the application config onto ExportSettings.
func ExportSettingsFromConfig(cfg config.Config) (ExportSettings, error) {
	format, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		return ExportSettings{}, err
	}

	surface := export.DefaultSurfaceOptions()
	if cfg.ExportPixelRatio > 0 {
		surface.PixelRatio = cfg.ExportPixelRatio
	}
	if cfg.ExportBackground != "" {
		c, ok := export.ParseColor(cfg.ExportBackground)
		if !ok || c == nil {
			return ExportSettings{}, fmt.Errorf("invalid export background %q", cfg.ExportBackground)
		}
		surface.Background = c
	}
	if cfg.ExportResourceWait > 0 {
		surface.ResourceWait = cfg.ExportResourceWait
	}
	if cfg.ExportLayoutWait > 0 {
		surface.LayoutWait = cfg.ExportLayoutWait
	}
	if cfg.ExportRootClass != "" {
		surface.RootClass = cfg.ExportRootClass
	}
	surface.FontPath = cfg.ExportFontPath
	surface.FallbackFontPath = cfg.ExportFallbackFont

	// A CV card is roughly one and a half viewports tall.
	side := float64(surface.ViewportWidth) * surface.PixelRatio
	if est := uint64(side * side * 1.5 * 4); !sysinfo.FitsInMemory(est, 0.25) {
		log.Printf("[WARN] export surfaces need about %d MB at pixel ratio %.1f; consider lowering export_pixel_ratio",
			est>>20, surface.PixelRatio)
	}

	dir := cfg.ExportDir
	if dir == "" {
		dir = "."
	}
	return ExportSettings{
		Dir:            dir,
		Zip:            cfg.ExportZip,
		Format:         format,
		SavesPerSecond: cfg.ExportSavesPerSecond,
		Delay:          cfg.ExportDelay,
		TaskTimeout:    cfg.ExportTaskTimeout,
		TemplateURL:    cfg.ExportTemplateURL,
		TemplateToken:  cfg.RecordsToken,
		Surface:        surface,
	}, nil
}

// ExportView is the API shape of a session. Live sessions fill it from
// memory, older ones from the store.
type ExportView struct {
	ID         string              `json:"id"`
	State      export.State        `json:"state,omitempty"`
	Status     string              `json:"status"`
	Total      int                 `json:"total"`
	Completed  int                 `json:"completed"`
	Progress   int                 `json:"progress"`
	Succeeded  int                 `json:"succeeded"`
	Failed     int                 `json:"failed"`
	Summary    string              `json:"summary"`
	Output     string              `json:"output,omitempty"`
	Message    string              `json:"message,omitempty"`
	Error      string              `json:"error,omitempty"`
	Results    []export.TaskResult `json:"results,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	StartedAt  *time.Time          `json:"started_at,omitempty"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}

type trackedSession struct {
	session *export.Session
	output  string
}

// ExportService schedules export sessions on the operation queue and keeps
// the live ones addressable by id.
type ExportService struct {
	repo     *records.Repository
	store    database.Store
	queue    operations.Queue
	settings ExportSettings
	renderer export.Renderer
	pool     *export.SurfacePool
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*trackedSession
	order    []string
	claimed  map[string]bool
}

// NewExportService builds the render pipeline described by settings. Store
// and queue may be nil; without a queue only RunSync is available.
func NewExportService(repo *records.Repository, store database.Store, queue operations.Queue, settings ExportSettings) (*ExportService, error) {
	pool, err := export.NewSurfacePool(1, settings.Surface)
	if err != nil {
		return nil, fmt.Errorf("create surface pool: %w", err)
	}

	var src export.TemplateSource
	if settings.TemplateURL != "" {
		hs, err := export.NewHTTPTemplateSource(settings.TemplateURL, settings.TemplateToken)
		if err != nil {
			pool.Close()
			return nil, err
		}
		src = hs
	} else {
		src = export.NewRecordTemplateSource(repo.Get, settings.Surface.RootClass)
	}

	svc := newExportService(repo, store, queue, settings, export.NewSurfaceRenderer(src, pool))
	svc.pool = pool
	return svc, nil
}

func newExportService(repo *records.Repository, store database.Store, queue operations.Queue, settings ExportSettings, renderer export.Renderer) *ExportService {
	return &ExportService{
		repo:     repo,
		store:    store,
		queue:    queue,
		settings: settings,
		renderer: renderer,
		now:      time.Now,
		sessions: make(map[string]*trackedSession),
		claimed:  make(map[string]bool),
	}
}

// Close releases the render surfaces.
func (s *ExportService) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Settings returns the pipeline configuration.
func (s *ExportService) Settings() ExportSettings {
	return s.settings
}

// Prepare turns the requested ids into a new idle session. Unknown ids are
// dropped; duplicates keep their first position.
func (s *ExportService) Prepare(ids []string) (*export.Session, error) {
	tasks := export.BuildTasks(ids, s.lookupName, s.settings.Format.Ext())
	if len(tasks) == 0 {
		return nil, ErrNoRecords
	}
	return export.NewSession(tasks), nil
}

func (s *ExportService) lookupName(id string) (string, string, bool) {
	rec, ok := s.repo.Get(id)
	if !ok {
		return "", "", false
	}
	return rec.DisplayName(), rec.ReferenceCode, true
}

// Start queues a new session over ids and returns its initial view.
func (s *ExportService) Start(ids []string) (*ExportView, error) {
	if s.queue == nil {
		return nil, ErrQueueUnavailable
	}
	session, err := s.Prepare(ids)
	if err != nil {
		return nil, err
	}

	output := s.track(session)
	if err := s.persist(session, output); err != nil {
		s.untrack(session.ID)
		return nil, err
	}

	fn := func(ctx context.Context, rep operations.ProgressReporter) error {
		return s.run(ctx, session, output, rep)
	}
	if err := s.queue.Enqueue(session.ID, exportOperationType, operations.PriorityNormal, fn); err != nil {
		s.untrack(session.ID)
		if s.store != nil {
			_ = s.store.UpdateExportError(session.ID, err.Error())
		}
		return nil, fmt.Errorf("enqueue export: %w", err)
	}

	log.Printf("[INFO] export %s: queued %d records", session.ID, len(session.Tasks()))
	return s.view(session.ID)
}

// RunSync runs a prepared session on the calling goroutine. Progress goes
// to rep and, when a store is configured, to the export history.
func (s *ExportService) RunSync(ctx context.Context, session *export.Session, rep export.Reporter) (export.Summary, string, error) {
	output := s.track(session)
	defer s.untrack(session.ID)

	if err := s.persist(session, output); err != nil {
		return export.Summary{}, output, err
	}
	if s.store != nil {
		rep = &storeReporter{store: s.store, id: session.ID, next: rep}
		_ = s.store.UpdateExportStatus(session.ID, database.StatusRunning, 0, 100, "running")
	}

	err := s.run(ctx, session, output, rep)
	sum := session.Snapshot().Summary()
	if s.store != nil {
		status := database.StatusCompleted
		switch {
		case errors.Is(err, operations.ErrCanceled):
			status = database.StatusCanceled
		case err != nil:
			_ = s.store.UpdateExportError(session.ID, err.Error())
		}
		if err == nil || status == database.StatusCanceled {
			snap := session.Snapshot()
			_ = s.store.UpdateExportStatus(session.ID, status, snap.Progress, 100, sum.String())
		}
	}
	if errors.Is(err, operations.ErrCanceled) {
		err = nil
	}
	return sum, output, err
}

// run drives one session through the controller. A session closed before
// all tasks finished is reported as canceled.
func (s *ExportService) run(ctx context.Context, session *export.Session, output string, rep export.Reporter) error {
	if session.IsClosed() {
		return fmt.Errorf("%w: closed before start", operations.ErrCanceled)
	}
	saver, closeSaver, err := s.newSaver(output)
	if err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, session.Close)
	defer stop()

	ctrl := export.NewController(s.renderer, saver, export.Options{
		Delay:       s.settings.Delay,
		TaskTimeout: s.settings.TaskTimeout,
	})
	sum, runErr := ctrl.Run(ctx, session, rep)

	if err := closeSaver(); err != nil {
		log.Printf("[ERROR] export %s: finalize output: %v", session.ID, err)
		if runErr == nil {
			runErr = err
		}
	}
	if s.store != nil {
		if err := s.store.UpdateExportResult(session.ID, sum.Succeeded, sum.Failed); err != nil {
			log.Printf("[WARN] export %s: persist result: %v", session.ID, err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if session.State() == export.StateClosed {
		return fmt.Errorf("%w: %s", operations.ErrCanceled, sum)
	}
	return nil
}

func (s *ExportService) newSaver(output string) (export.Saver, func() error, error) {
	if s.settings.Zip {
		zs, err := export.NewZipSaver(output, s.settings.Format, s.settings.SavesPerSecond)
		if err != nil {
			return nil, nil, err
		}
		return zs, zs.Close, nil
	}
	ds, err := export.NewDirSaver(output, s.settings.Format, s.settings.SavesPerSecond)
	if err != nil {
		return nil, nil, err
	}
	return ds, func() error { return nil }, nil
}

// CloseSession stops a session from scheduling further tasks. Sessions
// only known to the store are canceled through the queue.
func (s *ExportService) CloseSession(id string) (*ExportView, error) {
	s.mu.RLock()
	ts, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		ts.session.Close()
		log.Printf("[INFO] export %s: close requested", id)
		return s.view(id)
	}

	rec, err := s.stored(id)
	if err != nil {
		return nil, err
	}
	if database.Terminal(rec.Status) {
		return nil, fmt.Errorf("%w: %s is %s", ErrExportFinished, id, rec.Status)
	}
	if s.queue != nil {
		if err := s.queue.Cancel(id); err != nil {
			log.Printf("[WARN] export %s: cancel: %v", id, err)
		}
	}
	return s.view(id)
}

// Get returns the current view of a session.
func (s *ExportService) Get(id string) (*ExportView, error) {
	return s.view(id)
}

// List returns recent sessions, newest first.
func (s *ExportService) List(limit int) ([]ExportView, error) {
	if s.store != nil {
		recs, err := s.store.ListExportSessions(limit)
		if err != nil {
			return nil, err
		}
		views := make([]ExportView, 0, len(recs))
		for i := range recs {
			v := viewFromRecord(&recs[i])
			s.overlayLive(&v)
			views = append(views, v)
		}
		return views, nil
	}

	s.mu.RLock()
	ids := append([]string(nil), s.order...)
	s.mu.RUnlock()
	views := make([]ExportView, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if limit > 0 && len(views) == limit {
			break
		}
		if v, err := s.view(ids[i]); err == nil {
			views = append(views, *v)
		}
	}
	return views, nil
}

// Logs returns the persisted log lines of a session.
func (s *ExportService) Logs(id string) ([]database.ExportLog, error) {
	if s.store == nil {
		return []database.ExportLog{}, nil
	}
	if _, err := s.view(id); err != nil {
		return nil, err
	}
	return s.store.GetExportLogs(id)
}

// Prune deletes finished sessions older than age from the store.
func (s *ExportService) Prune(age time.Duration) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	recs, err := s.store.ListExportSessions(0)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-age)
	n := 0
	for _, rec := range recs {
		if !database.Terminal(rec.Status) || rec.CreatedAt.After(cutoff) {
			continue
		}
		if err := s.store.DeleteExportSession(rec.ID); err != nil {
			return n, fmt.Errorf("delete export %s: %w", rec.ID, err)
		}
		n++
	}
	return n, nil
}

func (s *ExportService) view(id string) (*ExportView, error) {
	v := ExportView{ID: id}
	rec, err := s.stored(id)
	if err != nil && !errors.Is(err, ErrExportNotFound) {
		return nil, err
	}
	if rec != nil {
		v = viewFromRecord(rec)
	}
	if live := s.overlayLive(&v); !live && rec == nil {
		return nil, ErrExportNotFound
	}
	return &v, nil
}

// overlayLive fills v from the in-memory session when there is one.
func (s *ExportService) overlayLive(v *ExportView) bool {
	id := v.ID
	s.mu.RLock()
	ts, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	snap := ts.session.Snapshot()
	v.ID = snap.ID
	v.State = snap.State
	if v.Status == "" {
		v.Status = statusForState(snap.State)
	}
	v.Total = snap.Total
	v.Completed = snap.Completed
	v.Progress = snap.Progress
	v.Succeeded = snap.Succeeded
	v.Failed = snap.Failed
	v.Summary = snap.Summary().String()
	v.Output = ts.output
	v.Results = snap.Results
	v.CreatedAt = snap.CreatedAt
	if !snap.StartedAt.IsZero() {
		t := snap.StartedAt
		v.StartedAt = &t
	}
	if !snap.FinishedAt.IsZero() {
		t := snap.FinishedAt
		v.FinishedAt = &t
	}
	return true
}

func (s *ExportService) stored(id string) (*database.ExportSession, error) {
	if s.store == nil {
		return nil, ErrExportNotFound
	}
	rec, err := s.store.GetExportSession(id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load export %s: %w", id, err)
	}
	return rec, nil
}

func viewFromRecord(rec *database.ExportSession) ExportView {
	v := ExportView{
		ID:         rec.ID,
		Status:     rec.Status,
		Total:      len(rec.RecordIDs),
		Completed:  rec.Succeeded + rec.Failed,
		Progress:   rec.Progress,
		Succeeded:  rec.Succeeded,
		Failed:     rec.Failed,
		Summary:    rec.Summary(),
		Output:     rec.Output,
		Message:    rec.Message,
		CreatedAt:  rec.CreatedAt,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.CompletedAt,
	}
	if rec.ErrorMessage != nil {
		v.Error = *rec.ErrorMessage
	}
	return v
}

func statusForState(st export.State) string {
	switch st {
	case export.StateRunning:
		return database.StatusRunning
	case export.StateDone:
		return database.StatusCompleted
	case export.StateClosed:
		return database.StatusCanceled
	default:
		return database.StatusQueued
	}
}

func (s *ExportService) persist(session *export.Session, output string) error {
	if s.store == nil {
		return nil
	}
	tasks := session.Tasks()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.RecordID
	}
	if _, err := s.store.CreateExportSession(session.ID, ids, output); err != nil {
		return fmt.Errorf("persist export %s: %w", session.ID, err)
	}
	return nil
}

// track registers a session and assigns its output location. Finished
// sessions beyond maxTrackedSessions are forgotten oldest first.
func (s *ExportService) track(session *export.Session) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	output := s.settings.Dir
	if s.settings.Zip {
		output = s.zipPathLocked()
	}
	s.sessions[session.ID] = &trackedSession{session: session, output: output}
	s.order = append(s.order, session.ID)

	for len(s.order) > maxTrackedSessions {
		evicted := false
		for i, id := range s.order {
			st := s.sessions[id].session.State()
			if st == export.StateDone || st == export.StateClosed {
				s.forgetLocked(i)
				evicted = true
				break
			}
		}
		if !evicted {
			break
		}
	}
	return output
}

func (s *ExportService) untrack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, oid := range s.order {
		if oid == id {
			s.forgetLocked(i)
			return
		}
	}
}

func (s *ExportService) forgetLocked(i int) {
	id := s.order[i]
	if ts, ok := s.sessions[id]; ok && s.settings.Zip {
		delete(s.claimed, ts.output)
	}
	delete(s.sessions, id)
	s.order = append(s.order[:i], s.order[i+1:]...)
}

// zipPathLocked names the bundle after the export date, adding a counter
// when that name is taken on disk or by another live session.
func (s *ExportService) zipPathLocked() string {
	base := export.DefaultZipName(s.now())
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	path := filepath.Join(s.settings.Dir, base)
	for n := 2; s.claimed[path] || fileExists(path); n++ {
		path = filepath.Join(s.settings.Dir, fmt.Sprintf("%s-%d.zip", stem, n))
	}
	s.claimed[path] = true
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// storeReporter writes progress and log lines to the export history before
// passing them on.
type storeReporter struct {
	store database.Store
	id    string
	next  export.Reporter
}

func (r *storeReporter) UpdateProgress(current, total int, message string) error {
	if err := r.store.UpdateExportStatus(r.id, database.StatusRunning, current, total, message); err != nil {
		log.Printf("[WARN] export %s: persist progress: %v", r.id, err)
	}
	if r.next != nil {
		return r.next.UpdateProgress(current, total, message)
	}
	return nil
}

func (r *storeReporter) Log(level, message string, details *string) error {
	if err := r.store.AddExportLog(r.id, level, message, details); err != nil {
		log.Printf("[WARN] export %s: persist log: %v", r.id, err)
	}
	if r.next != nil {
		return r.next.Log(level, message, details)
	}
	return nil
}
