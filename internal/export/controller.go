// file: internal/export/controller.go
// version: 1.0.0
// guid: c3e7a9d2-0f48-4b16-9a5c-d8b2f6e1a073

package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/metrics"
)

// DefaultDelay is the pause between two export attempts.
const DefaultDelay = 500 * time.Millisecond

// Renderer turns a record id into a raster image.
type Renderer interface {
	Render(ctx context.Context, recordID string) (image.Image, error)
}

// Saver persists one rendered image and returns where it went.
type Saver interface {
	Save(ctx context.Context, filename string, img image.Image) (string, error)
}

// Reporter receives progress and log lines while a session runs. Progress
// is reported as a percentage with total fixed at 100.
type Reporter interface {
	UpdateProgress(current, total int, message string) error
	Log(level, message string, details *string) error
}

// Options tunes a Controller.
type Options struct {
	// Delay is applied between consecutive tasks, never after the last one.
	Delay time.Duration
	// TaskTimeout bounds a single render+save attempt. Zero means no bound.
	TaskTimeout time.Duration
}

// Controller drives sessions through render and save, one task at a time.
type Controller struct {
	renderer Renderer
	saver    Saver
	opts     Options
}

// NewController creates a Controller. A negative delay is treated as zero.
func NewController(renderer Renderer, saver Saver, opts Options) *Controller {
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	return &Controller{renderer: renderer, saver: saver, opts: opts}
}

// Run processes every task of s sequentially. A failing task is counted and
// skipped; it never aborts the session. Closing the session or cancelling
// ctx stops scheduling new tasks, but the task in flight runs to completion
// on a context that is not cancelled with ctx.
func (c *Controller) Run(ctx context.Context, s *Session, rep Reporter) (Summary, error) {
	if err := s.start(); err != nil {
		return Summary{}, err
	}
	if rep == nil {
		rep = nopReporter{}
	}

	tasks := s.Tasks()
	log.Printf("[INFO] export %s: starting %d tasks", s.ID, len(tasks))
	_ = rep.Log("info", fmt.Sprintf("export started: %d records", len(tasks)), nil)
	_ = rep.UpdateProgress(0, 100, fmt.Sprintf("0/%d", len(tasks)))

	for i, task := range tasks {
		if i > 0 && !c.pause(ctx, s) {
			break
		}
		if s.IsClosed() || ctx.Err() != nil {
			break
		}

		res := c.runTask(ctx, s, i, task, rep)
		progress := s.record(i, res)
		_ = rep.UpdateProgress(progress, 100, fmt.Sprintf("%d/%d %s", i+1, len(tasks), task.Filename))
	}

	sum := s.finish()
	if s.State() == StateClosed {
		msg := fmt.Sprintf("export closed after %d of %d records: %s", sum.Succeeded+sum.Failed, sum.Total, sum)
		log.Printf("[INFO] export %s: %s", s.ID, msg)
		_ = rep.Log("warn", msg, nil)
		return sum, nil
	}

	log.Printf("[INFO] export %s: %s", s.ID, sum)
	_ = rep.Log("info", sum.String(), nil)
	return sum, nil
}

func (c *Controller) runTask(ctx context.Context, s *Session, i int, task Task, rep Reporter) TaskResult {
	start := time.Now()
	tctx := context.WithoutCancel(ctx)
	if c.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(tctx, c.opts.TaskTimeout)
		defer cancel()
	}

	s.setTaskState(i, TaskRendering)
	img, err := c.render(tctx, task.RecordID)
	metrics.ObserveRender(time.Since(start))
	if err != nil {
		return c.fail(task, ErrRenderFailure, err, start, rep)
	}

	s.setTaskState(i, TaskSaving)
	path, err := c.saver.Save(tctx, task.Filename, img)
	if err != nil {
		return c.fail(task, ErrDownloadFailure, err, start, rep)
	}

	metrics.IncExportSucceeded()
	_ = rep.Log("info", "saved "+path, nil)
	return TaskResult{Task: task, State: TaskSucceeded, Path: path, Duration: time.Since(start)}
}

func (c *Controller) render(ctx context.Context, id string) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	img, err = c.renderer.Render(ctx, id)
	if err == nil && img == nil {
		err = errors.New("renderer returned no image")
	}
	return img, err
}

func (c *Controller) fail(task Task, kind, err error, start time.Time, rep Reporter) TaskResult {
	switch {
	case errors.Is(err, ErrRenderFailure):
		kind = ErrRenderFailure
	case errors.Is(err, ErrDownloadFailure):
		kind = ErrDownloadFailure
	}
	terr := &TaskError{Task: task, Kind: kind, Err: err}
	log.Printf("[WARN] export: %v", terr)
	metrics.IncExportFailed()

	details := err.Error()
	_ = rep.Log("error", fmt.Sprintf("%s failed: %v", task.Filename, kind), &details)
	return TaskResult{Task: task, State: TaskFailed, Error: terr.Error(), Duration: time.Since(start)}
}

// pause waits the inter-task delay. It returns false when the session was
// closed or ctx was cancelled during the wait.
func (c *Controller) pause(ctx context.Context, s *Session) bool {
	if c.opts.Delay == 0 {
		return !s.IsClosed() && ctx.Err() == nil
	}
	t := time.NewTimer(c.opts.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.Done():
		return false
	case <-ctx.Done():
		return false
	}
}

type nopReporter struct{}

func (nopReporter) UpdateProgress(int, int, string) error { return nil }
func (nopReporter) Log(string, string, *string) error     { return nil }
