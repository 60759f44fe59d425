// file: internal/export/errors.go
// version: 1.0.0
// guid: 1d8c4b7e-6a25-4f03-9e1b-c7f0a2d5e934

package export

import (
	"errors"
	"fmt"
)

var (
	// ErrRenderFailure marks a task whose template could not be loaded or
	// whose root element could not be located.
	ErrRenderFailure = errors.New("render failure")
	// ErrDownloadFailure marks a task that rendered but could not be saved.
	ErrDownloadFailure = errors.New("download failure")
	// ErrSessionStarted is returned when Run is called twice on a session.
	ErrSessionStarted = errors.New("export session already started")
)

// TaskError scopes a failure to one export task.
type TaskError struct {
	Task Task
	Kind error
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d (%s): %v: %v", e.Task.Index, e.Task.RecordID, e.Kind, e.Err)
}

func (e *TaskError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func renderError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrRenderFailure}, args...)...)
}
