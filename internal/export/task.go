// file: internal/export/task.go
// version: 1.1.0
// guid: 5b0e7f2c-8d13-4a69-b4c2-e1f9d3a7068b

package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TaskState tracks one task through the export pipeline.
type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskRendering TaskState = "rendering"
	TaskSaving    TaskState = "saving"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// Task is one unit of export work.
type Task struct {
	Index    int    `json:"index"`
	RecordID string `json:"record_id"`
	Filename string `json:"filename"`
}

// TaskResult is the outcome of one attempted task.
type TaskResult struct {
	Task
	State    TaskState     `json:"state"`
	Path     string        `json:"path,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// NameLookup returns the display name and reference code for a record id.
type NameLookup func(id string) (name, reference string, ok bool)

var (
	illegalChars = regexp.MustCompile(`[\\/:*?"<>|]+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// SanitizeFilename replaces filesystem-illegal characters with '-' and
// collapses whitespace runs to a single '_'.
func SanitizeFilename(s string) string {
	s = illegalChars.ReplaceAllString(strings.TrimSpace(s), "-")
	s = whitespace.ReplaceAllString(s, "_")
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return s
}

// BuildTasks creates one task per distinct id in input order. With a lookup,
// ids it does not know are dropped. Filenames are
// <name>_<reference-or-id>_<n>.<ext> with n the 1-based task position, so
// two records sharing a name never collide.
func BuildTasks(ids []string, lookup NameLookup, ext string) []Task {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "png"
	}

	seen := make(map[string]struct{}, len(ids))
	tasks := make([]Task, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}

		name, ref := "cv", ""
		if lookup != nil {
			n, r, ok := lookup(id)
			if !ok {
				continue
			}
			if strings.TrimSpace(n) != "" {
				name = n
			}
			ref = r
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(ref) == "" {
			ref = id
		}

		index := len(tasks) + 1
		tasks = append(tasks, Task{
			Index:    index,
			RecordID: id,
			Filename: fmt.Sprintf("%s_%s_%d.%s", SanitizeFilename(name), SanitizeFilename(ref), index, ext),
		})
	}
	return tasks
}
