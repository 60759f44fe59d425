// file: internal/export/task_test.go
// version: 1.1.0
// guid: 4d7a2f91-6c08-4b3e-8e5d-a1f0b9c2d736

package export

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Maria Santos", "Maria_Santos"},
		{"  Maria   Santos  ", "Maria_Santos"},
		{`a/b\c:d*e?f"g<h>i|j`, "a-b-c-d-e-f-g-h-i-j"},
		{"a//b", "a-b"},
		{"فاطمة علي", "فاطمة_علي"},
		{"tab\tname\nline", "tab_name_line"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}
}

func TestBuildTasks(t *testing.T) {
	lookup := func(id string) (string, string, bool) {
		switch id {
		case "1":
			return "Maria Santos", "QSR-001", true
		case "2":
			return "Maria Santos", "", true
		case "3":
			return "", "", true
		}
		return "", "", false
	}

	tasks := BuildTasks([]string{"1", "2", " 1 ", "", "3", "9"}, lookup, ".PNG")
	require.Len(t, tasks, 3)

	assert.Equal(t, Task{Index: 1, RecordID: "1", Filename: "Maria_Santos_QSR-001_1.png"}, tasks[0])
	assert.Equal(t, "Maria_Santos_2_2.png", tasks[1].Filename)
	assert.Equal(t, "cv_3_3.png", tasks[2].Filename)

	names := map[string]bool{}
	for _, task := range tasks {
		assert.False(t, names[task.Filename], "duplicate filename %s", task.Filename)
		names[task.Filename] = true
	}

	assert.Equal(t, "cv_x_1.png", BuildTasks([]string{"x"}, nil, "")[0].Filename)
	assert.Equal(t, "cv_x_1.jpg", BuildTasks([]string{"x"}, nil, "jpg")[0].Filename)
}

func TestBuildTasksDropsUnknownIDs(t *testing.T) {
	known := map[string]string{"a": "Ana Cruz", "b": "Grace Otieno"}
	lookup := func(id string) (string, string, bool) {
		name, ok := known[id]
		return name, "", ok
	}

	tests := []struct {
		name  string
		ids   []string
		want  []string
		files []string
	}{
		{"all unknown", []string{"x", "y", "x"}, nil, nil},
		{"unknown first", []string{"x", "a"}, []string{"a"}, []string{"Ana_Cruz_a_1.png"}},
		{
			"unknown between",
			[]string{"a", "zz", "b", "a"},
			[]string{"a", "b"},
			[]string{"Ana_Cruz_a_1.png", "Grace_Otieno_b_2.png"},
		},
		{"empty", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := BuildTasks(tt.ids, lookup, "png")
			require.Len(t, tasks, len(tt.want))
			for i, task := range tasks {
				assert.Equal(t, i+1, task.Index)
				assert.Equal(t, tt.want[i], task.RecordID)
				assert.Equal(t, tt.files[i], task.Filename)
			}
		})
	}
}

func TestTaskErrorUnwrap(t *testing.T) {
	cause := errors.New("root missing")
	err := fmt.Errorf("wrapped: %w", &TaskError{Task: Task{Index: 3, RecordID: "r3"}, Kind: ErrRenderFailure, Err: cause})

	assert.ErrorIs(t, err, ErrRenderFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDownloadFailure)

	var te *TaskError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 3, te.Task.Index)
	assert.Contains(t, te.Error(), "r3")
}
