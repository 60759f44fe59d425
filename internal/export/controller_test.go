// file: internal/export/controller_test.go
// version: 1.0.0
// guid: f1b8d3c6-9e24-4a70-b5f2-7c0e6a9d1b48

package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	mu       sync.Mutex
	fail     map[string]error
	block    map[string]chan struct{}
	calls    []string
	ctxErrs  []error
	inflight atomic.Int32
	maxSeen  atomic.Int32
	panicOn  string
	started  chan string
}

func (f *fakeRenderer) Render(ctx context.Context, id string) (image.Image, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	if n > f.maxSeen.Load() {
		f.maxSeen.Store(n)
	}
	if f.started != nil {
		f.started <- id
	}

	f.mu.Lock()
	f.calls = append(f.calls, id)
	ch := f.block[id]
	err := f.fail[id]
	f.mu.Unlock()

	if ch != nil {
		<-ch
	}
	f.mu.Lock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()

	if id == f.panicOn {
		panic("template exploded")
	}
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []string
	fail  map[string]bool
}

func (f *fakeSaver) Save(_ context.Context, name string, _ image.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[name] {
		return "", errors.New("disk full")
	}
	f.saved = append(f.saved, name)
	return "/out/" + name, nil
}

type recordingReporter struct {
	mu       sync.Mutex
	progress []int
	logs     []string
}

func (r *recordingReporter) UpdateProgress(current, total int, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, current*100/total)
	return nil
}

func (r *recordingReporter) Log(level, message string, _ *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, level+": "+message)
	return nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("r%d", i+1)
	}
	return out
}

func TestRunIsolatesFailures(t *testing.T) {
	r := &fakeRenderer{fail: map[string]error{"r3": errors.New("template root not found")}}
	s := &fakeSaver{}
	rep := &recordingReporter{}
	session := NewSession(BuildTasks(ids(5), nil, "png"))

	sum, err := NewController(r, s, Options{}).Run(context.Background(), session, rep)
	require.NoError(t, err)

	assert.Equal(t, Summary{Total: 5, Succeeded: 4, Failed: 1}, sum)
	assert.Equal(t, "4 succeeded, 1 failed", sum.String())
	assert.Equal(t, []string{"r1", "r2", "r3", "r4", "r5"}, r.calls)
	assert.Len(t, s.saved, 4)
	assert.Equal(t, int32(1), r.maxSeen.Load())

	snap := session.Snapshot()
	assert.Equal(t, StateDone, snap.State)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, snap.Total, snap.Succeeded+snap.Failed)
	assert.Equal(t, TaskFailed, snap.Results[2].State)
	assert.Contains(t, snap.Results[2].Error, "render failure")
	assert.Equal(t, TaskSucceeded, snap.Results[3].State)
	assert.Equal(t, "/out/cv_r4_4.png", snap.Results[3].Path)

	assert.Equal(t, []int{0, 20, 40, 60, 80, 100}, rep.progress)
	assert.Contains(t, rep.logs, "info: 4 succeeded, 1 failed")
}

func TestRunSaveFailureIsDownloadFailure(t *testing.T) {
	tasks := BuildTasks(ids(2), nil, "png")
	s := &fakeSaver{fail: map[string]bool{tasks[0].Filename: true}}
	session := NewSession(tasks)

	sum, err := NewController(&fakeRenderer{}, s, Options{}).Run(context.Background(), session, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Contains(t, session.Snapshot().Results[0].Error, "download failure")
}

func TestRunRecoversRendererPanic(t *testing.T) {
	r := &fakeRenderer{panicOn: "r1"}
	sum, err := NewController(r, &fakeSaver{}, Options{}).Run(context.Background(), NewSession(BuildTasks(ids(2), nil, "")), nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 2, Succeeded: 1, Failed: 1}, sum)
}

func TestProgressReachesHundredExactlyOnce(t *testing.T) {
	rep := &recordingReporter{}
	session := NewSession(BuildTasks(ids(250), nil, "png"))

	_, err := NewController(&fakeRenderer{}, &fakeSaver{}, Options{}).Run(context.Background(), session, rep)
	require.NoError(t, err)

	hundreds := 0
	for i, p := range rep.progress {
		if i > 0 {
			assert.GreaterOrEqual(t, p, rep.progress[i-1], "progress must not decrease")
		}
		if p == 100 {
			hundreds++
		}
	}
	assert.Equal(t, 1, hundreds)
	assert.Equal(t, 100, rep.progress[len(rep.progress)-1])
	assert.Equal(t, 99, rep.progress[len(rep.progress)-2])
}

func TestCloseLetsInflightTaskFinish(t *testing.T) {
	release := make(chan struct{})
	r := &fakeRenderer{
		block:   map[string]chan struct{}{"r2": release},
		started: make(chan string, 10),
	}
	session := NewSession(BuildTasks(ids(5), nil, "png"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan Summary)
	go func() {
		sum, _ := NewController(r, &fakeSaver{}, Options{}).Run(ctx, session, nil)
		done <- sum
	}()

	require.Equal(t, "r1", <-r.started)
	require.Equal(t, "r2", <-r.started)
	session.Close()
	cancel()
	close(release)

	sum := <-done
	assert.Equal(t, Summary{Total: 5, Succeeded: 2, Failed: 0}, sum)
	assert.Equal(t, StateClosed, session.State())
	assert.Equal(t, []string{"r1", "r2"}, r.calls)
	for _, e := range r.ctxErrs {
		assert.NoError(t, e, "in-flight render must not see cancellation")
	}
	assert.Less(t, session.Snapshot().Progress, 100)
}

func TestCancelDuringDelayStopsScheduling(t *testing.T) {
	r := &fakeRenderer{started: make(chan string, 10)}
	session := NewSession(BuildTasks(ids(3), nil, "png"))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan Summary)
	go func() {
		sum, _ := NewController(r, &fakeSaver{}, Options{Delay: time.Hour}).Run(ctx, session, nil)
		done <- sum
	}()

	<-r.started
	cancel()
	select {
	case sum := <-done:
		assert.Equal(t, 1, sum.Succeeded)
		assert.Equal(t, StateClosed, session.State())
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}

func TestDelayAppliedBetweenTasksOnly(t *testing.T) {
	session := NewSession(BuildTasks(ids(3), nil, "png"))
	start := time.Now()
	_, err := NewController(&fakeRenderer{}, &fakeSaver{}, Options{Delay: 40 * time.Millisecond}).Run(context.Background(), session, nil)
	require.NoError(t, err)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestRunTwiceAndEmptySession(t *testing.T) {
	c := NewController(&fakeRenderer{}, &fakeSaver{}, Options{Delay: -time.Second})

	empty := NewSession(nil)
	sum, err := c.Run(context.Background(), empty, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Equal(t, StateDone, empty.State())

	_, err = c.Run(context.Background(), empty, nil)
	assert.ErrorIs(t, err, ErrSessionStarted)

	closed := NewSession(BuildTasks(ids(2), nil, ""))
	closed.Close()
	closed.Close()
	assert.Equal(t, StateClosed, closed.State())
	_, err = c.Run(context.Background(), closed, nil)
	assert.ErrorIs(t, err, ErrSessionStarted)
}

func TestSessionIDsAreUnique(t *testing.T) {
	a, b := NewSession(nil), NewSession(nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 26)
	assert.True(t, strings.ToUpper(a.ID) == a.ID)
}
