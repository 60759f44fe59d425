// file: internal/operations/queue_progress_test.go
// version: 2.0.0
// guid: 2f9d4c3b-1a0e-4b5c-9d7f-abcdef123456

package operations

import (
	"testing"
	"time"

	"github.com/elsayedebiad/qsr-final-sub001/internal/realtime"
)

func TestUpdateProgressNotifiesListeners(t *testing.T) {
	q := &OperationQueue{listeners: make(map[string][]ProgressListener)}

	progressCh := make(chan OperationProgress, 1)
	q.listeners["op-1"] = []ProgressListener{
		func(operationID string, progress OperationProgress) {
			if operationID != "op-1" {
				t.Errorf("unexpected operation id: %s", operationID)
			}
			progressCh <- progress
		},
	}

	reporter := &operationProgressReporter{operationID: "op-1", queue: q}

	if err := reporter.UpdateProgress(40, 100, "2/5 candidate_r2_2.png"); err != nil {
		t.Fatalf("UpdateProgress returned error: %v", err)
	}

	select {
	case got := <-progressCh:
		if got.Current != 40 || got.Total != 100 || got.Message != "2/5 candidate_r2_2.png" {
			t.Fatalf("unexpected progress payload: %+v", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("did not receive progress notification")
	}

	if reporter.current != 40 || reporter.total != 100 {
		t.Fatalf("reporter state not updated: current=%d total=%d", reporter.current, reporter.total)
	}
}

func TestUpdateProgressBroadcastsPercent(t *testing.T) {
	orig := realtime.GlobalHub
	defer func() { realtime.GlobalHub = orig }()
	realtime.GlobalHub = realtime.NewEventHub()

	client := realtime.NewClient("watcher")
	client.Subscribe("op-2")
	realtime.GlobalHub.RegisterClient(client)
	defer realtime.GlobalHub.UnregisterClient("watcher")

	q := &OperationQueue{listeners: make(map[string][]ProgressListener)}
	reporter := &operationProgressReporter{operationID: "op-2", queue: q}
	if err := reporter.UpdateProgress(3, 4, "3/4"); err != nil {
		t.Fatalf("UpdateProgress returned error: %v", err)
	}

	select {
	case ev := <-client.Channel:
		if ev.Type != realtime.EventExportProgress || ev.Data["percentage"] != 75 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no progress event broadcast")
	}
}
