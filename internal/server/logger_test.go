// file: internal/server/logger_test.go
// version: 2.0.0
// guid: 2e3f4a5b-6c7d-8e9f-0a1b-2c3d4e5f6a7b

package server

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		SetLogLevel(InfoLevel)
	})
	return &buf
}

func TestNewOperationLogger(t *testing.T) {
	logger := NewOperationLogger("listCandidates", "GET", "/api/v1/candidates", "req-123")

	if logger.handler != "listCandidates" {
		t.Errorf("expected handler 'listCandidates', got %q", logger.handler)
	}
	if logger.method != "GET" {
		t.Errorf("expected method 'GET', got %q", logger.method)
	}
	if logger.path != "/api/v1/candidates" {
		t.Errorf("expected path '/api/v1/candidates', got %q", logger.path)
	}
	if logger.requestID != "req-123" {
		t.Errorf("expected requestID 'req-123', got %q", logger.requestID)
	}
}

func TestOperationLogger_ResourceAndDetails(t *testing.T) {
	buf := captureLog(t)
	logger := NewOperationLogger("createExport", "POST", "/api/v1/exports", "req-9")
	logger.SetResourceID("01J0SESSION")
	logger.AddDetail("records", 3)

	logger.LogSuccess(202)

	out := buf.String()
	if !strings.Contains(out, "(resource: 01J0SESSION)") {
		t.Errorf("expected resource id in log, got %q", out)
	}
	if !strings.Contains(out, "records:3") {
		t.Errorf("expected details in log, got %q", out)
	}
	if !strings.Contains(out, "[request-id: req-9]") {
		t.Errorf("expected request id in log, got %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"warn":    WarnLevel,
		"error":   ErrorLevel,
		"":        InfoLevel,
		"verbose": InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogLevelFiltersOutput(t *testing.T) {
	buf := captureLog(t)
	logger := NewOperationLogger("reloadRecords", "POST", "/api/v1/records/reload", "r1")

	SetLogLevel(InfoLevel)
	logger.LogStart()
	if buf.Len() != 0 {
		t.Errorf("debug line should be suppressed at info, got %q", buf.String())
	}

	SetLogLevel(DebugLevel)
	logger.LogStart()
	if !strings.Contains(buf.String(), "[START] POST /api/v1/records/reload") {
		t.Errorf("expected start line at debug, got %q", buf.String())
	}

	buf.Reset()
	SetLogLevel(ErrorLevel)
	logger.LogWarning("ignored")
	logger.LogError(500, errTest)
	if strings.Contains(buf.String(), "ignored") {
		t.Error("warning should be suppressed at error level")
	}
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Errorf("errors are always logged, got %q", buf.String())
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")

func TestNewServiceLogger(t *testing.T) {
	buf := captureLog(t)
	logger := NewServiceLogger("ExportService", "req-123")

	if logger.serviceName != "ExportService" {
		t.Errorf("expected serviceName 'ExportService', got %q", logger.serviceName)
	}
	logger.LogError("Start", errTest)
	if !strings.Contains(buf.String(), "ExportService.Start: boom") {
		t.Errorf("unexpected service log %q", buf.String())
	}
}

func TestRequestLoggingAssignsID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	var seen string
	router := gin.New()
	router.Use(RequestLogging())
	router.GET("/ping", func(c *gin.Context) {
		seen = RequestID(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if got := w.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("expected header %q, got %q", seen, got)
	}
	if !strings.Contains(buf.String(), "GET /ping -> 204") {
		t.Errorf("expected response line, got %q", buf.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "client-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if seen != "client-42" {
		t.Errorf("expected client request id to be kept, got %q", seen)
	}
}

func TestOperationLogger_TimingAccuracy(t *testing.T) {
	logger := NewOperationLogger("slowOp", "POST", "/test", "req-123")

	// Simulate operation
	time.Sleep(20 * time.Millisecond)

	elapsed := time.Since(logger.startTime)
	if elapsed < 20*time.Millisecond {
		t.Errorf("expected elapsed >= 20ms, got %v", elapsed)
	}
}
