// file: internal/server/logger.go
// version: 2.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f6a

package server

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	ulid "github.com/oklog/ulid/v2"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

const requestIDKey = "request_id"

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(InfoLevel))
}

// ParseLogLevel maps a config value onto a LogLevel. Unknown values are
// treated as info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// SetLogLevel sets the minimum level handler and service loggers emit.
func SetLogLevel(l LogLevel) {
	minLevel.Store(int32(l))
}

func enabled(l LogLevel) bool {
	return int32(l) >= minLevel.Load()
}

// OperationLogger tracks the lifecycle of a handler operation
type OperationLogger struct {
	handler    string
	method     string
	path       string
	startTime  time.Time
	requestID  string
	resourceID string
	details    map[string]any
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(handler, method, path, requestID string) *OperationLogger {
	return &OperationLogger{
		handler:   handler,
		method:    method,
		path:      path,
		startTime: time.Now(),
		requestID: requestID,
		details:   make(map[string]any),
	}
}

// operationLogger builds an OperationLogger from the request context.
func operationLogger(c *gin.Context, handler string) *OperationLogger {
	return NewOperationLogger(handler, c.Request.Method, c.FullPath(), RequestID(c))
}

// SetResourceID sets the resource ID being operated on
func (ol *OperationLogger) SetResourceID(id string) {
	ol.resourceID = id
}

// AddDetail adds a contextual detail to the operation log
func (ol *OperationLogger) AddDetail(key string, value any) {
	ol.details[key] = value
}

func (ol *OperationLogger) suffix() string {
	s := ""
	if ol.resourceID != "" {
		s = fmt.Sprintf(" (resource: %s)", ol.resourceID)
	}
	if len(ol.details) > 0 {
		s += fmt.Sprintf(" %v", ol.details)
	}
	return s
}

// LogStart logs the start of the operation
func (ol *OperationLogger) LogStart() {
	if !enabled(DebugLevel) {
		return
	}
	log.Printf("[DEBUG] [START] %s %s%s [request-id: %s]", ol.method, ol.path, ol.suffix(), ol.requestID)
}

// LogSuccess logs the successful completion of the operation
func (ol *OperationLogger) LogSuccess(statusCode int) {
	if !enabled(InfoLevel) {
		return
	}
	log.Printf("[INFO] [SUCCESS] %s %s (%d) in %v%s [request-id: %s]",
		ol.method, ol.path, statusCode, time.Since(ol.startTime), ol.suffix(), ol.requestID)
}

// LogError logs an error that occurred during the operation
func (ol *OperationLogger) LogError(statusCode int, err error) {
	log.Printf("[ERROR] %s %s (%d) in %v: %v%s [request-id: %s]",
		ol.method, ol.path, statusCode, time.Since(ol.startTime), err, ol.suffix(), ol.requestID)
}

// LogWarning logs a warning message
func (ol *OperationLogger) LogWarning(message string) {
	if !enabled(WarnLevel) {
		return
	}
	log.Printf("[WARN] %s: %s [request-id: %s]", ol.handler, message, ol.requestID)
}

// ServiceLogger provides logging for service layer operations
type ServiceLogger struct {
	serviceName string
	requestID   string
}

// NewServiceLogger creates a new service logger
func NewServiceLogger(serviceName, requestID string) *ServiceLogger {
	return &ServiceLogger{
		serviceName: serviceName,
		requestID:   requestID,
	}
}

// LogOperation logs the execution of a service operation
func (sl *ServiceLogger) LogOperation(operation string, details map[string]any) {
	if !enabled(DebugLevel) {
		return
	}
	detailStr := ""
	if len(details) > 0 {
		detailStr = fmt.Sprintf(" %v", details)
	}
	log.Printf("[DEBUG] %s.%s%s [request-id: %s]",
		sl.serviceName, operation, detailStr, sl.requestID)
}

// LogError logs an error from the service
func (sl *ServiceLogger) LogError(operation string, err error) {
	log.Printf("[ERROR] %s.%s: %v [request-id: %s]",
		sl.serviceName, operation, err, sl.requestID)
}

// RequestID returns the id assigned to the request by RequestLogging.
func RequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequestLogging assigns every request an id, echoed in X-Request-ID, and
// logs the response line. A client-supplied X-Request-ID is kept.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if id == "" || len(id) > 64 {
			id = ulid.Make().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := InfoLevel
		tag := "INFO"
		switch {
		case status >= 500:
			level, tag = ErrorLevel, "ERROR"
		case status >= 400:
			level, tag = WarnLevel, "WARN"
		}
		if !enabled(level) {
			return
		}
		log.Printf("[%s] %s %s -> %d (%d bytes) in %v from %s [request-id: %s]",
			tag, c.Request.Method, c.Request.URL.Path, status, c.Writer.Size(),
			time.Since(start), c.ClientIP(), id)
	}
}

// LogValidationError logs a validation error with context
func LogValidationError(handler string, field string, reason string, requestID string) {
	if !enabled(WarnLevel) {
		return
	}
	log.Printf("[WARN] validation failed in %s field %q: %s [request-id: %s]",
		handler, field, reason, requestID)
}
