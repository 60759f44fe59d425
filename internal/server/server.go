// file: internal/server/server.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elsayedebiad/qsr-final-sub001/internal/export"
	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
	"github.com/elsayedebiad/qsr-final-sub001/internal/metrics"
	"github.com/elsayedebiad/qsr-final-sub001/internal/realtime"
	"github.com/elsayedebiad/qsr-final-sub001/internal/records"
	"github.com/elsayedebiad/qsr-final-sub001/internal/server/middleware"
	"github.com/elsayedebiad/qsr-final-sub001/internal/sysinfo"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const (
	jsonBodyLimit = 1 << 20
	bulkBodyLimit = 8 << 20
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine

	repo       *records.Repository
	candidates *CandidateService
	exports    *ExportService
	templates  *export.RecordTemplateSource
	limiter    *middleware.IPRateLimiter
	startedAt  time.Time
}

// Deps are the collaborators a Server serves from.
type Deps struct {
	Repo      *records.Repository
	Evaluator *filter.Evaluator
	Exports   *ExportService

	RootClass          string
	APIToken           string
	RateLimitPerMinute int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance
func NewServer(deps Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogging())
	router.Use(corsMiddleware())

	// Register metrics (idempotent)
	metrics.Register()

	s := &Server{
		router:     router,
		repo:       deps.Repo,
		candidates: NewCandidateService(deps.Repo, deps.Evaluator),
		exports:    deps.Exports,
		templates:  newTemplateView(deps.Repo, deps.RootClass),
		startedAt:  time.Now(),
	}
	if deps.RateLimitPerMinute > 0 {
		s.limiter = middleware.NewIPRateLimiter(deps.RateLimitPerMinute, deps.RateLimitPerMinute/4+1)
	}

	deps.Repo.OnReload(func(count int) {
		if realtime.GlobalHub != nil {
			realtime.GlobalHub.SendRecordsReloaded(count)
		}
	})

	s.setupRoutes(deps.APIToken)
	return s
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	// Heartbeat: push periodic system.status events via SSE (every 5s) while running
	stopHeartbeat := make(chan struct{})
	go s.heartbeat(5*time.Second, stopHeartbeat)
	defer close(stopHeartbeat)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Println("[INFO] shutting down server...")

	if realtime.GlobalHub != nil {
		realtime.GlobalHub.Broadcast(&realtime.Event{
			Type: "system.shutdown",
			Data: map[string]any{
				"message": "Server is shutting down",
			},
		})
		// Give clients a moment to receive the event
		time.Sleep(500 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("[INFO] server exited")
	return nil
}

func (s *Server) heartbeat(every time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			status := s.systemStatus()
			if realtime.GlobalHub != nil {
				realtime.GlobalHub.SendSystemStatus(status)
			}
		case <-stop:
			return
		}
	}
}

// systemStatus samples process statistics and updates the gauges.
func (s *Server) systemStatus() map[string]any {
	var alloc runtime.MemStats
	runtime.ReadMemStats(&alloc)
	goroutines := runtime.NumGoroutine()

	metrics.SetMemoryAlloc(alloc.Alloc)
	metrics.SetGoroutines(goroutines)

	return map[string]any{
		"records":        s.repo.Len(),
		"active_exports": s.activeExports(),
		"memory_alloc":   alloc.Alloc,
		"goroutines":     goroutines,
		"timestamp":      time.Now().Unix(),
	}
}

func (s *Server) activeExports() int {
	if s.exports == nil || s.exports.queue == nil {
		return 0
	}
	return len(s.exports.queue.ActiveOperations())
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes(apiToken string) {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware())
	}
	s.router.Use(middleware.MaxRequestBodySize(jsonBodyLimit, bulkBodyLimit))
	s.router.Use(middleware.TokenAuth(apiToken))

	api := s.router.Group("/api/v1")
	{
		api.GET("/candidates", s.listCandidates)
		api.GET("/candidates/:id", s.getCandidate)

		api.GET("/facets", s.getFacets)
		api.GET("/facets/:dimension/suggest", s.suggestFacet)

		api.POST("/records/reload", s.reloadRecords)

		exports := api.Group("/exports", s.requireExports)
		exports.POST("", s.createExport)
		exports.GET("", s.listExports)
		exports.GET("/:id", s.getExport)
		exports.GET("/:id/logs", s.getExportLogs)
		exports.DELETE("/:id", s.closeExport)

		// Real-time events (SSE)
		api.GET("/events", s.handleEvents)
	}

	s.router.GET("/cv/:id/template", s.renderTemplate)
}

func (s *Server) requireExports(c *gin.Context) {
	if s.exports == nil {
		RespondWithServiceUnavailable(c, "exports not configured")
		c.Abort()
		return
	}
	c.Next()
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:        "ok",
		Uptime:        int64(time.Since(s.startedAt).Seconds()),
		Timestamp:     time.Now().Unix(),
		Version:       Version,
		Records:       s.repo.Len(),
		ActiveExports: s.activeExports(),
	}
	if loaded := s.repo.LoadedAt(); !loaded.IsZero() {
		resp.RecordsLoaded = loaded.Unix()
	} else {
		resp.Status = "degraded"
	}

	if mem, err := sysinfo.GetMemoryStats(); err == nil {
		resp.Memory = map[string]any{
			"total_bytes":  mem.TotalBytes,
			"used_bytes":   mem.UsedBytes,
			"used_percent": mem.UsedPercent,
			"heap_bytes":   mem.HeapBytes,
			"goroutines":   mem.Goroutines,
		}
	} else {
		resp.PartialError = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// handleEvents handles Server-Sent Events (SSE) for real-time updates
func (s *Server) handleEvents(c *gin.Context) {
	if realtime.GlobalHub == nil {
		RespondWithServiceUnavailable(c, "event hub not initialized")
		return
	}
	realtime.GlobalHub.HandleSSE(c)
}

// GetDefaultServerConfig returns default server configuration
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         "8484",
		Host:         "localhost",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}
}
