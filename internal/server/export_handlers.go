// file: internal/server/export_handlers.go
// version: 1.0.0
// guid: 8d2f6b13-5e4c-4a97-b0d8-36e9c1f7a425

package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/elsayedebiad/qsr-final-sub001/internal/database"
)

var exportStatuses = []string{
	database.StatusPending,
	database.StatusQueued,
	database.StatusRunning,
	database.StatusCompleted,
	database.StatusFailed,
	database.StatusCanceled,
}

type createExportRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (s *Server) createExport(c *gin.Context) {
	ol := operationLogger(c, "createExport")
	ol.LogStart()

	var req createExportRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}
	if err := ValidateExportIDs(req.IDs); err != nil {
		RespondWithValidationErr(c, "createExport", err)
		return
	}

	view, err := s.exports.Start(req.IDs)
	switch {
	case errors.Is(err, ErrNoRecords):
		RespondWithValidationError(c, "ids", err.Error())
		return
	case errors.Is(err, ErrQueueUnavailable):
		RespondWithServiceUnavailable(c, err.Error())
		return
	case err != nil:
		ol.LogError(http.StatusInternalServerError, err)
		RespondWithInternalError(c, err.Error())
		return
	}

	ol.SetResourceID(view.ID)
	ol.AddDetail("records", view.Total)
	ol.LogSuccess(http.StatusAccepted)
	c.JSON(http.StatusAccepted, CreateResponse{ID: view.ID, Data: view})
}

func (s *Server) listExports(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 50)
	if err := ValidateInteger(limit, "limit", 1, 1000); err != nil {
		RespondWithValidationErr(c, "listExports", err)
		return
	}
	status := c.Query("status")
	if status != "" {
		if err := ValidateStringInList(status, "status", exportStatuses); err != nil {
			RespondWithValidationErr(c, "listExports", err)
			return
		}
	}

	views, err := s.exports.List(limit)
	if err != nil {
		RespondWithInternalError(c, err.Error())
		return
	}
	if status != "" {
		filtered := views[:0]
		for _, v := range views {
			if v.Status == status {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}
	RespondWithList(c, views, len(views), limit, 0)
}

func (s *Server) getExport(c *gin.Context) {
	id := c.Param("id")
	view, err := s.exports.Get(id)
	if err != nil {
		s.respondExportError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) getExportLogs(c *gin.Context) {
	id := c.Param("id")
	logs, err := s.exports.Logs(id)
	if err != nil {
		s.respondExportError(c, id, err)
		return
	}
	// Optional tail parameter for last N log lines
	if tailStr := c.Query("tail"); tailStr != "" {
		if n, convErr := strconv.Atoi(tailStr); convErr == nil && n > 0 && n < len(logs) {
			logs = logs[len(logs)-n:]
		}
	}
	RespondWithList(c, logs, len(logs), len(logs), 0)
}

func (s *Server) closeExport(c *gin.Context) {
	ol := operationLogger(c, "closeExport")
	id := c.Param("id")
	ol.SetResourceID(id)

	view, err := s.exports.CloseSession(id)
	if err != nil {
		s.respondExportError(c, id, err)
		return
	}
	ol.LogSuccess(http.StatusOK)
	c.JSON(http.StatusOK, view)
}

func (s *Server) respondExportError(c *gin.Context, id string, err error) {
	switch {
	case errors.Is(err, ErrExportNotFound):
		RespondWithNotFound(c, "export", id)
	case errors.Is(err, ErrExportFinished):
		RespondWithConflict(c, err.Error())
	default:
		RespondWithInternalError(c, err.Error())
	}
}
