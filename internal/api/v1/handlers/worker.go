package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/services"
)

// WorkerHandler handles internal pipeline worker callbacks. All routes sit
// behind the internal shared-secret middleware.
type WorkerHandler struct {
	service services.WorkerService
}

// NewWorkerHandler creates a new worker callback handler
func NewWorkerHandler(service services.WorkerService) *WorkerHandler {
	return &WorkerHandler{
		service: service,
	}
}

// UpdateJobStatus handles POST /api/v1/internal/projects/:id/job-status
func (h *WorkerHandler) UpdateJobStatus(c *gin.Context) {
	var req dto.JobStatusUpdateRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.service.UpdateJobStatus(c.Request.Context(), c.Param("id"), &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SaveContent handles POST /api/v1/internal/projects/:id/content
func (h *WorkerHandler) SaveContent(c *gin.Context) {
	var req dto.SaveContentRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.service.SaveContent(c.Request.Context(), c.Param("id"), &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordError handles POST /api/v1/internal/projects/:id/error
func (h *WorkerHandler) RecordError(c *gin.Context) {
	var req dto.RecordErrorRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.service.RecordError(c.Request.Context(), c.Param("id"), &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SaveJobErrors handles POST /api/v1/internal/projects/:id/job-errors
func (h *WorkerHandler) SaveJobErrors(c *gin.Context) {
	var req dto.JobErrorsRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.service.SaveJobErrors(c.Request.Context(), c.Param("id"), &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
