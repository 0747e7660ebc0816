package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/services"
)

// GenerationHandler handles user-facing generation endpoints
type GenerationHandler struct {
	service services.GenerationService
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(service services.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		service: service,
	}
}

// Retry handles POST /api/v1/projects/:id/retry
//
// @Summary Retry a single generation job
// @Description Re-dispatches one generation job for the project. Sibling content is untouched.
// @Tags generation
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body dto.RetryJobRequest true "Job to retry"
// @Success 202 {object} map[string]string "Job dispatched"
// @Failure 400 {object} errors.APIError "Unknown job or invalid parameters"
// @Failure 403 {object} errors.APIError "Not the owner"
// @Failure 404 {object} errors.APIError "Project not found"
// @Failure 409 {object} errors.APIError "Scenario limit reached"
// @Router /projects/{id}/retry [post]
func (h *GenerationHandler) Retry(c *gin.Context) {
	var req dto.RetryJobRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.service.RetryJob(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "dispatched", "job": req.Job})
}

// Backfill handles POST /api/v1/projects/:id/backfill
//
// @Summary Generate missing plan features
// @Description Dispatches every job the caller's plan unlocks that the project has not produced yet
// @Tags generation
// @Produce json
// @Param id path string true "Project ID"
// @Success 202 {object} dto.BackfillResponse "Dispatched jobs"
// @Failure 403 {object} errors.APIError "Not the owner"
// @Failure 404 {object} errors.APIError "Project not found"
// @Failure 409 {object} errors.APIError "Nothing to generate"
// @Router /projects/{id}/backfill [post]
func (h *GenerationHandler) Backfill(c *gin.Context) {
	response, err := h.service.Backfill(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, response)
}
