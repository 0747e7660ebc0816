package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/services"
)

// ProjectHandler handles project-related API endpoints
type ProjectHandler struct {
	service services.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

// CreateUploadURL handles POST /api/v1/projects/upload-url
//
// @Summary Get a presigned upload URL
// @Description Issues a presigned PUT URL the client uploads its file against before creating the project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body dto.CreateUploadURLRequest true "Upload slot request"
// @Success 200 {object} dto.UploadTicketResponse "Presigned upload slot"
// @Failure 422 {object} errors.APIError "Validation error"
// @Failure 503 {object} errors.APIError "Upload storage unavailable"
// @Router /projects/upload-url [post]
func (h *ProjectHandler) CreateUploadURL(c *gin.Context) {
	var req dto.CreateUploadURLRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.CreateUploadURL(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Create handles POST /api/v1/projects
// Records a completed upload and starts the processing pipeline
//
// @Summary Create a project from an uploaded file
// @Description Registers the uploaded file as a project and triggers transcription and content generation
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project creation data"
// @Success 201 {object} dto.ProjectResponse "Project created"
// @Failure 422 {object} errors.APIError "Validation error"
// @Failure 429 {object} errors.APIError "Project quota exceeded"
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.CreateProject(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Get handles GET /api/v1/projects/:id
//
// @Summary Get project by ID
// @Description Retrieves a project the caller owns or can read through sharing
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse "Project details"
// @Failure 404 {object} errors.APIError "Project not found"
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	response, err := h.service.GetProject(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// List handles GET /api/v1/projects
//
// @Summary List projects
// @Description Lists the caller's projects plus projects shared with them, newest first
// @Tags projects
// @Produce json
// @Success 200 {object} dto.ProjectListResponse "Projects"
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	response, err := h.service.ListProjects(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Update handles PATCH /api/v1/projects/:id
//
// @Summary Edit project metadata
// @Description Updates display name and categorization. Owner only.
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body dto.UpdateProjectRequest true "Metadata changes"
// @Success 200 {object} dto.ProjectResponse "Updated project"
// @Failure 403 {object} errors.APIError "Not the owner"
// @Failure 404 {object} errors.APIError "Project not found"
// @Router /projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.UpdateProject(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/v1/projects/:id
//
// @Summary Delete a project
// @Description Soft deletes the project. Allowed for the owner and moderation roles.
// @Tags projects
// @Param id path string true "Project ID"
// @Success 204 "Project deleted"
// @Failure 403 {object} errors.APIError "Not allowed to delete"
// @Failure 404 {object} errors.APIError "Project not found"
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteProject(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Events handles GET /api/v1/projects/:id/events
// Streams live project snapshots over SSE until the client disconnects.
//
// @Summary Watch project progress
// @Description Server-sent events stream of project snapshots as the pipeline advances
// @Tags projects
// @Produce text/event-stream
// @Param id path string true "Project ID"
// @Success 200 {string} string "SSE stream"
// @Failure 404 {object} errors.APIError "Project not found"
// @Router /projects/{id}/events [get]
func (h *ProjectHandler) Events(c *gin.Context) {
	updates, err := h.service.WatchProject(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case project, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("project", project)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
