package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/services"
)

// SettingsHandler handles user settings endpoints
type SettingsHandler struct {
	service services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		service: service,
	}
}

// Get handles GET /api/v1/settings
//
// @Summary Get user settings
// @Description Returns the caller's settings. Stored vendor keys are reported as booleans, never echoed.
// @Tags settings
// @Produce json
// @Success 200 {object} dto.SettingsResponse "Settings"
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	response, err := h.service.GetSettings(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Update handles PUT /api/v1/settings
//
// @Summary Update user settings
// @Description Stores optional vendor API keys for the caller
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body dto.UpdateSettingsRequest true "Settings changes"
// @Success 200 {object} dto.SettingsResponse "Updated settings"
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.UpdateSettings(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
