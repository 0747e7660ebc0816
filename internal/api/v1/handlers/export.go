package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"studyforge/internal/api/errors"
	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/services"
)

// ExportHandler handles project export endpoints
type ExportHandler struct {
	service services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{
		service: service,
	}
}

// Export handles GET /api/v1/export
//
// @Summary Export projects
// @Description Downloads the caller's projects as an xlsx workbook or CSV file
// @Tags export
// @Produce application/octet-stream
// @Param format query string false "Export format" default(xlsx) Enums(xlsx,csv)
// @Success 200 {file} file "Exported file"
// @Failure 400 {object} errors.APIError "Invalid format"
// @Router /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("projects-%s.%s", time.Now().Format("2006-01-02"), query.Format)
	contentType := "text/csv"
	if query.Format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", contentType)

	if err := h.service.ExportProjects(c.Request.Context(), middleware.CurrentUser(c), query.Format, c.Writer); err != nil {
		// Headers may already be out; log through the error path anyway.
		middleware.HandleError(c, errors.NewInternalError("Export failed"))
		return
	}
}
