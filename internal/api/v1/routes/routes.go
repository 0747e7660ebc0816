package routes

import (
	"github.com/gin-gonic/gin"

	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/handlers"
	"studyforge/internal/api/v1/services"
	"studyforge/internal/app/auth"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	ProjectService    services.ProjectService
	GenerationService services.GenerationService
	WorkerService     services.WorkerService
	GroupService      services.GroupService
	ExportService     services.ExportService
	SettingsService   services.SettingsService
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer, authProvider auth.Provider, internalSecret string) {
	// Worker callbacks carry the shared secret instead of a user identity
	workerHandler := handlers.NewWorkerHandler(container.WorkerService)
	internal := router.Group("/internal", middleware.RequireInternalSecret(internalSecret))
	{
		internal.POST("/projects/:id/job-status", workerHandler.UpdateJobStatus)
		internal.POST("/projects/:id/content", workerHandler.SaveContent)
		internal.POST("/projects/:id/error", workerHandler.RecordError)
		internal.POST("/projects/:id/job-errors", workerHandler.SaveJobErrors)
	}

	// Everything else requires an authenticated user
	authed := router.Group("", middleware.Authenticate(authProvider))

	projectHandler := handlers.NewProjectHandler(container.ProjectService)
	generationHandler := handlers.NewGenerationHandler(container.GenerationService)
	projects := authed.Group("/projects")
	{
		projects.POST("/upload-url", projectHandler.CreateUploadURL)
		projects.POST("", projectHandler.Create)
		projects.GET("", projectHandler.List)
		projects.GET("/:id", projectHandler.Get)
		projects.PATCH("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)
		projects.GET("/:id/events", projectHandler.Events)
		projects.POST("/:id/retry", generationHandler.Retry)
		projects.POST("/:id/backfill", generationHandler.Backfill)
	}

	groupHandler := handlers.NewGroupHandler(container.GroupService)
	groups := authed.Group("/groups")
	{
		groups.POST("", groupHandler.Create)
		groups.GET("", groupHandler.List)
		groups.DELETE("/:id", groupHandler.Delete)
		groups.POST("/:id/join-requests", groupHandler.RequestToJoin)
		groups.GET("/:id/join-requests", groupHandler.ListRequests)
		groups.POST("/:id/join-requests/:reqId/respond", groupHandler.Respond)
		groups.POST("/:id/invites", groupHandler.Invite)
		groups.DELETE("/:id/members/:userId", groupHandler.RemoveMember)
		groups.POST("/:id/leave", groupHandler.Leave)
	}

	exportHandler := handlers.NewExportHandler(container.ExportService)
	authed.GET("/export", exportHandler.Export)

	settingsHandler := handlers.NewSettingsHandler(container.SettingsService)
	authed.GET("/settings", settingsHandler.Get)
	authed.PUT("/settings", settingsHandler.Update)
}
