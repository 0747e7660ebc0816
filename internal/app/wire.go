//go:build wireinject
// +build wireinject

package app

import (
	"log/slog"

	"github.com/google/wire"

	"studyforge/internal/api/server"
	v1routes "studyforge/internal/api/v1/routes"
	"studyforge/internal/api/v1/services"
	"studyforge/internal/app/access"
	"studyforge/internal/app/pipeline"
	"studyforge/internal/app/progress"
	"studyforge/internal/app/sharing"
	"studyforge/internal/config"
)

// InitializeApplication builds the full application graph from configuration.
func InitializeApplication(cfg *config.Config, logger *slog.Logger) (*Application, func(), error) {
	wire.Build(
		provideDB,
		provideProjectRepository,
		provideGroupRepository,
		provideSettingsRepository,
		provideRedisClient,
		provideZapLogger,
		provideDispatcher,
		provideBlobStore,
		provideMemberCaps,
		provideAuthProvider,
		provideServerConfig,
		access.NewEvaluator,
		pipeline.NewOrchestrator,
		progress.NewPublisher,
		progress.NewSubscriber,
		sharing.NewService,
		services.NewProjectService,
		services.NewGenerationService,
		services.NewWorkerService,
		services.NewGroupService,
		services.NewExportService,
		services.NewSettingsService,
		wire.Struct(new(v1routes.ServiceContainer), "*"),
		server.NewServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
