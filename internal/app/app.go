// Package app assembles the application graph: repositories, the pipeline
// orchestrator, live progress, and the HTTP server.
package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"studyforge/internal/api/server"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/dispatch"
	"studyforge/internal/app/repository"
	"studyforge/internal/app/repository/pg"
	"studyforge/internal/app/repository/sqlite"
	"studyforge/internal/app/sharing"
	"studyforge/internal/app/storage"
	"studyforge/internal/config"
)

// Application bundles the running server with its shared resources.
type Application struct {
	Server *server.Server
}

func provideDB(cfg *config.Config) (*sql.DB, func(), error) {
	var db *sql.DB
	var err error
	switch cfg.Database.Driver {
	case "postgres":
		db, err = pg.Open(cfg.Database.DSN)
	default:
		db, err = sqlite.Open(cfg.Database.DSN)
	}
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

func provideProjectRepository(cfg *config.Config, db *sql.DB) repository.ProjectRepository {
	if cfg.Database.Driver == "postgres" {
		return pg.NewProjectRepository(db)
	}
	return sqlite.NewProjectRepository(db)
}

func provideGroupRepository(cfg *config.Config, db *sql.DB) repository.GroupRepository {
	if cfg.Database.Driver == "postgres" {
		return pg.NewGroupRepository(db)
	}
	return sqlite.NewGroupRepository(db)
}

func provideSettingsRepository(cfg *config.Config, db *sql.DB) repository.SettingsRepository {
	if cfg.Database.Driver == "postgres" {
		return pg.NewSettingsRepository(db)
	}
	return sqlite.NewSettingsRepository(db)
}

func provideRedisClient(cfg *config.Config) (*redis.Client, func()) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return rdb, func() { rdb.Close() }
}

func provideZapLogger(cfg *config.Config) *zap.Logger {
	return dispatch.MustNewLogger(cfg.Server.Environment != "production")
}

func provideDispatcher(cfg *config.Config, zapLogger *zap.Logger) (dispatch.Dispatcher, func(), error) {
	temporalClient, err := dispatch.NewTemporalClient(dispatch.Config{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		TaskQueue: cfg.Temporal.TaskQueue,
	})
	if err != nil {
		return nil, nil, err
	}
	dispatcher := dispatch.NewTemporalDispatcher(temporalClient, cfg.Temporal.TaskQueue, zapLogger)
	return dispatcher, func() { dispatcher.Close() }, nil
}

func provideBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return storage.NewMinioBlobStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		UseSSL:    cfg.Minio.UseSSL,
	})
}

func provideMemberCaps() sharing.MemberCaps {
	plansCfg, err := config.LoadPlansConfig("configs/plans.yaml")
	if err != nil {
		slog.Warn("falling back to default member caps", "error", err)
		return sharing.DefaultMemberCaps()
	}
	return plansCfg.MemberCapsFor()
}

func provideAuthProvider() auth.Provider {
	return auth.HeaderProvider{}
}

func provideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Addr:           cfg.Server.Addr(),
		ReadTimeout:    30 * time.Second,
		IdleTimeout:    120 * time.Second,
		Environment:    cfg.Server.Environment,
		InternalSecret: cfg.Auth.InternalSecret,
	}
}
