package services

import (
	"context"
	"log/slog"
	"time"

	"studyforge/internal/api/v1/dto"
	"studyforge/internal/app/model"
	"studyforge/internal/app/progress"
	"studyforge/internal/app/repository"
)

// WorkerServiceImpl implements the WorkerService interface. Every mutation
// publishes a fresh project snapshot for live watchers.
type WorkerServiceImpl struct {
	projects  repository.ProjectRepository
	publisher *progress.Publisher
	logger    *slog.Logger
}

// NewWorkerService creates a new worker callback service
func NewWorkerService(projects repository.ProjectRepository, publisher *progress.Publisher, logger *slog.Logger) WorkerService {
	return &WorkerServiceImpl{projects: projects, publisher: publisher, logger: logger}
}

// UpdateJobStatus merges phase updates from the worker. Phase ordering and the
// derived overall status are enforced inside the repository transaction.
func (s *WorkerServiceImpl) UpdateJobStatus(ctx context.Context, projectID string, req *dto.JobStatusUpdateRequest) error {
	if err := s.projects.UpdateJobStatus(ctx, projectID, req.ToPatch()); err != nil {
		return err
	}
	s.publishSnapshot(ctx, projectID)
	return nil
}

// SaveContent lands one generation batch in a single write
func (s *WorkerServiceImpl) SaveContent(ctx context.Context, projectID string, req *dto.SaveContentRequest) error {
	if err := s.projects.SaveContent(ctx, projectID, &req.ContentPatch); err != nil {
		return err
	}
	s.publishSnapshot(ctx, projectID)
	return nil
}

// RecordError records a fatal failure and fails the project. Content produced
// before the failure stays readable.
func (s *WorkerServiceImpl) RecordError(ctx context.Context, projectID string, req *dto.RecordErrorRequest) error {
	procErr := &model.ProcessingError{
		Message:    req.Message,
		Step:       req.Step,
		Details:    req.Details,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.projects.RecordError(ctx, projectID, procErr); err != nil {
		return err
	}
	s.logger.Warn("pipeline failure recorded",
		"project_id", projectID, "step", req.Step, "message", req.Message)
	s.publishSnapshot(ctx, projectID)
	return nil
}

// SaveJobErrors merges per-job failures without touching sibling entries
func (s *WorkerServiceImpl) SaveJobErrors(ctx context.Context, projectID string, req *dto.JobErrorsRequest) error {
	if err := s.projects.SaveJobErrors(ctx, projectID, req.Errors); err != nil {
		return err
	}
	s.publishSnapshot(ctx, projectID)
	return nil
}

func (s *WorkerServiceImpl) publishSnapshot(ctx context.Context, projectID string) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		s.logger.Warn("snapshot publish skipped", "project_id", projectID, "error", err)
		return
	}
	s.publisher.Publish(ctx, project)
}
