package services

import (
	"context"
	"log/slog"

	apierrors "studyforge/internal/api/errors"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/app/access"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/pipeline"
	"studyforge/internal/app/plan"
	"studyforge/internal/app/repository"
)

// GenerationServiceImpl implements the GenerationService interface
type GenerationServiceImpl struct {
	projects     repository.ProjectRepository
	settings     repository.SettingsRepository
	evaluator    *access.Evaluator
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	projects repository.ProjectRepository,
	settings repository.SettingsRepository,
	evaluator *access.Evaluator,
	orchestrator *pipeline.Orchestrator,
	logger *slog.Logger,
) GenerationService {
	return &GenerationServiceImpl{
		projects:     projects,
		settings:     settings,
		evaluator:    evaluator,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// RetryJob re-dispatches a single generation job. Owner only.
func (s *GenerationServiceImpl) RetryJob(ctx context.Context, user auth.User, projectID string, req *dto.RetryJobRequest) error {
	if err := s.requireOwner(ctx, user, projectID); err != nil {
		return err
	}
	return s.orchestrator.RetryJob(ctx, projectID, req.Job, req.Difficulty)
}

// Backfill dispatches every job the caller's plan unlocks that the project
// has never produced. Owner only.
func (s *GenerationServiceImpl) Backfill(ctx context.Context, user auth.User, projectID string) (*dto.BackfillResponse, error) {
	if err := s.requireOwner(ctx, user, projectID); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	effective := plan.Effective(user.Plan, settings.Role)

	jobs, err := s.orchestrator.GenerateMissingFeatures(ctx, projectID, effective)
	if err != nil {
		return nil, err
	}
	return &dto.BackfillResponse{Jobs: jobs}, nil
}

func (s *GenerationServiceImpl) requireOwner(ctx context.Context, user auth.User, projectID string) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	settings, err := s.settings.Get(ctx, user.ID)
	if err != nil {
		return err
	}
	level, err := s.evaluator.ProjectAccess(ctx, user.ID, settings.Role, project)
	if err != nil {
		return err
	}
	if !level.CanRead() {
		return repository.ErrProjectNotFound
	}
	if !level.CanEdit() {
		return apierrors.NewForbiddenError("Only the project owner can trigger generation")
	}
	return nil
}
