package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	apierrors "studyforge/internal/api/errors"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/app/access"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/model"
	"studyforge/internal/app/pipeline"
	"studyforge/internal/app/plan"
	"studyforge/internal/app/progress"
	"studyforge/internal/app/repository"
	"studyforge/internal/app/storage"
)

// ProjectServiceImpl implements the ProjectService interface
type ProjectServiceImpl struct {
	projects     repository.ProjectRepository
	groups       repository.GroupRepository
	settings     repository.SettingsRepository
	evaluator    *access.Evaluator
	orchestrator *pipeline.Orchestrator
	blobs        storage.BlobStore
	publisher    *progress.Publisher
	subscriber   *progress.Subscriber
	logger       *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projects repository.ProjectRepository,
	groups repository.GroupRepository,
	settings repository.SettingsRepository,
	evaluator *access.Evaluator,
	orchestrator *pipeline.Orchestrator,
	blobs storage.BlobStore,
	publisher *progress.Publisher,
	subscriber *progress.Subscriber,
	logger *slog.Logger,
) ProjectService {
	return &ProjectServiceImpl{
		projects:     projects,
		groups:       groups,
		settings:     settings,
		evaluator:    evaluator,
		orchestrator: orchestrator,
		blobs:        blobs,
		publisher:    publisher,
		subscriber:   subscriber,
		logger:       logger,
	}
}

// CreateUploadURL issues a presigned upload slot for the caller
func (s *ProjectServiceImpl) CreateUploadURL(ctx context.Context, user auth.User, req *dto.CreateUploadURLRequest) (*dto.UploadTicketResponse, error) {
	ticket, err := s.blobs.PresignUpload(ctx, user.ID, req.FileName)
	if err != nil {
		return nil, apierrors.NewServiceUnavailableError("Upload storage is unavailable")
	}
	return &dto.UploadTicketResponse{
		URL:       ticket.URL,
		Method:    ticket.Method,
		Key:       ticket.Key,
		ExpiresAt: ticket.ExpiresAt,
	}, nil
}

// CreateProject records the completed upload and kicks off the pipeline.
// Free-tier quotas count lifetime projects, deleted ones included, so deleting
// does not free a slot.
func (s *ProjectServiceImpl) CreateProject(ctx context.Context, user auth.User, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	effective, err := s.effectivePlan(ctx, user)
	if err != nil {
		return nil, err
	}

	if quota := plan.ProjectQuota(effective); quota >= 0 {
		count, err := s.projects.CountByOwner(ctx, user.ID, true)
		if err != nil {
			return nil, err
		}
		if count >= quota {
			return nil, apierrors.NewQuotaExceededError("Project limit reached for your plan")
		}
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.FileName
	}
	project := &model.Project{
		ID:          uuid.New().String(),
		OwnerID:     user.ID,
		SourceURL:   req.SourceURL,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		Duration:    req.Duration,
		Format:      req.Format,
		Kind:        model.ContentKind(req.Kind),
		DisplayName: displayName,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Status:      model.ProjectUploaded,
		JobStatus: model.JobStatus{
			Transcription:     model.PhasePending,
			ContentGeneration: model.PhasePending,
		},
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	if err := s.orchestrator.TriggerPipeline(ctx, project.ID, effective); err != nil {
		// The project exists either way; a retry endpoint can re-trigger.
		s.logger.Error("failed to trigger pipeline after create",
			"project_id", project.ID, "error", err)
	}

	created, err := s.projects.GetByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToProjectResponse(created, access.Owner)
	return &resp, nil
}

// GetProject returns the project if the caller holds read capability. Denied
// access is reported as not found so existence does not leak.
func (s *ProjectServiceImpl) GetProject(ctx context.Context, user auth.User, id string) (*dto.ProjectResponse, error) {
	project, level, err := s.authorize(ctx, user, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToProjectResponse(project, level)
	return &resp, nil
}

// ListProjects returns the caller's own projects plus projects shared with
// them through active group memberships, newest first.
func (s *ProjectServiceImpl) ListProjects(ctx context.Context, user auth.User) (*dto.ProjectListResponse, error) {
	sharedOwners, err := s.groups.SharedOwnerIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	owners := append([]string{user.ID}, sharedOwners...)

	projects, err := s.projects.ListByOwners(ctx, owners)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		level := access.SharedRead
		if projects[i].OwnerID == user.ID {
			level = access.Owner
		}
		responses = append(responses, dto.ToProjectResponse(&projects[i], level))
	}
	return &dto.ProjectListResponse{Projects: responses, Total: len(responses)}, nil
}

// UpdateProject edits display metadata. Owner only; moderation reads cannot
// write. Empty request fields keep their stored values.
func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, user auth.User, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, level, err := s.authorize(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !level.CanEdit() {
		return nil, apierrors.NewForbiddenError("Only the project owner can edit it")
	}

	displayName := project.DisplayName
	if req.DisplayName != "" {
		displayName = req.DisplayName
	}
	category := project.Category
	if req.Category != "" {
		category = req.Category
	}
	subcategory := project.Subcategory
	if req.Subcategory != "" {
		subcategory = req.Subcategory
	}

	if err := s.projects.UpdateMetadata(ctx, id, displayName, category, subcategory); err != nil {
		return nil, err
	}

	updated, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, updated)
	resp := dto.ToProjectResponse(updated, level)
	return &resp, nil
}

// DeleteProject soft-deletes the project. Allowed for the owner and for the
// moderation role; shared readers cannot delete.
func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, user auth.User, id string) error {
	project, level, err := s.authorize(ctx, user, id)
	if err != nil {
		return err
	}
	if !level.CanDelete() {
		return apierrors.NewForbiddenError("You cannot delete this project")
	}

	if err := s.projects.SoftDelete(ctx, id); err != nil {
		return err
	}

	// Blob cleanup is best effort; the record is already gone.
	if key := s.blobs.KeyFromURL(project.SourceURL); key != "" {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete blob", "project_id", id, "error", err)
		}
	}

	s.logger.Info("project deleted", "project_id", id, "by", user.ID, "access", level.String())
	return nil
}

// WatchProject streams live snapshots of the project after an access check.
func (s *ProjectServiceImpl) WatchProject(ctx context.Context, user auth.User, id string) (<-chan model.Project, error) {
	if _, _, err := s.authorize(ctx, user, id); err != nil {
		return nil, err
	}
	return s.subscriber.Watch(ctx, id), nil
}

// authorize loads the project and resolves the caller's capability. Denied
// access collapses into ErrProjectNotFound.
func (s *ProjectServiceImpl) authorize(ctx context.Context, user auth.User, id string) (*model.Project, access.Level, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, access.Denied, err
	}
	role, err := s.roleFor(ctx, user.ID)
	if err != nil {
		return nil, access.Denied, err
	}
	level, err := s.evaluator.ProjectAccess(ctx, user.ID, role, project)
	if err != nil {
		return nil, access.Denied, err
	}
	if !level.CanRead() {
		return nil, access.Denied, repository.ErrProjectNotFound
	}
	return project, level, nil
}

func (s *ProjectServiceImpl) roleFor(ctx context.Context, userID string) (model.Role, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return model.RoleUser, err
	}
	return settings.Role, nil
}

func (s *ProjectServiceImpl) effectivePlan(ctx context.Context, user auth.User) (plan.Plan, error) {
	role, err := s.roleFor(ctx, user.ID)
	if err != nil {
		return plan.Free, err
	}
	return plan.Effective(user.Plan, role), nil
}
