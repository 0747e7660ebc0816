package services

import (
	"context"
	"io"

	"studyforge/internal/api/v1/dto"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/model"
)

// ProjectService defines the interface for project operations
type ProjectService interface {
	CreateUploadURL(ctx context.Context, user auth.User, req *dto.CreateUploadURLRequest) (*dto.UploadTicketResponse, error)
	CreateProject(ctx context.Context, user auth.User, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, user auth.User, id string) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, user auth.User) (*dto.ProjectListResponse, error)
	UpdateProject(ctx context.Context, user auth.User, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, user auth.User, id string) error
	// WatchProject authorizes the caller, then streams live project snapshots
	// until the context is cancelled.
	WatchProject(ctx context.Context, user auth.User, id string) (<-chan model.Project, error)
}

// GenerationService defines the interface for user-facing generation operations
type GenerationService interface {
	RetryJob(ctx context.Context, user auth.User, projectID string, req *dto.RetryJobRequest) error
	Backfill(ctx context.Context, user auth.User, projectID string) (*dto.BackfillResponse, error)
}

// WorkerService defines the interface for pipeline worker callbacks. No user
// identity here; the routes are gated by the internal shared secret.
type WorkerService interface {
	UpdateJobStatus(ctx context.Context, projectID string, req *dto.JobStatusUpdateRequest) error
	SaveContent(ctx context.Context, projectID string, req *dto.SaveContentRequest) error
	RecordError(ctx context.Context, projectID string, req *dto.RecordErrorRequest) error
	SaveJobErrors(ctx context.Context, projectID string, req *dto.JobErrorsRequest) error
}

// GroupService defines the interface for sharing-group operations
type GroupService interface {
	CreateGroup(ctx context.Context, user auth.User, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	ListGroups(ctx context.Context, user auth.User) (*dto.GroupListResponse, error)
	DeleteGroup(ctx context.Context, user auth.User, groupID string) error
	RequestToJoin(ctx context.Context, user auth.User, groupID string) (*dto.JoinRequestResponse, error)
	InviteUser(ctx context.Context, user auth.User, groupID string, req *dto.InviteRequest) (*dto.JoinRequestResponse, error)
	ListPendingRequests(ctx context.Context, user auth.User, groupID string) ([]dto.JoinRequestResponse, error)
	RespondToRequest(ctx context.Context, user auth.User, groupID, requestID string, accept bool) error
	RemoveMember(ctx context.Context, user auth.User, groupID, memberID string) error
	LeaveGroup(ctx context.Context, user auth.User, groupID string) error
}

// ExportService defines the interface for export operations
type ExportService interface {
	ExportProjects(ctx context.Context, user auth.User, format string, writer io.Writer) error
}

// SettingsService defines the interface for user settings operations
type SettingsService interface {
	GetSettings(ctx context.Context, user auth.User) (*dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, user auth.User, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}
