package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"studyforge/internal/api/v1/dto"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/model"
)

// MockServices contains all mock services for testing
type MockServices struct {
	ProjectService    *MockProjectService
	GenerationService *MockGenerationService
	WorkerService     *MockWorkerService
	GroupService      *MockGroupService
	ExportService     *MockExportService
	SettingsService   *MockSettingsService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		ProjectService:    NewMockProjectService(t),
		GenerationService: NewMockGenerationService(t),
		WorkerService:     NewMockWorkerService(t),
		GroupService:      NewMockGroupService(t),
		ExportService:     NewMockExportService(t),
		SettingsService:   NewMockSettingsService(t),
	}
}

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func NewMockProjectService(t *testing.T) *MockProjectService {
	m := &MockProjectService{}
	m.Test(t)
	return m
}

func (m *MockProjectService) CreateUploadURL(ctx context.Context, user auth.User, req *dto.CreateUploadURLRequest) (*dto.UploadTicketResponse, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadTicketResponse), args.Error(1)
}

func (m *MockProjectService) CreateProject(ctx context.Context, user auth.User, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) GetProject(ctx context.Context, user auth.User, id string) (*dto.ProjectResponse, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) ListProjects(ctx context.Context, user auth.User) (*dto.ProjectListResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProjectListResponse), args.Error(1)
}

func (m *MockProjectService) UpdateProject(ctx context.Context, user auth.User, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	args := m.Called(ctx, user, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) DeleteProject(ctx context.Context, user auth.User, id string) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

func (m *MockProjectService) WatchProject(ctx context.Context, user auth.User, id string) (<-chan model.Project, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan model.Project), args.Error(1)
}

// MockGenerationService is a mock implementation of GenerationService
type MockGenerationService struct {
	mock.Mock
}

func NewMockGenerationService(t *testing.T) *MockGenerationService {
	m := &MockGenerationService{}
	m.Test(t)
	return m
}

func (m *MockGenerationService) RetryJob(ctx context.Context, user auth.User, projectID string, req *dto.RetryJobRequest) error {
	args := m.Called(ctx, user, projectID, req)
	return args.Error(0)
}

func (m *MockGenerationService) Backfill(ctx context.Context, user auth.User, projectID string) (*dto.BackfillResponse, error) {
	args := m.Called(ctx, user, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BackfillResponse), args.Error(1)
}

// MockWorkerService is a mock implementation of WorkerService
type MockWorkerService struct {
	mock.Mock
}

func NewMockWorkerService(t *testing.T) *MockWorkerService {
	m := &MockWorkerService{}
	m.Test(t)
	return m
}

func (m *MockWorkerService) UpdateJobStatus(ctx context.Context, projectID string, req *dto.JobStatusUpdateRequest) error {
	args := m.Called(ctx, projectID, req)
	return args.Error(0)
}

func (m *MockWorkerService) SaveContent(ctx context.Context, projectID string, req *dto.SaveContentRequest) error {
	args := m.Called(ctx, projectID, req)
	return args.Error(0)
}

func (m *MockWorkerService) RecordError(ctx context.Context, projectID string, req *dto.RecordErrorRequest) error {
	args := m.Called(ctx, projectID, req)
	return args.Error(0)
}

func (m *MockWorkerService) SaveJobErrors(ctx context.Context, projectID string, req *dto.JobErrorsRequest) error {
	args := m.Called(ctx, projectID, req)
	return args.Error(0)
}

// MockGroupService is a mock implementation of GroupService
type MockGroupService struct {
	mock.Mock
}

func NewMockGroupService(t *testing.T) *MockGroupService {
	m := &MockGroupService{}
	m.Test(t)
	return m
}

func (m *MockGroupService) CreateGroup(ctx context.Context, user auth.User, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GroupResponse), args.Error(1)
}

func (m *MockGroupService) ListGroups(ctx context.Context, user auth.User) (*dto.GroupListResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GroupListResponse), args.Error(1)
}

func (m *MockGroupService) DeleteGroup(ctx context.Context, user auth.User, groupID string) error {
	args := m.Called(ctx, user, groupID)
	return args.Error(0)
}

func (m *MockGroupService) RequestToJoin(ctx context.Context, user auth.User, groupID string) (*dto.JoinRequestResponse, error) {
	args := m.Called(ctx, user, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JoinRequestResponse), args.Error(1)
}

func (m *MockGroupService) InviteUser(ctx context.Context, user auth.User, groupID string, req *dto.InviteRequest) (*dto.JoinRequestResponse, error) {
	args := m.Called(ctx, user, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JoinRequestResponse), args.Error(1)
}

func (m *MockGroupService) ListPendingRequests(ctx context.Context, user auth.User, groupID string) ([]dto.JoinRequestResponse, error) {
	args := m.Called(ctx, user, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.JoinRequestResponse), args.Error(1)
}

func (m *MockGroupService) RespondToRequest(ctx context.Context, user auth.User, groupID, requestID string, accept bool) error {
	args := m.Called(ctx, user, groupID, requestID, accept)
	return args.Error(0)
}

func (m *MockGroupService) RemoveMember(ctx context.Context, user auth.User, groupID, memberID string) error {
	args := m.Called(ctx, user, groupID, memberID)
	return args.Error(0)
}

func (m *MockGroupService) LeaveGroup(ctx context.Context, user auth.User, groupID string) error {
	args := m.Called(ctx, user, groupID)
	return args.Error(0)
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	mock.Mock
}

func NewMockExportService(t *testing.T) *MockExportService {
	m := &MockExportService{}
	m.Test(t)
	return m
}

func (m *MockExportService) ExportProjects(ctx context.Context, user auth.User, format string, writer io.Writer) error {
	args := m.Called(ctx, user, format, writer)
	return args.Error(0)
}

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	mock.Mock
}

func NewMockSettingsService(t *testing.T) *MockSettingsService {
	m := &MockSettingsService{}
	m.Test(t)
	return m
}

func (m *MockSettingsService) GetSettings(ctx context.Context, user auth.User) (*dto.SettingsResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SettingsResponse), args.Error(1)
}

func (m *MockSettingsService) UpdateSettings(ctx context.Context, user auth.User, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SettingsResponse), args.Error(1)
}
