package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studyforge/internal/api/errors"
	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/handlers"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/model"
	"studyforge/internal/app/pipeline"
	"studyforge/internal/app/repository"
	"studyforge/internal/app/testutil"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *testutil.MockServices) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Authenticate(auth.HeaderProvider{}))
	mockServices := testutil.NewMockServices(t)
	return router, mockServices
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("X-User-Plan", "pro")
	return req
}

func TestProjectHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		request        dto.CreateProjectRequest
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name: "successful project creation",
			request: dto.CreateProjectRequest{
				SourceURL: "http://minio/studyforge/uploads/user-1/lecture.mp3",
				FileName:  "lecture.mp3",
				FileSize:  1024,
				Kind:      "audio",
			},
			setupMocks: func(ms *testutil.MockServices) {
				ms.ProjectService.On("CreateProject", mock.Anything, mock.Anything, mock.Anything).
					Return(&dto.ProjectResponse{
						ID:       "p-1",
						OwnerID:  "user-1",
						FileName: "lecture.mp3",
						Kind:     "audio",
						Status:   "processing",
						JobStatus: model.JobStatus{
							Transcription:     model.PhasePending,
							ContentGeneration: model.PhasePending,
						},
						Access:    "owner",
						CreatedAt: time.Now(),
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "p-1", body["id"])
				assert.Equal(t, "processing", body["status"])
				assert.Equal(t, "owner", body["access"])
			},
		},
		{
			name: "validation error - missing source url",
			request: dto.CreateProjectRequest{
				FileName: "lecture.mp3",
				Kind:     "audio",
			},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
				assert.NotNil(t, body["details"])
			},
		},
		{
			name: "validation error - document with duration",
			request: dto.CreateProjectRequest{
				SourceURL: "http://minio/studyforge/uploads/user-1/slides.pdf",
				FileName:  "slides.pdf",
				Kind:      "document",
				Duration:  90,
			},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
				details := body["details"].(map[string]interface{})
				assert.Contains(t, details["duration"], "duration")
			},
		},
		{
			name: "quota exceeded",
			request: dto.CreateProjectRequest{
				SourceURL: "http://minio/studyforge/uploads/user-1/fourth.mp3",
				FileName:  "fourth.mp3",
				Kind:      "audio",
			},
			setupMocks: func(ms *testutil.MockServices) {
				ms.ProjectService.On("CreateProject", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.NewQuotaExceededError("Project limit reached for your plan"))
			},
			expectedStatus: http.StatusTooManyRequests,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "quota_exceeded", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			handler := handlers.NewProjectHandler(mockServices.ProjectService)
			router.POST("/api/v1/projects", handler.Create)

			body, err := json.Marshal(tt.request)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest("POST", "/api/v1/projects", body))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var responseBody map[string]interface{}
			err = json.Unmarshal(rec.Body.Bytes(), &responseBody)
			require.NoError(t, err)

			tt.validateBody(t, responseBody)
		})
	}
}

func TestProjectHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		projectID      string
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:      "successful get",
			projectID: "p-1",
			setupMocks: func(ms *testutil.MockServices) {
				ms.ProjectService.On("GetProject", mock.Anything, mock.Anything, "p-1").
					Return(&dto.ProjectResponse{
						ID:      "p-1",
						OwnerID: "user-2",
						Status:  "completed",
						Access:  "shared_read",
						Shared:  true,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "p-1", body["id"])
				assert.Equal(t, "shared_read", body["access"])
				assert.Equal(t, true, body["shared"])
			},
		},
		{
			name:      "not found and denied look identical",
			projectID: "p-hidden",
			setupMocks: func(ms *testutil.MockServices) {
				ms.ProjectService.On("GetProject", mock.Anything, mock.Anything, "p-hidden").
					Return(nil, repository.ErrProjectNotFound)
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "not_found", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			handler := handlers.NewProjectHandler(mockServices.ProjectService)
			router.GET("/api/v1/projects/:id", handler.Get)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest("GET", "/api/v1/projects/"+tt.projectID, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var responseBody map[string]interface{}
			err := json.Unmarshal(rec.Body.Bytes(), &responseBody)
			require.NoError(t, err)

			tt.validateBody(t, responseBody)
		})
	}
}

func TestProjectHandler_Unauthenticated(t *testing.T) {
	router, mockServices := setupTestRouter(t)

	handler := handlers.NewProjectHandler(mockServices.ProjectService)
	router.GET("/api/v1/projects", handler.List)

	req := httptest.NewRequest("GET", "/api/v1/projects", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockServices.ProjectService.AssertNotCalled(t, "ListProjects")
}

func TestGenerationHandler_Retry(t *testing.T) {
	tests := []struct {
		name           string
		request        dto.RetryJobRequest
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
	}{
		{
			name:    "successful retry",
			request: dto.RetryJobRequest{Job: "summary"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GenerationService.On("RetryJob", mock.Anything, mock.Anything, "p-1", mock.Anything).
					Return(nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:    "scenario retry with difficulty",
			request: dto.RetryJobRequest{Job: "clinicalScenarios", Difficulty: "hard"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GenerationService.On("RetryJob", mock.Anything, mock.Anything, "p-1",
					mock.MatchedBy(func(req *dto.RetryJobRequest) bool {
						return req.Job == "clinicalScenarios" && req.Difficulty == "hard"
					})).Return(nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "invalid difficulty rejected before dispatch",
			request:        dto.RetryJobRequest{Job: "clinicalScenarios", Difficulty: "expert"},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:    "unknown job",
			request: dto.RetryJobRequest{Job: "wordCloud"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GenerationService.On("RetryJob", mock.Anything, mock.Anything, "p-1", mock.Anything).
					Return(pipeline.ErrUnknownJob)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "scenario cap reached",
			request: dto.RetryJobRequest{Job: "clinicalScenarios"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GenerationService.On("RetryJob", mock.Anything, mock.Anything, "p-1", mock.Anything).
					Return(pipeline.ErrScenarioCapReached)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			handler := handlers.NewGenerationHandler(mockServices.GenerationService)
			router.POST("/api/v1/projects/:id/retry", handler.Retry)

			body, err := json.Marshal(tt.request)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest("POST", "/api/v1/projects/p-1/retry", body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestGenerationHandler_Backfill(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name: "backfill dispatches missing jobs",
			setupMocks: func(ms *testutil.MockServices) {
				ms.GenerationService.On("Backfill", mock.Anything, mock.Anything, "p-1").
					Return(&dto.BackfillResponse{Jobs: []string{"titles", "socialPosts", "hashtags"}}, nil)
			},
			expectedStatus: http.StatusAccepted,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				jobs := body["jobs"].([]interface{})
				assert.Len(t, jobs, 3)
			},
		},
		{
			name: "nothing to generate",
			setupMocks: func(ms *testutil.MockServices) {
				ms.GenerationService.On("Backfill", mock.Anything, mock.Anything, "p-1").
					Return(nil, pipeline.ErrNothingToGenerate)
			},
			expectedStatus: http.StatusConflict,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "conflict", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			handler := handlers.NewGenerationHandler(mockServices.GenerationService)
			router.POST("/api/v1/projects/:id/backfill", handler.Backfill)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest("POST", "/api/v1/projects/p-1/backfill", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var responseBody map[string]interface{}
			err := json.Unmarshal(rec.Body.Bytes(), &responseBody)
			require.NoError(t, err)

			tt.validateBody(t, responseBody)
		})
	}
}
