package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/handlers"
	"studyforge/internal/app/repository"
	"studyforge/internal/app/testutil"
)

const testSecret = "worker-secret"

func setupWorkerRouter(t *testing.T) (*gin.Engine, *testutil.MockServices) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	mockServices := testutil.NewMockServices(t)

	handler := handlers.NewWorkerHandler(mockServices.WorkerService)
	internal := router.Group("/api/v1/internal", middleware.RequireInternalSecret(testSecret))
	internal.POST("/projects/:id/job-status", handler.UpdateJobStatus)
	internal.POST("/projects/:id/content", handler.SaveContent)

	return router, mockServices
}

func workerRequest(t *testing.T, target string, payload interface{}, secret string) *http.Request {
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Internal-Secret", secret)
	}
	return req
}

func TestWorkerHandler_SecretGate(t *testing.T) {
	completed := "completed"

	tests := []struct {
		name           string
		secret         string
		expectedStatus int
		expectCall     bool
	}{
		{name: "valid secret", secret: testSecret, expectedStatus: http.StatusNoContent, expectCall: true},
		{name: "wrong secret", secret: "guess", expectedStatus: http.StatusForbidden},
		{name: "missing secret", secret: "", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupWorkerRouter(t)
			if tt.expectCall {
				mockServices.WorkerService.On("UpdateJobStatus", mock.Anything, "p-1", mock.Anything).
					Return(nil)
			}

			payload := dto.JobStatusUpdateRequest{Transcription: &completed}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, workerRequest(t, "/api/v1/internal/projects/p-1/job-status", payload, tt.secret))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if !tt.expectCall {
				mockServices.WorkerService.AssertNotCalled(t, "UpdateJobStatus")
			}
		})
	}
}

func TestWorkerHandler_UpdateJobStatus(t *testing.T) {
	running := "running"

	t.Run("empty patch rejected", func(t *testing.T) {
		router, mockServices := setupWorkerRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, workerRequest(t, "/api/v1/internal/projects/p-1/job-status",
			dto.JobStatusUpdateRequest{}, testSecret))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		mockServices.WorkerService.AssertNotCalled(t, "UpdateJobStatus")
	})

	t.Run("phase order violation maps to conflict", func(t *testing.T) {
		router, mockServices := setupWorkerRouter(t)
		mockServices.WorkerService.On("UpdateJobStatus", mock.Anything, "p-1", mock.Anything).
			Return(repository.ErrPhaseOrder)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, workerRequest(t, "/api/v1/internal/projects/p-1/job-status",
			dto.JobStatusUpdateRequest{ContentGeneration: &running}, testSecret))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestWorkerHandler_SaveContent(t *testing.T) {
	t.Run("batch lands", func(t *testing.T) {
		router, mockServices := setupWorkerRouter(t)
		mockServices.WorkerService.On("SaveContent", mock.Anything, "p-1",
			mock.MatchedBy(func(req *dto.SaveContentRequest) bool {
				return req.Summary != nil && *req.Summary == "short recap"
			})).Return(nil)

		summary := "short recap"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, workerRequest(t, "/api/v1/internal/projects/p-1/content",
			map[string]string{"summary": summary}, testSecret))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		router, mockServices := setupWorkerRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, workerRequest(t, "/api/v1/internal/projects/p-1/content",
			map[string]string{}, testSecret))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		mockServices.WorkerService.AssertNotCalled(t, "SaveContent")
	})
}
