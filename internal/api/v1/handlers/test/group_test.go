package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/handlers"
	"studyforge/internal/app/repository"
	"studyforge/internal/app/sharing"
	"studyforge/internal/app/testutil"
)

func TestGroupHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		request        dto.CreateGroupRequest
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:    "successful group creation",
			request: dto.CreateGroupRequest{Name: "study buddies"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GroupService.On("CreateGroup", mock.Anything, mock.Anything, mock.Anything).
					Return(&dto.GroupResponse{
						ID:         "g-1",
						OwnerID:    "user-1",
						Name:       "study buddies",
						MaxMembers: 10,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "g-1", body["id"])
				assert.Equal(t, float64(10), body["max_members"])
			},
		},
		{
			name:           "validation error - missing name",
			request:        dto.CreateGroupRequest{},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			handler := handlers.NewGroupHandler(mockServices.GroupService)
			router.POST("/api/v1/groups", handler.Create)

			body, err := json.Marshal(tt.request)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest("POST", "/api/v1/groups", body))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var responseBody map[string]interface{}
			err = json.Unmarshal(rec.Body.Bytes(), &responseBody)
			require.NoError(t, err)

			tt.validateBody(t, responseBody)
		})
	}
}

func TestGroupHandler_Respond(t *testing.T) {
	accept := true
	reject := false

	tests := []struct {
		name           string
		request        dto.RespondToRequestRequest
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
	}{
		{
			name:    "accept succeeds",
			request: dto.RespondToRequestRequest{Accept: &accept},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GroupService.On("RespondToRequest", mock.Anything, mock.Anything, "g-1", "r-1", true).
					Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:    "reject succeeds",
			request: dto.RespondToRequestRequest{Accept: &reject},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GroupService.On("RespondToRequest", mock.Anything, mock.Anything, "g-1", "r-1", false).
					Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:    "group full at acceptance",
			request: dto.RespondToRequestRequest{Accept: &accept},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GroupService.On("RespondToRequest", mock.Anything, mock.Anything, "g-1", "r-1", true).
					Return(repository.ErrGroupFull)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:    "caller cannot manage the group",
			request: dto.RespondToRequestRequest{Accept: &accept},
			setupMocks: func(ms *testutil.MockServices) {
				ms.GroupService.On("RespondToRequest", mock.Anything, mock.Anything, "g-1", "r-1", true).
					Return(sharing.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing accept field",
			request:        dto.RespondToRequestRequest{},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			handler := handlers.NewGroupHandler(mockServices.GroupService)
			router.POST("/api/v1/groups/:id/join-requests/:reqId/respond", handler.Respond)

			body, err := json.Marshal(tt.request)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest("POST", "/api/v1/groups/g-1/join-requests/r-1/respond", body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestGroupHandler_Leave(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
	}{
		{
			name: "member leaves",
			setupMocks: func(ms *testutil.MockServices) {
				ms.GroupService.On("LeaveGroup", mock.Anything, mock.Anything, "g-1").
					Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "not an active member",
			setupMocks: func(ms *testutil.MockServices) {
				ms.GroupService.On("LeaveGroup", mock.Anything, mock.Anything, "g-1").
					Return(sharing.ErrNotAMember)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			handler := handlers.NewGroupHandler(mockServices.GroupService)
			router.POST("/api/v1/groups/:id/leave", handler.Leave)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest("POST", "/api/v1/groups/g-1/leave", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
