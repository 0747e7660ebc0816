package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/internal/app/plan"
)

func TestHeaderProvider_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		planHeader string
		wantPlan   plan.Plan
		wantErr    error
	}{
		{
			name:       "known plan passes through",
			userID:     "user-1",
			planHeader: "ultra",
			wantPlan:   plan.Ultra,
		},
		{
			name:       "unknown plan falls back to free",
			userID:     "user-1",
			planHeader: "platinum",
			wantPlan:   plan.Free,
		},
		{
			name:     "missing plan header falls back to free",
			userID:   "user-1",
			wantPlan: plan.Free,
		},
		{
			name:       "missing user id is unauthenticated",
			planHeader: "pro",
			wantErr:    ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/projects", nil)
			if tt.userID != "" {
				r.Header.Set("X-User-ID", tt.userID)
			}
			if tt.planHeader != "" {
				r.Header.Set("X-User-Plan", tt.planHeader)
			}

			user, err := HeaderProvider{}.Authenticate(r)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.userID, user.ID)
			assert.Equal(t, tt.wantPlan, user.Plan)
		})
	}
}
