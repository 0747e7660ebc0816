package dto

import (
	"time"

	"studyforge/internal/app/model"
)

// UpdateSettingsRequest stores optional vendor credentials for the caller.
// Keys are write-only; responses never echo them back.
type UpdateSettingsRequest struct {
	OpenAIKey *string `json:"openai_key,omitempty"`
	ElevenKey *string `json:"eleven_key,omitempty"`
}

// SettingsResponse represents user settings in API responses
type SettingsResponse struct {
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	HasOpenAIKey bool      `json:"has_openai_key"`
	HasElevenKey bool      `json:"has_eleven_key"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToSettingsResponse converts a model to response DTO
func ToSettingsResponse(s *model.UserSettings) SettingsResponse {
	return SettingsResponse{
		UserID:       s.UserID,
		Role:         string(s.Role),
		HasOpenAIKey: s.OpenAIKey != "",
		HasElevenKey: s.ElevenKey != "",
		UpdatedAt:    s.UpdatedAt,
	}
}
