package services

import (
	"context"

	"studyforge/internal/api/v1/dto"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/repository"
)

// SettingsServiceImpl implements the SettingsService interface
type SettingsServiceImpl struct {
	settings repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settings repository.SettingsRepository) SettingsService {
	return &SettingsServiceImpl{settings: settings}
}

// GetSettings returns the caller's settings, defaults for first-time users
func (s *SettingsServiceImpl) GetSettings(ctx context.Context, user auth.User) (*dto.SettingsResponse, error) {
	settings, err := s.settings.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToSettingsResponse(settings)
	return &resp, nil
}

// UpdateSettings stores vendor credentials for the caller. The role is never
// writable through this endpoint.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, user auth.User, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := s.settings.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	settings.UserID = user.ID
	if req.OpenAIKey != nil {
		settings.OpenAIKey = *req.OpenAIKey
	}
	if req.ElevenKey != nil {
		settings.ElevenKey = *req.ElevenKey
	}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	updated, err := s.settings.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToSettingsResponse(updated)
	return &resp, nil
}
