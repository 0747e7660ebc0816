package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyforge/internal/app/model"
)

// SettingsRepository is the postgres implementation of repository.SettingsRepository.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository wraps an open postgres handle.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Close() error {
	return r.db.Close()
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	var s model.UserSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, role, openai_key, eleven_key, updated_at
		FROM user_settings WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.Role, &s.OpenAIKey, &s.ElevenKey, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return &model.UserSettings{UserID: userID, Role: model.RoleUser}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings *model.UserSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	if settings.Role == "" {
		settings.Role = model.RoleUser
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, role, openai_key, eleven_key, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET role = EXCLUDED.role, openai_key = EXCLUDED.openai_key,
			eleven_key = EXCLUDED.eleven_key, updated_at = EXCLUDED.updated_at`,
		settings.UserID, settings.Role, settings.OpenAIKey, settings.ElevenKey, settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
