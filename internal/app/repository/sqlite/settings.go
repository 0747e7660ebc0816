package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyforge/internal/app/model"
)

// SettingsRepository is the sqlite implementation of repository.SettingsRepository.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository wraps an open sqlite handle.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Close() error {
	return r.db.Close()
}

// Get returns default settings for users without a stored row.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	var s model.UserSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, role, openai_key, eleven_key, updated_at
		FROM user_settings WHERE user_id = ?`, userID).
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
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id)
		DO UPDATE SET role = excluded.role, openai_key = excluded.openai_key,
			eleven_key = excluded.eleven_key, updated_at = excluded.updated_at`,
		settings.UserID, settings.Role, settings.OpenAIKey, settings.ElevenKey, settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
