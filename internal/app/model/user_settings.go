package model

import (
	"time"
)

// Role is the application-level super-role, distinct from the plan tier.
// RoleOwner gets read-side moderation access over other users' projects but is
// never sufficient to edit them.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// UserSettings stores per-user application settings, including optional
// user-supplied credentials for external vendors. The credentials are held
// for the processing workers; nothing in this service calls the vendors
// directly.
type UserSettings struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Role      Role      `json:"role" db:"role"`
	OpenAIKey string    `json:"-" db:"openai_key"`
	ElevenKey string    `json:"-" db:"eleven_key"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for UserSettings
func (UserSettings) TableName() string {
	return "user_settings"
}

// Moderator reports whether the role carries moderation privileges.
func (r Role) Moderator() bool {
	return r == RoleAdmin || r == RoleOwner
}
