package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id                        TEXT PRIMARY KEY,
    owner_id                  TEXT NOT NULL,
    source_url                TEXT NOT NULL,
    file_name                 TEXT NOT NULL,
    file_size                 INTEGER NOT NULL DEFAULT 0,
    duration                  INTEGER NOT NULL DEFAULT 0,
    format                    TEXT NOT NULL DEFAULT '',
    kind                      TEXT NOT NULL,
    display_name              TEXT NOT NULL DEFAULT '',
    category                  TEXT NOT NULL DEFAULT '',
    subcategory               TEXT NOT NULL DEFAULT '',
    status                    TEXT NOT NULL DEFAULT 'uploaded',
    transcription_status      TEXT NOT NULL DEFAULT 'pending',
    content_generation_status TEXT NOT NULL DEFAULT 'pending',
    error                     TEXT,
    job_errors                TEXT,
    transcript                TEXT,
    summary                   TEXT,
    key_moments               TEXT,
    titles                    TEXT,
    social_posts              TEXT,
    hashtags                  TEXT,
    slide_outline             TEXT,
    youtube_timestamps        TEXT,
    quiz                      TEXT,
    flashcard_set_id          TEXT,
    engagement_pack           TEXT,
    clinical_scenarios        TEXT,
    created_at                TIMESTAMP NOT NULL,
    updated_at                TIMESTAMP NOT NULL,
    deleted_at                TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id, deleted_at);

CREATE TABLE IF NOT EXISTS sharing_groups (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL,
    name        TEXT NOT NULL DEFAULT '',
    max_members INTEGER NOT NULL,
    created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_groups_owner ON sharing_groups(owner_id);

CREATE TABLE IF NOT EXISTS group_members (
    group_id  TEXT NOT NULL,
    user_id   TEXT NOT NULL,
    status    TEXT NOT NULL DEFAULT 'active',
    added_by  TEXT NOT NULL DEFAULT 'owner',
    joined_at TIMESTAMP NOT NULL,
    PRIMARY KEY (group_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_members_user ON group_members(user_id, status);

CREATE TABLE IF NOT EXISTS join_requests (
    id           TEXT PRIMARY KEY,
    group_id     TEXT NOT NULL,
    requester_id TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'pending',
    initiated_by TEXT NOT NULL,
    created_at   TIMESTAMP NOT NULL,
    resolved_at  TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_requests_group ON join_requests(group_id, status);

CREATE TABLE IF NOT EXISTS user_settings (
    user_id    TEXT PRIMARY KEY,
    role       TEXT NOT NULL DEFAULT 'user',
    openai_key TEXT NOT NULL DEFAULT '',
    eleven_key TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP NOT NULL
);
`

// Open opens (or creates) the sqlite database at dbFilePath and ensures the
// schema exists.
func Open(dbFilePath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// shared-cache sqlite serializes writers; a single connection avoids
	// SQLITE_BUSY churn under concurrent phase updates
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}
