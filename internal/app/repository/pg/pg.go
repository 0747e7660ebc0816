package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open connects to postgres with the given DSN and ensures the schema exists.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id                        TEXT PRIMARY KEY,
    owner_id                  TEXT NOT NULL,
    source_url                TEXT NOT NULL,
    file_name                 TEXT NOT NULL,
    file_size                 BIGINT NOT NULL DEFAULT 0,
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
    created_at                TIMESTAMPTZ NOT NULL,
    updated_at                TIMESTAMPTZ NOT NULL,
    deleted_at                TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id, deleted_at);

CREATE TABLE IF NOT EXISTS sharing_groups (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL,
    name        TEXT NOT NULL DEFAULT '',
    max_members INTEGER NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id  TEXT NOT NULL,
    user_id   TEXT NOT NULL,
    status    TEXT NOT NULL DEFAULT 'active',
    added_by  TEXT NOT NULL DEFAULT 'owner',
    joined_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS join_requests (
    id           TEXT PRIMARY KEY,
    group_id     TEXT NOT NULL,
    requester_id TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'pending',
    initiated_by TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    resolved_at  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS user_settings (
    user_id    TEXT PRIMARY KEY,
    role       TEXT NOT NULL DEFAULT 'user',
    openai_key TEXT NOT NULL DEFAULT '',
    eleven_key TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL
);
`
