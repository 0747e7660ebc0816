package model

import (
	"time"
)

// ProjectStatus is the overall lifecycle status of a project.
type ProjectStatus string

const (
	ProjectUploaded   ProjectStatus = "uploaded"
	ProjectProcessing ProjectStatus = "processing"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectFailed     ProjectStatus = "failed"
)

// PhaseStatus tracks one pipeline phase independently of the overall status.
type PhaseStatus string

const (
	PhasePending   PhaseStatus = "pending"
	PhaseRunning   PhaseStatus = "running"
	PhaseCompleted PhaseStatus = "completed"
	PhaseFailed    PhaseStatus = "failed"
)

// ContentKind distinguishes audio/video uploads from document uploads.
// Some generation jobs only apply to audio sources.
type ContentKind string

const (
	KindAudio    ContentKind = "audio"
	KindDocument ContentKind = "document"
)

// JobStatus holds the two independent phase tracks. contentGeneration must not
// leave pending until transcription reaches completed.
type JobStatus struct {
	Transcription     PhaseStatus `json:"transcription" db:"transcription_status"`
	ContentGeneration PhaseStatus `json:"content_generation" db:"content_generation_status"`
}

// JobStatusPatch is a narrow merge patch: nil fields keep their stored value.
type JobStatusPatch struct {
	Transcription     *PhaseStatus `json:"transcription,omitempty"`
	ContentGeneration *PhaseStatus `json:"content_generation,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p JobStatusPatch) Empty() bool {
	return p.Transcription == nil && p.ContentGeneration == nil
}

// ProcessingError is the terminal top-level failure record. It is set only when
// the overall status flips to failed and is never cleared automatically.
type ProcessingError struct {
	Message    string    `json:"message"`
	Step       string    `json:"step"`
	Details    string    `json:"details,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Project represents one uploaded media or document input and everything the
// pipeline has produced for it so far.
type Project struct {
	ID          string      `json:"id" db:"id"`
	OwnerID     string      `json:"owner_id" db:"owner_id"`
	SourceURL   string      `json:"source_url" db:"source_url"`
	FileName    string      `json:"file_name" db:"file_name"`
	FileSize    int64       `json:"file_size" db:"file_size"`
	Duration    int         `json:"duration,omitempty" db:"duration"`
	Format      string      `json:"format" db:"format"`
	Kind        ContentKind `json:"kind" db:"kind"`
	DisplayName string      `json:"display_name" db:"display_name"`
	Category    string      `json:"category,omitempty" db:"category"`
	Subcategory string      `json:"subcategory,omitempty" db:"subcategory"`

	Status    ProjectStatus    `json:"status" db:"status"`
	JobStatus JobStatus        `json:"job_status"`
	Error     *ProcessingError `json:"error,omitempty" db:"error"`

	// JobErrors maps an individual generation job name to its error message,
	// independent of the top-level Error. Some jobs in a phase can fail while
	// their siblings succeed.
	JobErrors map[string]string `json:"job_errors,omitempty" db:"job_errors"`

	Content Content `json:"content"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Deleted reports whether the project has been soft-deleted.
func (p *Project) Deleted() bool {
	return p.DeletedAt != nil
}
