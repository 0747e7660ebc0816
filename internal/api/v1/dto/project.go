package dto

import (
	"time"

	"studyforge/internal/api/errors"
	"studyforge/internal/app/access"
	"studyforge/internal/app/model"
)

// CreateUploadURLRequest asks for a presigned upload slot
type CreateUploadURLRequest struct {
	FileName string `json:"file_name" binding:"required"`
}

// UploadTicketResponse carries the presigned PUT the client uploads against
type UploadTicketResponse struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateProjectRequest is the upload-completion callback that creates the project
type CreateProjectRequest struct {
	SourceURL   string `json:"source_url" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"min=0"`
	Duration    int    `json:"duration,omitempty" binding:"min=0"`
	Format      string `json:"format,omitempty"`
	Kind        string `json:"kind" binding:"required,oneof=audio document"`
	DisplayName string `json:"display_name,omitempty" binding:"max=200"`
	Category    string `json:"category,omitempty" binding:"max=100"`
	Subcategory string `json:"subcategory,omitempty" binding:"max=100"`
}

// Validate performs domain-specific validation
func (r *CreateProjectRequest) Validate() error {
	validationErrors := make(map[string]string)

	if model.ContentKind(r.Kind) == model.KindDocument && r.Duration > 0 {
		validationErrors["duration"] = "documents do not carry a duration"
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Invalid project request", validationErrors)
	}
	return nil
}

// UpdateProjectRequest edits user-facing project metadata. Empty fields keep
// their stored value.
type UpdateProjectRequest struct {
	DisplayName string `json:"display_name,omitempty" binding:"max=200"`
	Category    string `json:"category,omitempty" binding:"max=100"`
	Subcategory string `json:"subcategory,omitempty" binding:"max=100"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          string                 `json:"id"`
	OwnerID     string                 `json:"owner_id"`
	FileName    string                 `json:"file_name"`
	FileSize    int64                  `json:"file_size,omitempty"`
	Duration    int                    `json:"duration,omitempty"`
	Format      string                 `json:"format,omitempty"`
	Kind        string                 `json:"kind"`
	DisplayName string                 `json:"display_name,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Subcategory string                 `json:"subcategory,omitempty"`
	Status      string                 `json:"status"`
	JobStatus   model.JobStatus        `json:"job_status"`
	Error       *model.ProcessingError `json:"error,omitempty"`
	JobErrors   map[string]string      `json:"job_errors,omitempty"`
	Content     model.Content          `json:"content"`
	Access      string                 `json:"access"`
	Shared      bool                   `json:"shared"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ProjectListResponse is the list envelope
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

// ToProjectResponse converts a model to response DTO. Shared marks projects
// the caller can read but does not own, including moderation reads.
func ToProjectResponse(p *model.Project, level access.Level) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		FileName:    p.FileName,
		FileSize:    p.FileSize,
		Duration:    p.Duration,
		Format:      p.Format,
		Kind:        string(p.Kind),
		DisplayName: p.DisplayName,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Status:      string(p.Status),
		JobStatus:   p.JobStatus,
		Error:       p.Error,
		JobErrors:   p.JobErrors,
		Content:     p.Content,
		Access:      level.String(),
		Shared:      level != access.Owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
