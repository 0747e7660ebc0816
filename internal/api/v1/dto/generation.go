package dto

import (
	"studyforge/internal/api/errors"
	"studyforge/internal/app/model"
)

// RetryJobRequest re-runs one generation job for a project
type RetryJobRequest struct {
	Job        string `json:"job" binding:"required"`
	Difficulty string `json:"difficulty,omitempty" binding:"omitempty,oneof=easy medium hard"`
}

// BackfillResponse lists the jobs dispatched by a plan-upgrade backfill
type BackfillResponse struct {
	Jobs []string `json:"jobs"`
}

// JobStatusUpdateRequest is the worker callback that advances phase statuses.
// Absent phases keep their stored value.
type JobStatusUpdateRequest struct {
	Transcription     *string `json:"transcription,omitempty" binding:"omitempty,oneof=pending running completed failed"`
	ContentGeneration *string `json:"content_generation,omitempty" binding:"omitempty,oneof=pending running completed failed"`
}

// Validate performs domain-specific validation
func (r *JobStatusUpdateRequest) Validate() error {
	if r.Transcription == nil && r.ContentGeneration == nil {
		return errors.NewValidationError("Invalid status update", map[string]string{
			"request": "at least one phase must be present",
		})
	}
	return nil
}

// ToPatch converts the request to a job-status merge patch
func (r *JobStatusUpdateRequest) ToPatch() model.JobStatusPatch {
	patch := model.JobStatusPatch{}
	if r.Transcription != nil {
		s := model.PhaseStatus(*r.Transcription)
		patch.Transcription = &s
	}
	if r.ContentGeneration != nil {
		s := model.PhaseStatus(*r.ContentGeneration)
		patch.ContentGeneration = &s
	}
	return patch
}

// SaveContentRequest is the worker callback that lands one generation batch.
// Slots absent from the patch are left untouched.
type SaveContentRequest struct {
	model.ContentPatch
}

// Validate performs domain-specific validation
func (r *SaveContentRequest) Validate() error {
	if r.ContentPatch.Empty() {
		return errors.NewValidationError("Invalid content batch", map[string]string{
			"request": "at least one content slot must be present",
		})
	}
	return nil
}

// RecordErrorRequest is the worker callback for a fatal pipeline failure
type RecordErrorRequest struct {
	Message string `json:"message" binding:"required"`
	Step    string `json:"step" binding:"required"`
	Details string `json:"details,omitempty"`
}

// JobErrorsRequest is the worker callback for per-job failures. Entries merge
// into the stored map without touching sibling jobs.
type JobErrorsRequest struct {
	Errors map[string]string `json:"errors" binding:"required"`
}

// Validate performs domain-specific validation
func (r *JobErrorsRequest) Validate() error {
	if len(r.Errors) == 0 {
		return errors.NewValidationError("Invalid job errors", map[string]string{
			"errors": "must not be empty",
		})
	}
	return nil
}
