// Package repository defines the persistence interfaces for projects, sharing
// groups, and user settings, with interchangeable sqlite and postgres
// implementations.
package repository

import (
	"context"
	"errors"

	"studyforge/internal/app/model"
)

// ErrProjectNotFound is returned both for nonexistent ids and for projects the
// caller may not see. Keeping a single sentinel avoids leaking which ids exist.
var ErrProjectNotFound = errors.New("project not found")

// ErrPhaseOrder is returned when a job-status patch would start content
// generation before transcription has completed.
var ErrPhaseOrder = errors.New("content generation cannot start before transcription completes")

// ErrGroupNotFound is returned for nonexistent groups. Group existence is not
// secret, so access failures use explicit forbidden errors instead.
var ErrGroupNotFound = errors.New("group not found")

// ErrRequestNotFound is returned for nonexistent or already-resolved join requests.
var ErrRequestNotFound = errors.New("join request not found")

// ErrRequestPending is returned when a user already holds a pending request
// for the group.
var ErrRequestPending = errors.New("a join request for this group is already pending")

// ErrGroupFull is returned when accepting a request would exceed the group's
// member cap. The count is re-checked inside the accept transaction.
var ErrGroupFull = errors.New("group has reached its member limit")

// ProjectRepository is the authoritative store for project lifecycle,
// transcript, generated content, and error state. All mutations are narrow
// merge patches applied inside per-row transactions; nothing here overwrites a
// whole row.
type ProjectRepository interface {
	Close() error

	Create(ctx context.Context, project *model.Project) error

	// GetByID returns ErrProjectNotFound for unknown ids and for soft-deleted
	// projects.
	GetByID(ctx context.Context, id string) (*model.Project, error)

	// ListByOwners returns the non-deleted projects of every given owner,
	// newest first.
	ListByOwners(ctx context.Context, ownerIDs []string) ([]model.Project, error)

	// CountByOwner counts an owner's projects for quota checks. When
	// includeDeleted is true soft-deleted rows are counted too (free-tier
	// lifetime quotas).
	CountByOwner(ctx context.Context, ownerID string, includeDeleted bool) (int, error)

	UpdateMetadata(ctx context.Context, id, displayName, category, subcategory string) error

	UpdateStatus(ctx context.Context, id string, status model.ProjectStatus) error

	// UpdateJobStatus applies a narrow merge: phases absent from the patch keep
	// their stored value. Implemented as read-modify-write in a transaction so
	// concurrent phase updates never clobber one another.
	UpdateJobStatus(ctx context.Context, id string, patch model.JobStatusPatch) error

	// SaveContent writes every produced slot of one generation fan-out in a
	// single statement so readers never observe a torn batch. Absent slots are
	// untouched.
	SaveContent(ctx context.Context, id string, patch *model.ContentPatch) error

	// RecordError sets the top-level error and flips the overall status to
	// failed. The error is never cleared automatically.
	RecordError(ctx context.Context, id string, procErr *model.ProcessingError) error

	// SaveJobErrors merges per-job error messages into the sparse job-error
	// map without touching sibling entries.
	SaveJobErrors(ctx context.Context, id string, jobErrors map[string]string) error

	SoftDelete(ctx context.Context, id string) error
}

// GroupRepository is the sharing store: groups, memberships, join requests.
type GroupRepository interface {
	Close() error

	CreateGroup(ctx context.Context, group *model.SharingGroup) error
	GetGroup(ctx context.Context, id string) (*model.SharingGroup, error)
	ListGroupsByOwner(ctx context.Context, ownerID string) ([]model.SharingGroup, error)
	ListGroupsByMember(ctx context.Context, userID string) ([]model.SharingGroup, error)
	DeleteGroup(ctx context.Context, id string) error

	// SharedOwnerIDs returns the owners whose projects the user may read by
	// virtue of active group membership.
	SharedOwnerIDs(ctx context.Context, userID string) ([]string, error)

	// IsSharedWith reports whether userID is an active member of any group
	// owned by ownerID.
	IsSharedWith(ctx context.Context, ownerID, userID string) (bool, error)

	GetMember(ctx context.Context, groupID, userID string) (*model.GroupMember, error)
	ActiveMemberCount(ctx context.Context, groupID string) (int, error)
	SetMemberStatus(ctx context.Context, groupID, userID string, status model.MemberStatus) error

	// CreateJoinRequest inserts a pending request; returns ErrRequestPending if
	// the user already holds one for the group.
	CreateJoinRequest(ctx context.Context, req *model.JoinRequest) error
	GetJoinRequest(ctx context.Context, id string) (*model.JoinRequest, error)
	ListPendingRequests(ctx context.Context, groupID string) ([]model.JoinRequest, error)

	// AcceptJoinRequest atomically re-checks capacity, flips the request to
	// accepted, and creates or reactivates the membership row. Returns
	// ErrGroupFull when the cap has been reached and ErrRequestNotFound when
	// the request is missing or already resolved.
	AcceptJoinRequest(ctx context.Context, requestID string, addedBy model.MemberAddedBy) error

	RejectJoinRequest(ctx context.Context, requestID string) error
}

// SettingsRepository stores per-user application settings.
type SettingsRepository interface {
	Close() error

	// Get returns default settings (role user) for unknown users.
	Get(ctx context.Context, userID string) (*model.UserSettings, error)
	Upsert(ctx context.Context, settings *model.UserSettings) error
}
