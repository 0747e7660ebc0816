// Package access consolidates every ownership/role/membership rule into one
// capability resolution, so each operation asks the same question the same way.
package access

import (
	"context"

	"studyforge/internal/app/model"
	"studyforge/internal/app/repository"
)

// Level is the capability a user holds over a project, in descending order of
// privilege.
type Level int

const (
	// Denied means no access. Callers must surface this identically to a
	// nonexistent project id.
	Denied Level = iota
	// SharedRead is read-only access through an active sharing-group membership.
	SharedRead
	// ModeratorRead is read-only compliance access via the application owner
	// role, flagged as shared-but-not-owned regardless of groups.
	ModeratorRead
	// Owner is the project owner: full read and write.
	Owner
)

func (l Level) String() string {
	switch l {
	case Owner:
		return "owner"
	case ModeratorRead:
		return "moderator_read"
	case SharedRead:
		return "shared_read"
	default:
		return "denied"
	}
}

// CanRead reports whether the level permits reading project data.
func (l Level) CanRead() bool {
	return l != Denied
}

// CanEdit reports whether the level permits mutating project fields. Only the
// literal owner qualifies; the moderation role deliberately does not.
func (l Level) CanEdit() bool {
	return l == Owner
}

// CanDelete reports whether the level permits deleting the project. Moderation
// delete is allowed while moderation edit is not; that asymmetry is policy.
func (l Level) CanDelete() bool {
	return l == Owner || l == ModeratorRead
}

// Evaluator resolves capabilities from ownership, role, and group membership.
type Evaluator struct {
	groups repository.GroupRepository
}

// NewEvaluator creates an access evaluator backed by the sharing store.
func NewEvaluator(groups repository.GroupRepository) *Evaluator {
	return &Evaluator{groups: groups}
}

// ProjectAccess resolves the capability userID holds over project, in priority
// order: ownership, moderation role, shared group membership, denied.
// Membership is read fresh on every call; there is no cached capability.
func (e *Evaluator) ProjectAccess(ctx context.Context, userID string, role model.Role, project *model.Project) (Level, error) {
	if project == nil || project.Deleted() {
		return Denied, nil
	}
	if project.OwnerID == userID {
		return Owner, nil
	}
	if role == model.RoleOwner {
		return ModeratorRead, nil
	}
	shared, err := e.groups.IsSharedWith(ctx, project.OwnerID, userID)
	if err != nil {
		return Denied, err
	}
	if shared {
		return SharedRead, nil
	}
	return Denied, nil
}

// CanManageGroup reports whether the user may invite/add/remove members and
// respond to join requests: the group owner, or the admin/owner roles.
func CanManageGroup(userID string, role model.Role, group *model.SharingGroup) bool {
	return group.OwnerID == userID || role.Moderator()
}

// CanDeleteGroup reports whether the user may delete the group: only the group
// owner or the application owner role.
func CanDeleteGroup(userID string, role model.Role, group *model.SharingGroup) bool {
	return group.OwnerID == userID || role == model.RoleOwner
}
