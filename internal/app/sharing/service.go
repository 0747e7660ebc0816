// Package sharing implements group lifecycle, membership, and the join-request
// workflow over the sharing store. Authorization decisions delegate to the
// access package; atomicity (capacity re-check at acceptance) lives in the
// repository transaction.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"studyforge/internal/app/access"
	"studyforge/internal/app/model"
	"studyforge/internal/app/plan"
	"studyforge/internal/app/repository"
)

var (
	// ErrForbidden is returned when the caller lacks the right to perform a
	// group mutation. Group existence is not secret, so this is distinct from
	// not-found.
	ErrForbidden = errors.New("not allowed to perform this group operation")
	// ErrNotAMember is returned when leaving or removing a user who holds no
	// active membership.
	ErrNotAMember = errors.New("user is not an active member of this group")
	// ErrSelfJoin is returned when a group owner asks to join their own group.
	ErrSelfJoin = errors.New("cannot join your own group")
)

// MemberCaps maps a plan tier to the member cap applied to groups created
// under it.
type MemberCaps map[plan.Plan]int

// DefaultMemberCaps mirrors the plans config defaults.
func DefaultMemberCaps() MemberCaps {
	return MemberCaps{plan.Free: 2, plan.Pro: 10, plan.Ultra: 50}
}

// Service is the sharing-group application service.
type Service struct {
	groups repository.GroupRepository
	caps   MemberCaps
	logger *slog.Logger
}

// NewService creates a sharing service.
func NewService(groups repository.GroupRepository, caps MemberCaps, logger *slog.Logger) *Service {
	if caps == nil {
		caps = DefaultMemberCaps()
	}
	return &Service{groups: groups, caps: caps, logger: logger}
}

// CreateGroup creates a group owned by ownerID. The member cap is derived from
// the owner's plan at creation time and fixed thereafter.
func (s *Service) CreateGroup(ctx context.Context, ownerID, name string, ownerPlan plan.Plan) (*model.SharingGroup, error) {
	cap, ok := s.caps[ownerPlan]
	if !ok {
		return nil, fmt.Errorf("no member cap configured for plan %s", ownerPlan)
	}
	group := &model.SharingGroup{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		Name:       name,
		MaxMembers: cap,
	}
	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	s.logger.Info("group created", "group_id", group.ID, "owner_id", ownerID, "max_members", cap)
	return group, nil
}

// ListGroups returns groups the user owns plus groups they are an active
// member of.
func (s *Service) ListGroups(ctx context.Context, userID string) (owned, memberOf []model.SharingGroup, err error) {
	owned, err = s.groups.ListGroupsByOwner(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	memberOf, err = s.groups.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return owned, memberOf, nil
}

// DeleteGroup removes the group and its memberships. Only the group owner or
// the application owner role may delete.
func (s *Service) DeleteGroup(ctx context.Context, userID string, role model.Role, groupID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !access.CanDeleteGroup(userID, role, group) {
		return ErrForbidden
	}
	return s.groups.DeleteGroup(ctx, groupID)
}

// RequestToJoin records a user-initiated join request. At most one pending
// request per user per group; re-requesting after a rejection creates a new
// row.
func (s *Service) RequestToJoin(ctx context.Context, userID, groupID string) (*model.JoinRequest, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID == userID {
		return nil, ErrSelfJoin
	}
	req := &model.JoinRequest{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		RequesterID: userID,
		InitiatedBy: model.InitiatedByUser,
	}
	if err := s.groups.CreateJoinRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// InviteUser records an owner-initiated join request for the invited user.
// Both flows share the join-request record; direction lives in InitiatedBy.
func (s *Service) InviteUser(ctx context.Context, callerID string, role model.Role, groupID, invitedUserID string) (*model.JoinRequest, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageGroup(callerID, role, group) {
		return nil, ErrForbidden
	}
	if invitedUserID == group.OwnerID {
		return nil, ErrSelfJoin
	}
	req := &model.JoinRequest{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		RequesterID: invitedUserID,
		InitiatedBy: model.InitiatedByOwner,
	}
	if err := s.groups.CreateJoinRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// RespondToJoinRequest accepts or rejects a pending request. Acceptance
// re-validates capacity against the live member count inside the store
// transaction, so concurrent accepts and plan downgrades cannot overshoot the
// cap.
func (s *Service) RespondToJoinRequest(ctx context.Context, callerID string, role model.Role, groupID, requestID string, accept bool) error {
	req, err := s.groups.GetJoinRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.GroupID != groupID {
		return repository.ErrRequestNotFound
	}
	group, err := s.groups.GetGroup(ctx, req.GroupID)
	if err != nil {
		return err
	}

	// an invited user may respond to their own invite; anyone else needs
	// group management rights
	invitee := req.InitiatedBy == model.InitiatedByOwner && req.RequesterID == callerID
	if !invitee && !access.CanManageGroup(callerID, role, group) {
		return ErrForbidden
	}

	if !accept {
		return s.groups.RejectJoinRequest(ctx, requestID)
	}

	addedBy := model.AddedByOwner
	if callerID != group.OwnerID && role.Moderator() {
		addedBy = model.AddedByAdmin
	}
	if err := s.groups.AcceptJoinRequest(ctx, requestID, addedBy); err != nil {
		return err
	}
	s.logger.Info("join request accepted",
		"group_id", group.ID, "request_id", requestID, "user_id", req.RequesterID)
	return nil
}

// ListPendingRequests returns the group's pending requests for its managers.
func (s *Service) ListPendingRequests(ctx context.Context, callerID string, role model.Role, groupID string) ([]model.JoinRequest, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageGroup(callerID, role, group) {
		return nil, ErrForbidden
	}
	return s.groups.ListPendingRequests(ctx, groupID)
}

// RemoveMember marks a member as left. Group owner or moderation roles only.
func (s *Service) RemoveMember(ctx context.Context, callerID string, role model.Role, groupID, memberID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !access.CanManageGroup(callerID, role, group) {
		return ErrForbidden
	}
	return s.setLeft(ctx, groupID, memberID)
}

// LeaveGroup lets a member leave unilaterally.
func (s *Service) LeaveGroup(ctx context.Context, userID, groupID string) error {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return err
	}
	return s.setLeft(ctx, groupID, userID)
}

func (s *Service) setLeft(ctx context.Context, groupID, userID string) error {
	member, err := s.groups.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil || member.Status != model.MemberActive {
		return ErrNotAMember
	}
	return s.groups.SetMemberStatus(ctx, groupID, userID, model.MemberLeft)
}
