package services

import (
	"context"

	"studyforge/internal/api/v1/dto"
	"studyforge/internal/app/auth"
	"studyforge/internal/app/model"
	"studyforge/internal/app/repository"
	"studyforge/internal/app/sharing"
)

// GroupServiceImpl implements the GroupService interface, delegating policy
// and workflow to the sharing service.
type GroupServiceImpl struct {
	sharing  *sharing.Service
	settings repository.SettingsRepository
}

// NewGroupService creates a new group service
func NewGroupService(sharingService *sharing.Service, settings repository.SettingsRepository) GroupService {
	return &GroupServiceImpl{sharing: sharingService, settings: settings}
}

// CreateGroup creates a group owned by the caller, capped by their plan
func (s *GroupServiceImpl) CreateGroup(ctx context.Context, user auth.User, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	group, err := s.sharing.CreateGroup(ctx, user.ID, req.Name, user.Plan)
	if err != nil {
		return nil, err
	}
	resp := dto.ToGroupResponse(group)
	return &resp, nil
}

// ListGroups returns groups the caller owns and groups they belong to
func (s *GroupServiceImpl) ListGroups(ctx context.Context, user auth.User) (*dto.GroupListResponse, error) {
	owned, memberOf, err := s.sharing.ListGroups(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.GroupListResponse{
		Owned:    dto.ToGroupResponses(owned),
		MemberOf: dto.ToGroupResponses(memberOf),
	}, nil
}

// DeleteGroup deletes the group if the caller may
func (s *GroupServiceImpl) DeleteGroup(ctx context.Context, user auth.User, groupID string) error {
	role, err := s.roleFor(ctx, user.ID)
	if err != nil {
		return err
	}
	return s.sharing.DeleteGroup(ctx, user.ID, role, groupID)
}

// RequestToJoin records a user-initiated join request
func (s *GroupServiceImpl) RequestToJoin(ctx context.Context, user auth.User, groupID string) (*dto.JoinRequestResponse, error) {
	req, err := s.sharing.RequestToJoin(ctx, user.ID, groupID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToJoinRequestResponse(req)
	return &resp, nil
}

// InviteUser records an owner-initiated join request for the invited user
func (s *GroupServiceImpl) InviteUser(ctx context.Context, user auth.User, groupID string, req *dto.InviteRequest) (*dto.JoinRequestResponse, error) {
	role, err := s.roleFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	invite, err := s.sharing.InviteUser(ctx, user.ID, role, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToJoinRequestResponse(invite)
	return &resp, nil
}

// ListPendingRequests returns the group's unresolved join requests
func (s *GroupServiceImpl) ListPendingRequests(ctx context.Context, user auth.User, groupID string) ([]dto.JoinRequestResponse, error) {
	role, err := s.roleFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	requests, err := s.sharing.ListPendingRequests(ctx, user.ID, role, groupID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.JoinRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, dto.ToJoinRequestResponse(&requests[i]))
	}
	return responses, nil
}

// RespondToRequest accepts or rejects a pending join request
func (s *GroupServiceImpl) RespondToRequest(ctx context.Context, user auth.User, groupID, requestID string, accept bool) error {
	role, err := s.roleFor(ctx, user.ID)
	if err != nil {
		return err
	}
	return s.sharing.RespondToJoinRequest(ctx, user.ID, role, groupID, requestID, accept)
}

// RemoveMember removes a member from the group
func (s *GroupServiceImpl) RemoveMember(ctx context.Context, user auth.User, groupID, memberID string) error {
	role, err := s.roleFor(ctx, user.ID)
	if err != nil {
		return err
	}
	return s.sharing.RemoveMember(ctx, user.ID, role, groupID, memberID)
}

// LeaveGroup lets the caller leave a group they belong to
func (s *GroupServiceImpl) LeaveGroup(ctx context.Context, user auth.User, groupID string) error {
	return s.sharing.LeaveGroup(ctx, user.ID, groupID)
}

func (s *GroupServiceImpl) roleFor(ctx context.Context, userID string) (model.Role, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return model.RoleUser, err
	}
	return settings.Role, nil
}
