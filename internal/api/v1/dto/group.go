package dto

import (
	"time"

	"studyforge/internal/app/model"
)

// CreateGroupRequest creates a sharing group owned by the caller
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// GroupResponse represents a sharing group in API responses
type GroupResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name,omitempty"`
	MaxMembers int       `json:"max_members"`
	CreatedAt  time.Time `json:"created_at"`
}

// GroupListResponse splits groups the caller owns from groups they belong to
type GroupListResponse struct {
	Owned    []GroupResponse `json:"owned"`
	MemberOf []GroupResponse `json:"member_of"`
}

// InviteRequest invites a user into the group
type InviteRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// RespondToRequestRequest accepts or rejects a pending join request
type RespondToRequestRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// JoinRequestResponse represents a join request in API responses
type JoinRequestResponse struct {
	ID          string     `json:"id"`
	GroupID     string     `json:"group_id"`
	RequesterID string     `json:"requester_id"`
	Status      string     `json:"status"`
	InitiatedBy string     `json:"initiated_by"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// ToGroupResponse converts a model to response DTO
func ToGroupResponse(g *model.SharingGroup) GroupResponse {
	return GroupResponse{
		ID:         g.ID,
		OwnerID:    g.OwnerID,
		Name:       g.Name,
		MaxMembers: g.MaxMembers,
		CreatedAt:  g.CreatedAt,
	}
}

// ToGroupResponses converts a slice of models
func ToGroupResponses(groups []model.SharingGroup) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, ToGroupResponse(&groups[i]))
	}
	return out
}

// ToJoinRequestResponse converts a model to response DTO
func ToJoinRequestResponse(r *model.JoinRequest) JoinRequestResponse {
	return JoinRequestResponse{
		ID:          r.ID,
		GroupID:     r.GroupID,
		RequesterID: r.RequesterID,
		Status:      string(r.Status),
		InitiatedBy: string(r.InitiatedBy),
		CreatedAt:   r.CreatedAt,
		ResolvedAt:  r.ResolvedAt,
	}
}
