package model

import (
	"time"
)

// MemberStatus is the lifecycle status of a group membership row.
type MemberStatus string

const (
	MemberActive MemberStatus = "active"
	MemberLeft   MemberStatus = "left"
)

// MemberAddedBy records which side created the membership.
type MemberAddedBy string

const (
	AddedByOwner MemberAddedBy = "owner"
	AddedByAdmin MemberAddedBy = "admin"
)

// RequestStatus is the join-request state machine: pending is the only
// non-terminal state.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// RequestInitiator distinguishes a user-initiated ask from an owner invite.
// Both flows share the same record type.
type RequestInitiator string

const (
	InitiatedByUser  RequestInitiator = "user"
	InitiatedByOwner RequestInitiator = "owner"
)

// SharingGroup grants its active members read access to the owner's projects.
// MaxMembers is derived from the owner's plan at creation time and fixed
// thereafter.
type SharingGroup struct {
	ID         string    `json:"id" db:"id"`
	OwnerID    string    `json:"owner_id" db:"owner_id"`
	Name       string    `json:"name,omitempty" db:"name"`
	MaxMembers int       `json:"max_members" db:"max_members"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for SharingGroup
func (SharingGroup) TableName() string {
	return "sharing_groups"
}

// GroupMember is one user's membership in one group. Only active members see
// the owner's projects.
type GroupMember struct {
	GroupID  string        `json:"group_id" db:"group_id"`
	UserID   string        `json:"user_id" db:"user_id"`
	Status   MemberStatus  `json:"status" db:"status"`
	AddedBy  MemberAddedBy `json:"added_by" db:"added_by"`
	JoinedAt time.Time     `json:"joined_at" db:"joined_at"`
}

// TableName returns the table name for GroupMember
func (GroupMember) TableName() string {
	return "group_members"
}

// JoinRequest is the single record type behind both "user asks to join" and
// "owner invites user". A user holds at most one pending request per group.
type JoinRequest struct {
	ID          string           `json:"id" db:"id"`
	GroupID     string           `json:"group_id" db:"group_id"`
	RequesterID string           `json:"requester_id" db:"requester_id"`
	Status      RequestStatus    `json:"status" db:"status"`
	InitiatedBy RequestInitiator `json:"initiated_by" db:"initiated_by"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty" db:"resolved_at"`
}

// TableName returns the table name for JoinRequest
func (JoinRequest) TableName() string {
	return "join_requests"
}
