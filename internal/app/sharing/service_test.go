package sharing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/internal/app/model"
	"studyforge/internal/app/plan"
	"studyforge/internal/app/repository"
	"studyforge/internal/app/repository/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.GroupRepository) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	groups := sqlite.NewGroupRepository(db)
	return NewService(groups, MemberCaps{plan.Free: 2, plan.Pro: 10, plan.Ultra: 50}, slog.Default()), groups
}

func TestCreateGroup_CapFollowsOwnerPlan(t *testing.T) {
	svc, _ := newTestService(t)

	free, err := svc.CreateGroup(context.Background(), "alice", "study buddies", plan.Free)
	require.NoError(t, err)
	assert.Equal(t, 2, free.MaxMembers)

	ultra, err := svc.CreateGroup(context.Background(), "alice", "cohort", plan.Ultra)
	require.NoError(t, err)
	assert.Equal(t, 50, ultra.MaxMembers)
}

func TestJoinRequestLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "", plan.Pro)
	require.NoError(t, err)

	req, err := svc.RequestToJoin(ctx, "bob", group.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, req.Status)
	assert.Equal(t, model.InitiatedByUser, req.InitiatedBy)

	// at most one non-terminal request per user per group
	_, err = svc.RequestToJoin(ctx, "bob", group.ID)
	assert.ErrorIs(t, err, repository.ErrRequestPending)

	require.NoError(t, svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, group.ID, req.ID, false))

	// rejected is terminal, re-requesting creates a fresh row
	again, err := svc.RequestToJoin(ctx, "bob", group.ID)
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, again.ID)

	require.NoError(t, svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, group.ID, again.ID, true))

	// accepted is terminal too
	err = svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, group.ID, again.ID, true)
	assert.ErrorIs(t, err, repository.ErrRequestNotFound)
}

func TestRespondToJoinRequest_CapacityCheckedAtAcceptance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "", plan.Free) // cap 2
	require.NoError(t, err)

	for _, user := range []string{"bob", "carol"} {
		req, err := svc.RequestToJoin(ctx, user, group.ID)
		require.NoError(t, err)
		require.NoError(t, svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, group.ID, req.ID, true))
	}

	// third request is pending and valid, but the group is at capacity
	third, err := svc.RequestToJoin(ctx, "dave", group.ID)
	require.NoError(t, err)
	err = svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, group.ID, third.ID, true)
	assert.ErrorIs(t, err, repository.ErrGroupFull)
}

func TestRespondToJoinRequest_RequestMustBelongToGroup(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	groupA, err := svc.CreateGroup(ctx, "alice", "", plan.Pro)
	require.NoError(t, err)
	groupB, err := svc.CreateGroup(ctx, "alice", "", plan.Pro)
	require.NoError(t, err)

	req, err := svc.RequestToJoin(ctx, "bob", groupA.ID)
	require.NoError(t, err)

	// a request id only resolves under the group it was filed against
	err = svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, groupB.ID, req.ID, true)
	assert.ErrorIs(t, err, repository.ErrRequestNotFound)

	require.NoError(t, svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, groupA.ID, req.ID, true))
}

func TestInviteFlow(t *testing.T) {
	svc, groups := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "", plan.Pro)
	require.NoError(t, err)

	// only managers may invite
	_, err = svc.InviteUser(ctx, "bob", model.RoleUser, group.ID, "carol")
	assert.ErrorIs(t, err, ErrForbidden)

	invite, err := svc.InviteUser(ctx, "alice", model.RoleUser, group.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, model.InitiatedByOwner, invite.InitiatedBy)

	// the invited user may accept their own invite
	require.NoError(t, svc.RespondToJoinRequest(ctx, "carol", model.RoleUser, group.ID, invite.ID, true))

	member, err := groups.GetMember(ctx, group.ID, "carol")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, model.MemberActive, member.Status)
}

func TestLeaveAndRemove(t *testing.T) {
	svc, groups := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "", plan.Pro)
	require.NoError(t, err)
	for _, user := range []string{"bob", "carol"} {
		req, err := svc.RequestToJoin(ctx, user, group.ID)
		require.NoError(t, err)
		require.NoError(t, svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, group.ID, req.ID, true))
	}

	// a member may always leave unilaterally
	require.NoError(t, svc.LeaveGroup(ctx, "bob", group.ID))
	shared, err := groups.IsSharedWith(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, shared)

	// leaving twice is an error
	assert.ErrorIs(t, svc.LeaveGroup(ctx, "bob", group.ID), ErrNotAMember)

	// non-managers cannot remove members
	assert.ErrorIs(t, svc.RemoveMember(ctx, "carol", model.RoleUser, group.ID, "carol"), ErrForbidden)
	// admins can
	require.NoError(t, svc.RemoveMember(ctx, "staff", model.RoleAdmin, group.ID, "carol"))
}

func TestDeleteGroup_Authorization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "", plan.Pro)
	require.NoError(t, err)

	// admin role may manage but not delete
	assert.ErrorIs(t, svc.DeleteGroup(ctx, "staff", model.RoleAdmin, group.ID), ErrForbidden)
	require.NoError(t, svc.DeleteGroup(ctx, "alice", model.RoleUser, group.ID))
	assert.ErrorIs(t, svc.DeleteGroup(ctx, "alice", model.RoleUser, group.ID), repository.ErrGroupNotFound)
}

func TestRejoinAfterLeaving(t *testing.T) {
	svc, groups := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "", plan.Pro)
	require.NoError(t, err)

	req, err := svc.RequestToJoin(ctx, "bob", group.ID)
	require.NoError(t, err)
	require.NoError(t, svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, group.ID, req.ID, true))
	require.NoError(t, svc.LeaveGroup(ctx, "bob", group.ID))

	// re-joining reactivates the same membership row
	req2, err := svc.RequestToJoin(ctx, "bob", group.ID)
	require.NoError(t, err)
	require.NoError(t, svc.RespondToJoinRequest(ctx, "alice", model.RoleUser, group.ID, req2.ID, true))

	member, err := groups.GetMember(ctx, group.ID, "bob")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, model.MemberActive, member.Status)
}
