package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyforge/internal/app/model"
	"studyforge/internal/app/repository"
)

// GroupRepository is the sqlite implementation of repository.GroupRepository.
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository wraps an open sqlite handle.
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Close() error {
	return r.db.Close()
}

func (r *GroupRepository) CreateGroup(ctx context.Context, group *model.SharingGroup) error {
	group.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sharing_groups (id, owner_id, name, max_members, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		group.ID, group.OwnerID, group.Name, group.MaxMembers, group.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (r *GroupRepository) GetGroup(ctx context.Context, id string) (*model.SharingGroup, error) {
	var g model.SharingGroup
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, max_members, created_at FROM sharing_groups WHERE id = ?`, id).
		Scan(&g.ID, &g.OwnerID, &g.Name, &g.MaxMembers, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query group: %w", err)
	}
	return &g, nil
}

func (r *GroupRepository) ListGroupsByOwner(ctx context.Context, ownerID string) ([]model.SharingGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, max_members, created_at
		FROM sharing_groups WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query groups by owner: %w", err)
	}
	defer rows.Close()
	return scanGroups(rows)
}

func (r *GroupRepository) ListGroupsByMember(ctx context.Context, userID string) ([]model.SharingGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.owner_id, g.name, g.max_members, g.created_at
		FROM sharing_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ? AND m.status = ?
		ORDER BY g.created_at DESC`, userID, model.MemberActive)
	if err != nil {
		return nil, fmt.Errorf("query groups by member: %w", err)
	}
	defer rows.Close()
	return scanGroups(rows)
}

func (r *GroupRepository) DeleteGroup(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin group delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM sharing_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrGroupNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("delete group members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM join_requests WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("delete group requests: %w", err)
	}
	return tx.Commit()
}

func (r *GroupRepository) SharedOwnerIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT g.owner_id
		FROM sharing_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ? AND m.status = ?`, userID, model.MemberActive)
	if err != nil {
		return nil, fmt.Errorf("query shared owners: %w", err)
	}
	defer rows.Close()

	owners := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner id: %w", err)
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

func (r *GroupRepository) IsSharedWith(ctx context.Context, ownerID, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM sharing_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE g.owner_id = ? AND m.user_id = ? AND m.status = ?`,
		ownerID, userID, model.MemberActive).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query shared access: %w", err)
	}
	return count > 0, nil
}

func (r *GroupRepository) GetMember(ctx context.Context, groupID, userID string) (*model.GroupMember, error) {
	var m model.GroupMember
	err := r.db.QueryRowContext(ctx, `
		SELECT group_id, user_id, status, added_by, joined_at
		FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID).
		Scan(&m.GroupID, &m.UserID, &m.Status, &m.AddedBy, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return &m, nil
}

func (r *GroupRepository) ActiveMemberCount(ctx context.Context, groupID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_members WHERE group_id = ? AND status = ?`,
		groupID, model.MemberActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

func (r *GroupRepository) SetMemberStatus(ctx context.Context, groupID, userID string, status model.MemberStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE group_members SET status = ? WHERE group_id = ? AND user_id = ?`,
		status, groupID, userID)
	if err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) CreateJoinRequest(ctx context.Context, req *model.JoinRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin join request: %w", err)
	}
	defer tx.Rollback()

	var pending int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM join_requests
		WHERE group_id = ? AND requester_id = ? AND status = ?`,
		req.GroupID, req.RequesterID, model.RequestPending).Scan(&pending)
	if err != nil {
		return fmt.Errorf("check pending request: %w", err)
	}
	if pending > 0 {
		return repository.ErrRequestPending
	}

	req.Status = model.RequestPending
	req.CreatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO join_requests (id, group_id, requester_id, status, initiated_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID, req.GroupID, req.RequesterID, req.Status, req.InitiatedBy, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert join request: %w", err)
	}
	return tx.Commit()
}

func (r *GroupRepository) GetJoinRequest(ctx context.Context, id string) (*model.JoinRequest, error) {
	var req model.JoinRequest
	var resolvedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, group_id, requester_id, status, initiated_by, created_at, resolved_at
		FROM join_requests WHERE id = ?`, id).
		Scan(&req.ID, &req.GroupID, &req.RequesterID, &req.Status, &req.InitiatedBy,
			&req.CreatedAt, &resolvedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query join request: %w", err)
	}
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	return &req, nil
}

func (r *GroupRepository) ListPendingRequests(ctx context.Context, groupID string) ([]model.JoinRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, group_id, requester_id, status, initiated_by, created_at, resolved_at
		FROM join_requests WHERE group_id = ? AND status = ? ORDER BY created_at`,
		groupID, model.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("query pending requests: %w", err)
	}
	defer rows.Close()

	requests := make([]model.JoinRequest, 0)
	for rows.Next() {
		var req model.JoinRequest
		var resolvedAt sql.NullTime
		err := rows.Scan(&req.ID, &req.GroupID, &req.RequesterID, &req.Status,
			&req.InitiatedBy, &req.CreatedAt, &resolvedAt)
		if err != nil {
			return nil, fmt.Errorf("scan join request: %w", err)
		}
		if resolvedAt.Valid {
			req.ResolvedAt = &resolvedAt.Time
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// AcceptJoinRequest re-checks capacity against the live member count inside
// the transaction, so concurrent accepts cannot push the group past its cap.
func (r *GroupRepository) AcceptJoinRequest(ctx context.Context, requestID string, addedBy model.MemberAddedBy) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin accept: %w", err)
	}
	defer tx.Rollback()

	var groupID, requesterID string
	err = tx.QueryRowContext(ctx, `
		SELECT group_id, requester_id FROM join_requests WHERE id = ? AND status = ?`,
		requestID, model.RequestPending).Scan(&groupID, &requesterID)
	if err == sql.ErrNoRows {
		return repository.ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("read join request: %w", err)
	}

	var maxMembers, active int
	err = tx.QueryRowContext(ctx,
		`SELECT max_members FROM sharing_groups WHERE id = ?`, groupID).Scan(&maxMembers)
	if err == sql.ErrNoRows {
		return repository.ErrGroupNotFound
	}
	if err != nil {
		return fmt.Errorf("read group: %w", err)
	}
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_members WHERE group_id = ? AND status = ?`,
		groupID, model.MemberActive).Scan(&active)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if active >= maxMembers {
		return repository.ErrGroupFull
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE join_requests SET status = ?, resolved_at = ? WHERE id = ?`,
		model.RequestAccepted, now, requestID)
	if err != nil {
		return fmt.Errorf("resolve join request: %w", err)
	}

	// reactivates a previously-left membership instead of duplicating the row
	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, status, added_by, joined_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(group_id, user_id)
		DO UPDATE SET status = excluded.status, added_by = excluded.added_by, joined_at = excluded.joined_at`,
		groupID, requesterID, model.MemberActive, addedBy, now)
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return tx.Commit()
}

func (r *GroupRepository) RejectJoinRequest(ctx context.Context, requestID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE join_requests SET status = ?, resolved_at = ? WHERE id = ? AND status = ?`,
		model.RequestRejected, time.Now().UTC(), requestID, model.RequestPending)
	if err != nil {
		return fmt.Errorf("reject join request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrRequestNotFound
	}
	return nil
}

func scanGroups(rows *sql.Rows) ([]model.SharingGroup, error) {
	groups := make([]model.SharingGroup, 0)
	for rows.Next() {
		var g model.SharingGroup
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.MaxMembers, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
