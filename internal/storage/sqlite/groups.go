package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/storage"
)

// CreateGroup persists a new group and its initial memberships atomically.
// The creator is added as admin; everyone else as member.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, memberIDs []string) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, created_by, is_friend_group, friend_key, is_deleted, created_at)
		 VALUES (?, ?, ?, ?, ?, NULL, 0, ?)`,
		group.ID, group.Name, nullable(group.Description), group.CreatedBy,
		boolToInt(group.IsFriendGroup), group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	seen := map[string]bool{}
	for _, userID := range append([]string{group.CreatedBy}, memberIDs...) {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		role := models.RoleMember
		if userID == group.CreatedBy {
			role = models.RoleAdmin
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO memberships (user_id, group_id, role, is_active, joined_at) VALUES (?, ?, ?, 1, ?)",
			userID, group.ID, string(role), group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var description sql.NullString
	var isFriend, isDeleted int
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_by, is_friend_group, is_deleted, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &description, &group.CreatedBy, &isFriend, &isDeleted, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Description = description.String
	group.IsFriendGroup = isFriend != 0
	group.Deleted = isDeleted != 0
	return group, nil
}

// ListGroupsForUser returns the non-deleted, non-friend groups the user is an
// active member of, ordered by creation time.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.created_by, g.is_friend_group, g.is_deleted, g.created_at
		 FROM groups g
		 JOIN memberships m ON m.group_id = g.id
		 WHERE m.user_id = ? AND m.is_active = 1 AND g.is_deleted = 0 AND g.is_friend_group = 0
		 ORDER BY g.created_at, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var description sql.NullString
		var isFriend, isDeleted int
		if err := rows.Scan(&group.ID, &group.Name, &description, &group.CreatedBy, &isFriend, &isDeleted, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.Description = description.String
		group.IsFriendGroup = isFriend != 0
		group.Deleted = isDeleted != 0
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// UpdateGroup updates a group's name and description.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ? WHERE id = ? AND is_deleted = 0",
		group.Name, nullable(group.Description), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteGroup soft-deletes a group.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET is_deleted = 1 WHERE id = ? AND is_deleted = 0",
		groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// AddMember inserts or reactivates a membership.
func (s *SQLiteStore) AddMember(ctx context.Context, m *models.Membership) error {
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().Unix()
	}
	if m.Role == "" {
		m.Role = models.RoleMember
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memberships (user_id, group_id, role, is_active, joined_at) VALUES (?, ?, ?, 1, ?)
		 ON CONFLICT(user_id, group_id) DO UPDATE SET is_active = 1, role = excluded.role`,
		m.UserID, m.GroupID, string(m.Role), m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// GetMembership retrieves a user's membership in a group.
func (s *SQLiteStore) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	var role string
	var isActive int
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, group_id, role, is_active, joined_at FROM memberships WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&m.UserID, &m.GroupID, &role, &isActive, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("membership %s/%s: %w", groupID, userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	m.Role = models.MembershipRole(role)
	m.IsActive = isActive != 0
	return m, nil
}

// ListMembers returns all active memberships of a group, ordered by user id.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, group_id, role, is_active, joined_at FROM memberships WHERE group_id = ? AND is_active = 1 ORDER BY user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		var role string
		var isActive int
		if err := rows.Scan(&m.UserID, &m.GroupID, &role, &isActive, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		m.Role = models.MembershipRole(role)
		m.IsActive = isActive != 0
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return members, nil
}

// GetOrCreateFriendGroup returns the hidden two-person group for a user pair,
// creating it on first use. The pair is keyed order-independently.
func (s *SQLiteStore) GetOrCreateFriendGroup(ctx context.Context, userA, userB string) (*models.Group, error) {
	if userA == userB {
		return nil, fmt.Errorf("friend group requires two distinct users")
	}
	lo, hi := userA, userB
	if hi < lo {
		lo, hi = hi, lo
	}
	key := lo + "|" + hi

	var groupID string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM groups WHERE friend_key = ?", key,
	).Scan(&groupID)
	if err == nil {
		return s.GetGroup(ctx, groupID)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to look up friend group: %w", err)
	}

	group := &models.Group{
		ID:            uuid.New().String(),
		Name:          "friends",
		CreatedBy:     userA,
		IsFriendGroup: true,
		CreatedAt:     time.Now().Unix(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, created_by, is_friend_group, friend_key, is_deleted, created_at)
		 VALUES (?, ?, NULL, ?, 1, ?, 0, ?)`,
		group.ID, group.Name, group.CreatedBy, key, group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert friend group: %w", err)
	}
	for _, userID := range []string{lo, hi} {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO memberships (user_id, group_id, role, is_active, joined_at) VALUES (?, ?, 'member', 1, ?)",
			userID, group.ID, group.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert friend membership: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return group, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
