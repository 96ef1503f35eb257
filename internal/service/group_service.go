package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/storage"
)

// GroupService manages groups and their memberships.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group with the creator as admin and the given users
// as members.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID, name, description string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", ErrInvalidInput)
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
	}
	if err := s.store.CreateGroup(ctx, group, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("group created", "group_id", group.ID, "members", len(memberIDs)+1)
	return group, nil
}

// GetGroup returns a group the user is an active member of.
func (s *GroupService) GetGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Deleted {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns the visible groups the user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsForUser(ctx, userID)
}

// UpdateGroup renames a group. Admin only.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID, userID, name, description string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", ErrInvalidInput)
	}
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group := &models.Group{ID: groupID, Name: name, Description: description}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}

// DeleteGroup soft-deletes a group. Admin only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID string) error {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	slog.Info("group deleted", "group_id", groupID, "by", userID)
	return nil
}

// AddMember adds a user to a group. Admin only.
func (s *GroupService) AddMember(ctx context.Context, groupID, adminID, newUserID string) error {
	if err := s.requireAdmin(ctx, groupID, adminID); err != nil {
		return err
	}
	if _, err := s.store.GetUserByID(ctx, newUserID); err != nil {
		return err
	}
	return s.store.AddMember(ctx, &models.Membership{
		UserID:  newUserID,
		GroupID: groupID,
		Role:    models.RoleMember,
	})
}

// ListMembers returns the active members of a group the user belongs to.
func (s *GroupService) ListMembers(ctx context.Context, groupID, userID string) ([]*models.User, error) {
	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	memberships, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(memberships))
	for i, m := range memberships {
		ids[i] = m.UserID
	}
	usersByID, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := usersByID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *GroupService) requireMembership(ctx context.Context, groupID, userID string) error {
	m, err := s.store.GetMembership(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotMember
	}
	if err != nil {
		return err
	}
	if !m.IsActive {
		return ErrNotMember
	}
	return nil
}

func (s *GroupService) requireAdmin(ctx context.Context, groupID, userID string) error {
	m, err := s.store.GetMembership(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotMember
	}
	if err != nil {
		return err
	}
	if !m.IsActive {
		return ErrNotMember
	}
	if m.Role != models.RoleAdmin {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
