// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/settleup/settleup/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations used by the service layer.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the services.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUsersByIDs returns the users for the given ids, keyed by id.
	// Missing ids are simply absent from the map.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// Groups and memberships.
	CreateGroup(ctx context.Context, group *models.Group, memberIDs []string) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	// ListGroupsForUser returns the non-deleted, non-friend groups the user
	// is an active member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, groupID string) error
	AddMember(ctx context.Context, m *models.Membership) error
	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)
	ListMembers(ctx context.Context, groupID string) ([]*models.Membership, error)
	// GetOrCreateFriendGroup returns the hidden two-person group backing
	// the 1:1 ledger between the users, creating it on first use.
	GetOrCreateFriendGroup(ctx context.Context, userA, userB string) (*models.Group, error)

	// Expenses.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// ListExpensesByGroup returns all expenses for a group, including
	// deleted ones, with splits attached.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	// ListSplitsBetweenUsers returns every split row where one user paid and
	// the other participated, across all groups. Feeds the 1:1 friend view.
	ListSplitsBetweenUsers(ctx context.Context, userA, userB string) ([]models.SplitDetail, error)
	DeleteExpense(ctx context.Context, expenseID string) error

	// Payments.
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)
	// ListPaymentsBetweenUsers returns payments exchanged between the two
	// users in either direction, across all groups.
	ListPaymentsBetweenUsers(ctx context.Context, userA, userB string) ([]*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, payment *models.Payment) error

	// Close releases any resources held by the store.
	Close() error
}
