package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/money"
	"github.com/settleup/settleup/internal/storage"
)

// SplitInput describes one participant's part of an expense, interpreted
// according to the expense's split type.
type SplitInput struct {
	UserID string
	// Amount is the explicit share for unequal splits.
	Amount money.Amount
	// Shares is the weight for share-based splits.
	Shares int64
	// Percentage is the weight for percentage splits.
	Percentage decimal.Decimal
}

// ExpenseInput is a request to record a new expense.
type ExpenseInput struct {
	GroupID     string
	PayerID     string
	Description string
	Amount      money.Amount
	SplitType   models.SplitType
	// Participants lists the users sharing the expense for equal splits.
	Participants []string
	// Splits carries per-user inputs for the other split types.
	Splits []SplitInput
}

// ExpenseService records and voids expenses.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpense validates the input, computes the split amounts in cents and
// persists the expense. The acting user and every participant must be active
// members of the group.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.PayerID == "" {
		in.PayerID = userID
	}

	if err := s.requireMembers(ctx, in.GroupID, append(participantIDs(in), userID, in.PayerID)...); err != nil {
		return nil, err
	}

	shares, err := computeShares(in)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     in.GroupID,
		PayerID:     in.PayerID,
		CreatedBy:   userID,
		Description: in.Description,
		Amount:      in.Amount,
		SplitType:   in.SplitType,
	}
	for _, id := range sortedKeys(shares) {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			UserID: id,
			Amount: shares[id],
		})
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount.String(),
		"split_type", expense.SplitType,
	)
	return expense, nil
}

// GetExpense returns an expense visible to the user.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID, userID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembers(ctx, expense.GroupID, userID); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns a group's non-deleted expenses, oldest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, groupID, userID string) ([]*models.Expense, error) {
	if err := s.requireMembers(ctx, groupID, userID); err != nil {
		return nil, err
	}
	all, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.Expense, 0, len(all))
	for _, e := range all {
		if !e.Deleted {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// DeleteExpense voids an expense. Only the payer or the creator may void it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, userID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.PayerID != userID && expense.CreatedBy != userID {
		return fmt.Errorf("%w: only the payer or creator can delete an expense", ErrForbidden)
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	slog.Info("expense deleted", "expense_id", expenseID, "by", userID)
	return nil
}

// computeShares turns an ExpenseInput into per-user cent amounts.
func computeShares(in ExpenseInput) (map[string]money.Amount, error) {
	switch in.SplitType {
	case models.SplitEqual:
		if len(in.Participants) == 0 {
			return nil, fmt.Errorf("%w: equal split requires participants", ErrInvalidInput)
		}
		shares, err := money.SplitEqual(in.Amount, in.Participants)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return shares, nil

	case models.SplitUnequal:
		if len(in.Splits) == 0 {
			return nil, fmt.Errorf("%w: unequal split requires per-user amounts", ErrInvalidInput)
		}
		shares := make(map[string]money.Amount, len(in.Splits))
		var sum money.Amount
		for _, sp := range in.Splits {
			if sp.Amount < 0 {
				return nil, fmt.Errorf("%w: split amounts must not be negative", ErrInvalidInput)
			}
			if _, dup := shares[sp.UserID]; dup {
				return nil, fmt.Errorf("%w: duplicate split for user %s", ErrInvalidInput, sp.UserID)
			}
			shares[sp.UserID] = sp.Amount
			sum += sp.Amount
		}
		if sum != in.Amount {
			return nil, fmt.Errorf("%w: split amounts (%s) don't equal expense amount (%s)",
				ErrInvalidInput, sum, in.Amount)
		}
		return shares, nil

	case models.SplitShares:
		weights := make(map[string]int64, len(in.Splits))
		for _, sp := range in.Splits {
			if _, dup := weights[sp.UserID]; dup {
				return nil, fmt.Errorf("%w: duplicate split for user %s", ErrInvalidInput, sp.UserID)
			}
			weights[sp.UserID] = sp.Shares
		}
		shares, err := money.SplitShares(in.Amount, weights)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return shares, nil

	case models.SplitPercentage:
		weights := make(map[string]decimal.Decimal, len(in.Splits))
		for _, sp := range in.Splits {
			if _, dup := weights[sp.UserID]; dup {
				return nil, fmt.Errorf("%w: duplicate split for user %s", ErrInvalidInput, sp.UserID)
			}
			weights[sp.UserID] = sp.Percentage
		}
		shares, err := money.SplitPercentage(in.Amount, weights)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return shares, nil
	}
	return nil, fmt.Errorf("%w: invalid split type %q", ErrInvalidInput, in.SplitType)
}

func participantIDs(in ExpenseInput) []string {
	ids := append([]string{}, in.Participants...)
	for _, sp := range in.Splits {
		ids = append(ids, sp.UserID)
	}
	return ids
}

// requireMembers checks that every given user is an active member of the group.
func (s *ExpenseService) requireMembers(ctx context.Context, groupID string, userIDs ...string) error {
	seen := map[string]bool{}
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		m, err := s.store.GetMembership(ctx, groupID, id)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("user %s: %w", id, ErrNotMember)
		}
		if err != nil {
			return err
		}
		if !m.IsActive {
			return fmt.Errorf("user %s: %w", id, ErrNotMember)
		}
	}
	return nil
}

func sortedKeys(m map[string]money.Amount) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
