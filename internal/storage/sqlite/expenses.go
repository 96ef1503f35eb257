package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/money"
	"github.com/settleup/settleup/internal/storage"
)

// CreateExpense persists an expense and its splits atomically.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, payer_id, created_by, description, amount_cents, split_type, is_deleted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.CreatedBy,
		expense.Description, int64(expense.Amount), string(expense.SplitType), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		split.ExpenseID = expense.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount_cents) VALUES (?, ?, ?)",
			split.ExpenseID, split.UserID, int64(split.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount int64
	var splitType string
	var isDeleted int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, created_by, description, amount_cents, split_type, is_deleted, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.CreatedBy,
		&expense.Description, &amount, &splitType, &isDeleted, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.Amount = money.Amount(amount)
	expense.SplitType = models.SplitType(splitType)
	expense.Deleted = isDeleted != 0

	splits, err := s.listSplits(ctx, "es.expense_id = ?", expenseID)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits
	return expense, nil
}

// ListExpensesByGroup returns all expenses for a group with splits attached,
// including deleted ones, ordered by creation time.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, created_by, description, amount_cents, split_type, is_deleted, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense := &models.Expense{}
		var amount int64
		var splitType string
		var isDeleted int
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.CreatedBy,
			&expense.Description, &amount, &splitType, &isDeleted, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount = money.Amount(amount)
		expense.SplitType = models.SplitType(splitType)
		expense.Deleted = isDeleted != 0
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	splits, err := s.listSplits(ctx,
		"es.expense_id IN (SELECT id FROM expenses WHERE group_id = ?)", groupID)
	if err != nil {
		return nil, err
	}
	for _, split := range splits {
		if e, ok := byID[split.ExpenseID]; ok {
			e.Splits = append(e.Splits, split)
		}
	}
	return expenses, nil
}

// ListSplitsBetweenUsers returns every split row where one user paid and the
// other participated, across all groups, ordered by expense.
func (s *SQLiteStore) ListSplitsBetweenUsers(ctx context.Context, userA, userB string) ([]models.SplitDetail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT es.expense_id, e.group_id, e.payer_id, es.user_id, es.amount_cents, e.amount_cents, e.is_deleted
		 FROM expense_splits es
		 JOIN expenses e ON e.id = es.expense_id
		 WHERE (e.payer_id = ? AND es.user_id = ?) OR (e.payer_id = ? AND es.user_id = ?)
		 ORDER BY es.expense_id, es.user_id`,
		userA, userB, userB, userA,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits between users: %w", err)
	}
	defer rows.Close()

	var details []models.SplitDetail
	for rows.Next() {
		var d models.SplitDetail
		var amount, total int64
		var isDeleted int
		if err := rows.Scan(&d.ExpenseID, &d.GroupID, &d.PayerID, &d.ParticipantID, &amount, &total, &isDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan split detail: %w", err)
		}
		d.Amount = money.Amount(amount)
		d.ExpenseTotal = money.Amount(total)
		d.Deleted = isDeleted != 0
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split details: %w", err)
	}
	return details, nil
}

func (s *SQLiteStore) listSplits(ctx context.Context, where string, arg any) ([]models.ExpenseSplit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT es.expense_id, es.user_id, es.amount_cents
		 FROM expense_splits es WHERE `+where+` ORDER BY es.expense_id, es.user_id`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense splits: %w", err)
	}
	defer rows.Close()

	var splits []models.ExpenseSplit
	for rows.Next() {
		var split models.ExpenseSplit
		var amount int64
		if err := rows.Scan(&split.ExpenseID, &split.UserID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		split.Amount = money.Amount(amount)
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return splits, nil
}

// DeleteExpense soft-deletes (voids) an expense. Its splits stop counting
// toward balances.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET is_deleted = 1 WHERE id = ? AND is_deleted = 0",
		expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}
