package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/money"
)

func TestExpenseService_CreateExpense(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")
	outsider := createUser(t, store, "outsider")
	group := createGroup(t, store, alice, bob.ID, carol.ID)

	svc := NewExpenseService(store)

	splitAmounts := func(e *models.Expense) map[string]money.Amount {
		out := make(map[string]money.Amount, len(e.Splits))
		for _, sp := range e.Splits {
			out[sp.UserID] = sp.Amount
		}
		return out
	}

	tests := []struct {
		name       string
		input      ExpenseInput
		wantErr    error
		wantShares map[string]money.Amount
	}{
		{
			name: "equal split distributes the remainder",
			input: ExpenseInput{
				GroupID:      group.ID,
				PayerID:      alice.ID,
				Description:  "Groceries",
				Amount:       money.Amount(10000),
				SplitType:    models.SplitEqual,
				Participants: []string{alice.ID, bob.ID, carol.ID},
			},
			// 100.00 over three people leaves one cent for the first id.
			wantShares: nil, // validated separately below
		},
		{
			name: "unequal split uses explicit amounts",
			input: ExpenseInput{
				GroupID:     group.ID,
				PayerID:     alice.ID,
				Description: "Utilities",
				Amount:      money.Amount(8000),
				SplitType:   models.SplitUnequal,
				Splits: []SplitInput{
					{UserID: alice.ID, Amount: money.Amount(5000)},
					{UserID: bob.ID, Amount: money.Amount(3000)},
				},
			},
			wantShares: map[string]money.Amount{alice.ID: 5000, bob.ID: 3000},
		},
		{
			name: "unequal split must sum to the total",
			input: ExpenseInput{
				GroupID:   group.ID,
				PayerID:   alice.ID,
				Amount:    money.Amount(8000),
				SplitType: models.SplitUnequal,
				Splits: []SplitInput{
					{UserID: alice.ID, Amount: money.Amount(5000)},
					{UserID: bob.ID, Amount: money.Amount(2000)},
				},
			},
			wantErr: ErrInvalidInput,
		},
		{
			// Repeated rows sum to the total but would collapse to one map
			// entry, so the stored shares would come up short.
			name: "unequal split rejects duplicate user",
			input: ExpenseInput{
				GroupID:   group.ID,
				PayerID:   alice.ID,
				Amount:    money.Amount(8000),
				SplitType: models.SplitUnequal,
				Splits: []SplitInput{
					{UserID: alice.ID, Amount: money.Amount(3000)},
					{UserID: alice.ID, Amount: money.Amount(3000)},
					{UserID: bob.ID, Amount: money.Amount(2000)},
				},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "equal split rejects duplicate participant",
			input: ExpenseInput{
				GroupID:      group.ID,
				PayerID:      alice.ID,
				Amount:       money.Amount(9000),
				SplitType:    models.SplitEqual,
				Participants: []string{alice.ID, alice.ID, bob.ID},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "share weights",
			input: ExpenseInput{
				GroupID:   group.ID,
				PayerID:   bob.ID,
				Amount:    money.Amount(9000),
				SplitType: models.SplitShares,
				Splits: []SplitInput{
					{UserID: alice.ID, Shares: 1},
					{UserID: bob.ID, Shares: 2},
				},
			},
			wantShares: map[string]money.Amount{alice.ID: 3000, bob.ID: 6000},
		},
		{
			name: "percentages",
			input: ExpenseInput{
				GroupID:   group.ID,
				PayerID:   carol.ID,
				Amount:    money.Amount(5000),
				SplitType: models.SplitPercentage,
				Splits: []SplitInput{
					{UserID: alice.ID, Percentage: decimal.NewFromInt(40)},
					{UserID: carol.ID, Percentage: decimal.NewFromInt(60)},
				},
			},
			wantShares: map[string]money.Amount{alice.ID: 2000, carol.ID: 3000},
		},
		{
			name: "percentages must sum to 100",
			input: ExpenseInput{
				GroupID:   group.ID,
				PayerID:   carol.ID,
				Amount:    money.Amount(5000),
				SplitType: models.SplitPercentage,
				Splits: []SplitInput{
					{UserID: alice.ID, Percentage: decimal.NewFromInt(40)},
					{UserID: carol.ID, Percentage: decimal.NewFromInt(50)},
				},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "zero amount rejected",
			input: ExpenseInput{
				GroupID:      group.ID,
				PayerID:      alice.ID,
				Amount:       0,
				SplitType:    models.SplitEqual,
				Participants: []string{alice.ID, bob.ID},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "non-member participant rejected",
			input: ExpenseInput{
				GroupID:      group.ID,
				PayerID:      alice.ID,
				Amount:       money.Amount(1000),
				SplitType:    models.SplitEqual,
				Participants: []string{alice.ID, outsider.ID},
			},
			wantErr: ErrNotMember,
		},
		{
			name: "unknown split type rejected",
			input: ExpenseInput{
				GroupID:      group.ID,
				PayerID:      alice.ID,
				Amount:       money.Amount(1000),
				SplitType:    models.SplitType("weird"),
				Participants: []string{alice.ID},
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expense, err := svc.CreateExpense(ctx, alice.ID, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateExpense failed: %v", err)
			}

			var sum money.Amount
			for _, sp := range expense.Splits {
				sum += sp.Amount
			}
			if sum != tt.input.Amount {
				t.Errorf("Splits sum to %d, expense is %d", sum, tt.input.Amount)
			}

			if tt.wantShares != nil {
				got := splitAmounts(expense)
				for id, want := range tt.wantShares {
					if got[id] != want {
						t.Errorf("Share for %s: expected %d, got %d", id, want, got[id])
					}
				}
			}
		})
	}
}

func TestExpenseService_DeleteExpense(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")
	group := createGroup(t, store, alice, bob.ID, carol.ID)

	svc := NewExpenseService(store)

	expense, err := svc.CreateExpense(ctx, alice.ID, ExpenseInput{
		GroupID:      group.ID,
		PayerID:      bob.ID,
		Description:  "Cinema",
		Amount:       money.Amount(3000),
		SplitType:    models.SplitEqual,
		Participants: []string{alice.ID, bob.ID, carol.ID},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	// Carol is a member but neither payer nor creator.
	if err := svc.DeleteExpense(ctx, expense.ID, carol.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}

	// The payer can void it.
	if err := svc.DeleteExpense(ctx, expense.ID, bob.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	visible, err := svc.ListExpenses(ctx, group.ID, alice.ID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	for _, e := range visible {
		if e.ID == expense.ID {
			t.Error("Voided expense still listed")
		}
	}
}
