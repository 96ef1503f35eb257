package models

import "github.com/settleup/settleup/internal/money"

// SplitType selects how an expense total is divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitUnequal    SplitType = "unequal"
	SplitShares     SplitType = "shares"
	SplitPercentage SplitType = "percentage"
)

// Expense represents one shared expense paid by a single user.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the user who paid the full amount.
	PayerID string

	// CreatedBy is the user who recorded the expense.
	CreatedBy string

	// Description is a short human-readable label (e.g., "Dinner").
	Description string

	// Amount is the total expense amount in cents.
	Amount money.Amount

	// SplitType records how Splits were derived.
	SplitType SplitType

	// Splits is one row per participant. For a non-deleted expense the
	// split amounts sum to Amount, within one cent per row.
	Splits []ExpenseSplit

	// Deleted soft-deletes (voids) the expense; its splits stop counting
	// toward balances.
	Deleted bool

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}

// ExpenseSplit is one participant's share of an expense.
type ExpenseSplit struct {
	ExpenseID string
	UserID    string

	// Amount is this participant's share in cents.
	Amount money.Amount
}

// SplitDetail is a denormalized split row carrying its expense context. It is
// used to build balance scopes that cut across groups, such as the 1:1 friend
// view.
type SplitDetail struct {
	ExpenseID     string
	GroupID       string
	PayerID       string
	ParticipantID string

	// Amount is the participant's share in cents.
	Amount money.Amount

	// ExpenseTotal is the parent expense's total amount.
	ExpenseTotal money.Amount

	Deleted bool
}
