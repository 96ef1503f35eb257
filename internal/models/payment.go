package models

import "github.com/settleup/settleup/internal/money"

// PaymentStatus is the lifecycle state of a payment.
// Only confirmed payments affect balances.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentDisputed  PaymentStatus = "disputed"
)

// Payment represents money handed from one user to another to settle debt.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group the payment was recorded in.
	GroupID string

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// ReceiverID is the user who received the payment.
	ReceiverID string

	// Amount is the payment amount in cents, always positive.
	Amount money.Amount

	// Description is an optional note.
	Description string

	// Status is the lifecycle state. New payments start pending and are
	// confirmed or rejected by the receiver, or cancelled by the payer.
	Status PaymentStatus

	// StatusReason holds the rejection or cancellation reason, if any.
	StatusReason string

	// ConfirmedAt is the Unix timestamp of confirmation, zero otherwise.
	ConfirmedAt int64

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
