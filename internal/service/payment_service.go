package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/money"
	"github.com/settleup/settleup/internal/storage"
)

// PaymentService manages the payment lifecycle. Payments start pending and
// are confirmed or rejected by the receiver, or cancelled by the payer; only
// confirmed payments affect balances.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// CreatePayment records a pending payment from the acting user to the
// receiver. Both must be active members of the group.
func (s *PaymentService) CreatePayment(ctx context.Context, payerID, groupID, receiverID, description string, amount money.Amount) (*models.Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if receiverID == payerID {
		return nil, fmt.Errorf("%w: cannot record a payment to yourself", ErrInvalidInput)
	}
	for _, id := range []string{payerID, receiverID} {
		if err := s.requireMembership(ctx, groupID, id); err != nil {
			return nil, err
		}
	}

	payment := &models.Payment{
		GroupID:     groupID,
		PayerID:     payerID,
		ReceiverID:  receiverID,
		Amount:      amount,
		Description: description,
		Status:      models.PaymentPending,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	slog.Info("payment recorded",
		"payment_id", payment.ID,
		"group_id", groupID,
		"amount", amount.String(),
	)
	return payment, nil
}

// GetPayment returns a payment visible to the user.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID, userID string) (*models.Payment, error) {
	payment, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, payment.GroupID, userID); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPayments returns a group's payments, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, groupID, userID string) ([]*models.Payment, error) {
	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListPaymentsByGroup(ctx, groupID)
}

// ConfirmPayment marks a pending payment confirmed. Receiver only. From this
// point the payment counts toward balances.
func (s *PaymentService) ConfirmPayment(ctx context.Context, paymentID, userID string) (*models.Payment, error) {
	return s.transition(ctx, paymentID, userID, models.PaymentConfirmed, "")
}

// RejectPayment marks a pending payment rejected with a reason. Receiver only.
func (s *PaymentService) RejectPayment(ctx context.Context, paymentID, userID, reason string) (*models.Payment, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason required", ErrInvalidInput)
	}
	return s.transition(ctx, paymentID, userID, models.PaymentRejected, reason)
}

// CancelPayment marks a pending payment cancelled. Payer only.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID, userID, reason string) (*models.Payment, error) {
	return s.transition(ctx, paymentID, userID, models.PaymentCancelled, reason)
}

func (s *PaymentService) transition(ctx context.Context, paymentID, userID string, to models.PaymentStatus, reason string) (*models.Payment, error) {
	payment, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	switch to {
	case models.PaymentConfirmed, models.PaymentRejected:
		if payment.ReceiverID != userID {
			return nil, fmt.Errorf("%w: only the receiver can %s this payment", ErrForbidden, to)
		}
	case models.PaymentCancelled:
		if payment.PayerID != userID {
			return nil, fmt.Errorf("%w: only the payer can cancel this payment", ErrForbidden)
		}
	}

	if payment.Status != models.PaymentPending {
		return nil, fmt.Errorf("%w: payment cannot be %s (current status: %s)",
			ErrInvalidInput, to, payment.Status)
	}

	payment.Status = to
	payment.StatusReason = reason
	if to == models.PaymentConfirmed {
		payment.ConfirmedAt = time.Now().Unix()
	}
	if err := s.store.UpdatePaymentStatus(ctx, payment); err != nil {
		return nil, err
	}

	slog.Info("payment status changed",
		"payment_id", payment.ID,
		"status", payment.Status,
		"by", userID,
	)
	return payment, nil
}

func (s *PaymentService) requireMembership(ctx context.Context, groupID, userID string) error {
	m, err := s.store.GetMembership(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("user %s: %w", userID, ErrNotMember)
	}
	if err != nil {
		return err
	}
	if !m.IsActive {
		return fmt.Errorf("user %s: %w", userID, ErrNotMember)
	}
	return nil
}
