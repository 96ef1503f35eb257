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

// CreatePayment persists a new payment.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, group_id, payer_id, receiver_id, amount_cents, description, status, status_reason, confirmed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.GroupID, payment.PayerID, payment.ReceiverID,
		int64(payment.Amount), nullable(payment.Description), string(payment.Status),
		nullable(payment.StatusReason), payment.ConfirmedAt, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment := &models.Payment{}
	var amount int64
	var description, reason sql.NullString
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, receiver_id, amount_cents, description, status, status_reason, confirmed_at, created_at
		 FROM payments WHERE id = ?`,
		paymentID,
	).Scan(&payment.ID, &payment.GroupID, &payment.PayerID, &payment.ReceiverID,
		&amount, &description, &status, &reason, &payment.ConfirmedAt, &payment.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	payment.Amount = money.Amount(amount)
	payment.Description = description.String
	payment.Status = models.PaymentStatus(status)
	payment.StatusReason = reason.String
	return payment, nil
}

// ListPaymentsByGroup returns all payments for a group, newest first.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		"group_id = ? ORDER BY created_at DESC, id",
		groupID,
	)
}

// ListPaymentsBetweenUsers returns payments exchanged between the two users
// in either direction, across all groups.
func (s *SQLiteStore) ListPaymentsBetweenUsers(ctx context.Context, userA, userB string) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		`(payer_id = ? AND receiver_id = ?) OR (payer_id = ? AND receiver_id = ?)
		 ORDER BY created_at, id`,
		userA, userB, userB, userA,
	)
}

func (s *SQLiteStore) listPayments(ctx context.Context, where string, args ...any) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, receiver_id, amount_cents, description, status, status_reason, confirmed_at, created_at
		 FROM payments WHERE `+where,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		var amount int64
		var description, reason sql.NullString
		var status string
		if err := rows.Scan(&payment.ID, &payment.GroupID, &payment.PayerID, &payment.ReceiverID,
			&amount, &description, &status, &reason, &payment.ConfirmedAt, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payment.Amount = money.Amount(amount)
		payment.Description = description.String
		payment.Status = models.PaymentStatus(status)
		payment.StatusReason = reason.String
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// UpdatePaymentStatus writes the payment's status, reason and confirmation
// timestamp.
func (s *SQLiteStore) UpdatePaymentStatus(ctx context.Context, payment *models.Payment) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE payments SET status = ?, status_reason = ?, confirmed_at = ? WHERE id = ?",
		string(payment.Status), nullable(payment.StatusReason), payment.ConfirmedAt, payment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("payment %s: %w", payment.ID, storage.ErrNotFound)
	}
	return nil
}
