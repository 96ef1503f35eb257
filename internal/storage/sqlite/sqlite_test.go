package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/money"
	"github.com/settleup/settleup/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "settleup-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, PasswordHash: "x"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return user
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "Alice", "alice@example.com")
	bob := createTestUser(t, store, "Bob", "bob@example.com")
	carol := createTestUser(t, store, "Carol", "carol@example.com")

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		if alice.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if alice.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetUserByEmail retrieves user", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != alice.ID || got.Name != "Alice" {
			t.Errorf("Got wrong user: %+v", got)
		}
	})

	t.Run("GetUserByID missing returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetUsersByIDs skips missing ids", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, "nope", bob.ID})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("Expected 2 users, got %d", len(users))
		}
		if users[alice.ID].Name != "Alice" || users[bob.ID].Name != "Bob" {
			t.Errorf("Got wrong users: %+v", users)
		}
	})

	var group *models.Group

	t.Run("CreateGroup adds creator as admin", func(t *testing.T) {
		group = &models.Group{Name: "Roommates", CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group, []string{bob.ID}); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Fatal("Expected group ID to be generated")
		}

		m, err := store.GetMembership(ctx, group.ID, alice.ID)
		if err != nil {
			t.Fatalf("GetMembership failed: %v", err)
		}
		if m.Role != models.RoleAdmin || !m.IsActive {
			t.Errorf("Expected active admin, got %+v", m)
		}

		m, err = store.GetMembership(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetMembership(bob) failed: %v", err)
		}
		if m.Role != models.RoleMember {
			t.Errorf("Expected member role, got %s", m.Role)
		}
	})

	t.Run("ListGroupsForUser returns the group", func(t *testing.T) {
		groups, err := store.ListGroupsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("Expected [%s], got %+v", group.ID, groups)
		}
	})

	t.Run("AddMember and ListMembers", func(t *testing.T) {
		err := store.AddMember(ctx, &models.Membership{
			GroupID: group.ID,
			UserID:  carol.ID,
			Role:    models.RoleMember,
		})
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 3 {
			t.Errorf("Expected 3 members, got %d", len(members))
		}
	})

	t.Run("GetOrCreateFriendGroup is idempotent and hidden", func(t *testing.T) {
		fg1, err := store.GetOrCreateFriendGroup(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetOrCreateFriendGroup failed: %v", err)
		}
		if !fg1.IsFriendGroup {
			t.Error("Expected IsFriendGroup to be set")
		}

		// Same pair in reverse order resolves to the same group.
		fg2, err := store.GetOrCreateFriendGroup(ctx, bob.ID, alice.ID)
		if err != nil {
			t.Fatalf("GetOrCreateFriendGroup (reversed) failed: %v", err)
		}
		if fg1.ID != fg2.ID {
			t.Errorf("Expected same friend group, got %s and %s", fg1.ID, fg2.ID)
		}

		// Friend groups stay out of group listings.
		groups, err := store.ListGroupsForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		for _, g := range groups {
			if g.ID == fg1.ID {
				t.Error("Friend group leaked into group listing")
			}
		}
	})

	var expense *models.Expense

	t.Run("CreateExpense persists splits", func(t *testing.T) {
		expense = &models.Expense{
			GroupID:     group.ID,
			PayerID:     alice.ID,
			CreatedBy:   alice.ID,
			Description: "Dinner",
			Amount:      money.Amount(9000),
			SplitType:   models.SplitEqual,
			Splits: []models.ExpenseSplit{
				{UserID: alice.ID, Amount: money.Amount(3000)},
				{UserID: bob.ID, Amount: money.Amount(3000)},
				{UserID: carol.ID, Amount: money.Amount(3000)},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Amount != money.Amount(9000) || len(got.Splits) != 3 {
			t.Errorf("Got wrong expense: %+v", got)
		}
	})

	t.Run("DeleteExpense soft-deletes", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense after delete failed: %v", err)
		}
		if !got.Deleted {
			t.Error("Expected expense to be marked deleted")
		}

		// Deleted expenses still show up in the group listing so the
		// calculator can skip them explicitly.
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Errorf("Expected 1 expense, got %d", len(expenses))
		}
	})

	t.Run("Payment lifecycle persists status changes", func(t *testing.T) {
		payment := &models.Payment{
			GroupID:    group.ID,
			PayerID:    bob.ID,
			ReceiverID: alice.ID,
			Amount:     money.Amount(3000),
		}
		if err := store.CreatePayment(ctx, payment); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		if payment.Status != models.PaymentPending {
			t.Errorf("Expected pending status, got %s", payment.Status)
		}

		payment.Status = models.PaymentConfirmed
		payment.ConfirmedAt = 1700000000
		if err := store.UpdatePaymentStatus(ctx, payment); err != nil {
			t.Fatalf("UpdatePaymentStatus failed: %v", err)
		}

		got, err := store.GetPayment(ctx, payment.ID)
		if err != nil {
			t.Fatalf("GetPayment failed: %v", err)
		}
		if got.Status != models.PaymentConfirmed || got.ConfirmedAt != 1700000000 {
			t.Errorf("Got wrong payment: %+v", got)
		}

		payments, err := store.ListPaymentsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListPaymentsByGroup failed: %v", err)
		}
		if len(payments) != 1 {
			t.Errorf("Expected 1 payment, got %d", len(payments))
		}
	})

	t.Run("ListSplitsBetweenUsers returns only the pair's rows", func(t *testing.T) {
		details, err := store.ListSplitsBetweenUsers(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("ListSplitsBetweenUsers failed: %v", err)
		}
		if len(details) != 1 {
			t.Fatalf("Expected 1 split row, got %d", len(details))
		}
		d := details[0]
		if d.PayerID != alice.ID || d.ParticipantID != bob.ID {
			t.Errorf("Got row between %s and %s", d.PayerID, d.ParticipantID)
		}
		if d.Amount != money.Amount(3000) || d.ExpenseTotal != money.Amount(9000) {
			t.Errorf("Got amount %d of total %d", d.Amount, d.ExpenseTotal)
		}
		if !d.Deleted {
			t.Error("Expected the voided expense's row to carry the deleted flag")
		}
	})

	t.Run("ListPaymentsBetweenUsers matches either direction", func(t *testing.T) {
		payments, err := store.ListPaymentsBetweenUsers(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("ListPaymentsBetweenUsers failed: %v", err)
		}
		if len(payments) != 1 {
			t.Fatalf("Expected 1 payment, got %d", len(payments))
		}
		if payments[0].PayerID != bob.ID || payments[0].ReceiverID != alice.ID {
			t.Errorf("Got payment %s -> %s", payments[0].PayerID, payments[0].ReceiverID)
		}
	})

	t.Run("DeleteGroup hides it from listings", func(t *testing.T) {
		scratch := &models.Group{Name: "Scratch", CreatedBy: carol.ID}
		if err := store.CreateGroup(ctx, scratch, nil); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.DeleteGroup(ctx, scratch.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}

		groups, err := store.ListGroupsForUser(ctx, carol.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		for _, g := range groups {
			if g.ID == scratch.ID {
				t.Error("Deleted group leaked into listing")
			}
		}
	})
}
