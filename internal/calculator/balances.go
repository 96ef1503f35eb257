// Package calculator is the balance and settlement engine.
//
// It turns a ledger of expense splits and confirmed payments into netted
// pairwise balances and per-participant net totals, and reduces a net vector
// into a short list of settling transactions. Both operations are pure
// functions over in-memory records: no storage, no shared state, integer
// cent arithmetic throughout.
package calculator

import (
	"sort"

	"github.com/settleup/settleup/internal/money"
)

// Payment statuses as recorded by the payment lifecycle. Only confirmed
// payments affect balances; every other status is excluded from aggregation.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusDisputed  = "disputed"
)

// SplitRecord is one participant's share of one expense, with the minimal
// information needed for balance calculations.
type SplitRecord struct {
	ExpenseID     string
	PayerID       string
	ParticipantID string
	AmountOwed    money.Amount
	// ExpenseTotal is a snapshot of the parent expense's total amount,
	// used only for split-sum reconciliation warnings.
	ExpenseTotal money.Amount
	// Deleted marks splits of a deleted or voided expense. They are
	// excluded from aggregation.
	Deleted bool
}

// PaymentRecord is one payment with the minimal information needed for
// balance calculations.
type PaymentRecord struct {
	PayerID    string
	ReceiverID string
	Amount     money.Amount
	Status     string
}

// PairwiseBalance is the netted signed debt between exactly two participants:
// Debtor owes Creditor Amount, which is always positive. At most one entry
// exists per unordered pair.
type PairwiseBalance struct {
	Creditor string
	Debtor   string
	Amount   money.Amount
}

// IntegrityWarning reports an expense whose recorded splits do not sum to its
// total within tolerance. Aggregation continues using the recorded split
// amounts as ground truth; reconciling the expense itself is the expense
// writer's job.
type IntegrityWarning struct {
	ExpenseID    string
	ExpenseTotal money.Amount
	SplitSum     money.Amount
	Diff         money.Amount
}

// Result is the output of AggregateBalances.
type Result struct {
	// Pairwise holds one netted entry per unordered participant pair with a
	// nonzero balance, sorted by participant ids.
	Pairwise []PairwiseBalance
	// Net maps every participant seen in the input to their net balance:
	// positive means they are owed, negative means they owe. Over a closed
	// scope the values sum to exactly zero.
	Net map[string]money.Amount
	// Warnings lists expenses whose splits failed reconciliation.
	Warnings []IntegrityWarning
}

// pairKey identifies an unordered participant pair; Lo < Hi.
type pairKey struct {
	Lo, Hi string
}

// AggregateBalances nets a scope's expense splits and payments into pairwise
// balances and per-participant totals.
//
// Splits of deleted expenses and payments that are not confirmed are skipped.
// A participant's share of their own payment is not a debt. Accumulation is
// commutative, so the result does not depend on input order, and all output
// slices are sorted by id for determinism.
func AggregateBalances(splits []SplitRecord, payments []PaymentRecord) Result {
	// debts[{lo,hi}] > 0 means hi owes lo.
	debts := make(map[pairKey]money.Amount)

	addDebt := func(debtor, creditor string, amount money.Amount) {
		if debtor == creditor {
			return
		}
		key := pairKey{Lo: creditor, Hi: debtor}
		if key.Hi < key.Lo {
			key.Lo, key.Hi = key.Hi, key.Lo
			amount = -amount
		}
		debts[key] += amount
	}

	for _, s := range splits {
		if s.Deleted {
			continue
		}
		// The payer's own share is not a debt to themselves.
		if s.ParticipantID == s.PayerID {
			continue
		}
		addDebt(s.ParticipantID, s.PayerID, s.AmountOwed)
	}

	for _, p := range payments {
		if p.Status != StatusConfirmed {
			continue
		}
		// A confirmed payment offsets the payer's debt to the receiver.
		addDebt(p.ReceiverID, p.PayerID, p.Amount)
	}

	net := make(map[string]money.Amount)
	seen := func(id string) {
		if _, ok := net[id]; !ok {
			net[id] = 0
		}
	}
	for _, s := range splits {
		if s.Deleted {
			continue
		}
		seen(s.PayerID)
		seen(s.ParticipantID)
	}
	for _, p := range payments {
		if p.Status != StatusConfirmed {
			continue
		}
		seen(p.PayerID)
		seen(p.ReceiverID)
	}

	keys := make([]pairKey, 0, len(debts))
	for k := range debts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Lo != keys[j].Lo {
			return keys[i].Lo < keys[j].Lo
		}
		return keys[i].Hi < keys[j].Hi
	})

	var pairwise []PairwiseBalance
	for _, k := range keys {
		v := debts[k]
		net[k.Lo] += v
		net[k.Hi] -= v
		if v.IsZero() {
			continue
		}
		if v > 0 {
			pairwise = append(pairwise, PairwiseBalance{Creditor: k.Lo, Debtor: k.Hi, Amount: v})
		} else {
			pairwise = append(pairwise, PairwiseBalance{Creditor: k.Hi, Debtor: k.Lo, Amount: -v})
		}
	}

	return Result{
		Pairwise: pairwise,
		Net:      net,
		Warnings: reconcileSplits(splits),
	}
}

// reconcileSplits checks that each expense's non-deleted splits sum to its
// recorded total. The tolerance is one minor unit per split row, absorbing
// division remainders from share calculation.
func reconcileSplits(splits []SplitRecord) []IntegrityWarning {
	type tally struct {
		total money.Amount
		sum   money.Amount
		rows  int64
	}
	byExpense := make(map[string]*tally)
	for _, s := range splits {
		if s.Deleted {
			continue
		}
		t, ok := byExpense[s.ExpenseID]
		if !ok {
			t = &tally{total: s.ExpenseTotal}
			byExpense[s.ExpenseID] = t
		}
		t.sum += s.AmountOwed
		t.rows++
	}

	ids := make([]string, 0, len(byExpense))
	for id := range byExpense {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var warnings []IntegrityWarning
	for _, id := range ids {
		t := byExpense[id]
		diff := t.sum - t.total
		if diff.Abs() > money.Amount(t.rows) {
			warnings = append(warnings, IntegrityWarning{
				ExpenseID:    id,
				ExpenseTotal: t.total,
				SplitSum:     t.sum,
				Diff:         diff,
			})
		}
	}
	return warnings
}
