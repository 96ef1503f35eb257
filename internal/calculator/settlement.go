package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/settleup/settleup/internal/money"
)

// ErrUnbalancedLedger is returned by Minimize when the input net vector does
// not sum to zero. Aggregation is integer-exact, so a nonzero sum always
// means an upstream bug; it is surfaced rather than silently absorbed.
var ErrUnbalancedLedger = errors.New("net balances do not sum to zero")

// Suggestion is one proposed settling payment: From pays To Amount.
type Suggestion struct {
	From   string
	To     string
	Amount money.Amount
}

// balanceEntry tracks one participant's remaining balance during matching.
type balanceEntry struct {
	id        string
	remaining money.Amount
}

// Minimize reduces a zero-sum net balance vector to a list of transactions
// that settles every participant to exactly zero.
//
// It greedily matches the largest remaining creditor with the largest
// remaining debtor, breaking ties by ascending participant id so output is
// deterministic. Greedy largest-magnitude matching is a heuristic: exact
// minimum-cardinality settlement is NP-hard in general, but the greedy result
// never exceeds k-1 transactions for k nonzero-balance participants, and
// every emitted amount is strictly positive.
func Minimize(net map[string]money.Amount) ([]Suggestion, error) {
	ids := make([]string, 0, len(net))
	for id := range net {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sum money.Amount
	var creditors, debtors []balanceEntry
	for _, id := range ids {
		v := net[id]
		sum += v
		switch {
		case v > 0:
			creditors = append(creditors, balanceEntry{id: id, remaining: v})
		case v < 0:
			debtors = append(debtors, balanceEntry{id: id, remaining: -v})
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: residual %s", ErrUnbalancedLedger, sum)
	}

	var suggestions []Suggestion
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)

		transfer := creditors[ci].remaining
		if debtors[di].remaining < transfer {
			transfer = debtors[di].remaining
		}

		suggestions = append(suggestions, Suggestion{
			From:   debtors[di].id,
			To:     creditors[ci].id,
			Amount: transfer,
		})

		creditors[ci].remaining -= transfer
		debtors[di].remaining -= transfer
		if creditors[ci].remaining.IsZero() {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if debtors[di].remaining.IsZero() {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}

	return suggestions, nil
}

// largest returns the index of the entry with the biggest remaining balance.
// Entries are kept in ascending id order, so the scan resolves ties to the
// smallest id.
func largest(entries []balanceEntry) int {
	best := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].remaining > entries[best].remaining {
			best = i
		}
	}
	return best
}
