package calculator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/settleup/settleup/internal/money"
)

func TestMinimize(t *testing.T) {
	tests := []struct {
		name    string
		net     map[string]money.Amount
		want    []Suggestion
		wantErr error
	}{
		{
			name: "two debtors one creditor",
			net: map[string]money.Amount{
				"alice": cents(6000),
				"bob":   cents(-3000),
				"carol": cents(-3000),
			},
			want: []Suggestion{
				{From: "bob", To: "alice", Amount: cents(3000)},
				{From: "carol", To: "alice", Amount: cents(3000)},
			},
		},
		{
			name: "all zero balances settle with no transactions",
			net: map[string]money.Amount{
				"a": 0,
				"b": 0,
				"c": 0,
			},
			want: nil,
		},
		{
			name: "empty vector",
			net:  map[string]money.Amount{},
			want: nil,
		},
		{
			name: "largest magnitudes match first",
			net: map[string]money.Amount{
				"a": cents(7000),
				"b": cents(1000),
				"c": cents(-5000),
				"d": cents(-3000),
			},
			want: []Suggestion{
				{From: "c", To: "a", Amount: cents(5000)},
				{From: "d", To: "a", Amount: cents(2000)},
				{From: "d", To: "b", Amount: cents(1000)},
			},
		},
		{
			name: "ties resolve by ascending id",
			net: map[string]money.Amount{
				"dan":  cents(2000),
				"carl": cents(2000),
				"ann":  cents(-2000),
				"bea":  cents(-2000),
			},
			want: []Suggestion{
				{From: "ann", To: "carl", Amount: cents(2000)},
				{From: "bea", To: "dan", Amount: cents(2000)},
			},
		},
		{
			name: "single nonzero balance is fatal",
			net: map[string]money.Amount{
				"a": cents(100),
			},
			wantErr: ErrUnbalancedLedger,
		},
		{
			name: "non-zero-sum vector is fatal",
			net: map[string]money.Amount{
				"a": cents(5000),
				"b": cents(-4999),
			},
			wantErr: ErrUnbalancedLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Minimize(tt.net)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Minimize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Minimize() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Minimize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestMinimize_SettlesToZero applies every suggestion as a balance update and
// checks all participants land at exactly zero.
func TestMinimize_SettlesToZero(t *testing.T) {
	net := map[string]money.Amount{
		"a": cents(12345),
		"b": cents(-700),
		"c": cents(-11645),
		"d": cents(9001),
		"e": cents(-9001),
		"f": 0,
	}

	suggestions, err := Minimize(net)
	if err != nil {
		t.Fatalf("Minimize() error = %v", err)
	}

	remaining := make(map[string]money.Amount, len(net))
	for id, v := range net {
		remaining[id] = v
	}
	for _, s := range suggestions {
		if s.Amount <= 0 {
			t.Errorf("suggestion %+v has non-positive amount", s)
		}
		remaining[s.From] += s.Amount
		remaining[s.To] -= s.Amount
	}
	for id, v := range remaining {
		if v != 0 {
			t.Errorf("%s remaining = %s, want 0", id, v)
		}
	}

	// Never more than one transaction fewer than the nonzero participants.
	nonzero := 0
	for _, v := range net {
		if v != 0 {
			nonzero++
		}
	}
	if len(suggestions) > nonzero-1 {
		t.Errorf("got %d suggestions for %d nonzero balances, want at most %d",
			len(suggestions), nonzero, nonzero-1)
	}
}

// TestMinimize_Deterministic runs the same tie-heavy input repeatedly and
// expects identical output every time.
func TestMinimize_Deterministic(t *testing.T) {
	net := map[string]money.Amount{
		"u1": cents(1500),
		"u2": cents(1500),
		"u3": cents(1500),
		"u4": cents(-1500),
		"u5": cents(-1500),
		"u6": cents(-1500),
	}

	want, err := Minimize(net)
	if err != nil {
		t.Fatalf("Minimize() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		got, err := Minimize(net)
		if err != nil {
			t.Fatalf("Minimize() error = %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: Minimize() = %+v, want %+v", i, got, want)
		}
	}
}

// TestMinimize_CycleCancellation: debts forming a cycle net out to zero
// upstream, so the minimizer sees zeros and suggests nothing.
func TestMinimize_CycleCancellation(t *testing.T) {
	res := AggregateBalances([]SplitRecord{
		{ExpenseID: "e1", PayerID: "b", ParticipantID: "a", AmountOwed: cents(5000), ExpenseTotal: cents(5000)},
		{ExpenseID: "e2", PayerID: "c", ParticipantID: "b", AmountOwed: cents(5000), ExpenseTotal: cents(5000)},
		{ExpenseID: "e3", PayerID: "a", ParticipantID: "c", AmountOwed: cents(5000), ExpenseTotal: cents(5000)},
	}, nil)

	suggestions, err := Minimize(res.Net)
	if err != nil {
		t.Fatalf("Minimize() error = %v", err)
	}
	if len(suggestions) != 0 {
		t.Errorf("Minimize() = %+v, want empty", suggestions)
	}
}
