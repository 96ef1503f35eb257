package money

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitEqual(t *testing.T) {
	tests := []struct {
		name         string
		total        Amount
		participants []string
		want         map[string]Amount
		wantErr      bool
	}{
		{
			name:         "divides evenly",
			total:        9000,
			participants: []string{"alice", "bob", "carol"},
			want:         map[string]Amount{"alice": 3000, "bob": 3000, "carol": 3000},
		},
		{
			// $100 three ways: remainder cent goes to the first id.
			name:         "remainder cents to first participants in id order",
			total:        10000,
			participants: []string{"carol", "alice", "bob"},
			want:         map[string]Amount{"alice": 3334, "bob": 3333, "carol": 3333},
		},
		{
			name:         "two remainder cents",
			total:        1001,
			participants: []string{"c", "a", "b"},
			want:         map[string]Amount{"a": 334, "b": 334, "c": 333},
		},
		{
			name:         "single participant",
			total:        777,
			participants: []string{"solo"},
			want:         map[string]Amount{"solo": 777},
		},
		{
			name:         "no participants",
			total:        100,
			participants: nil,
			wantErr:      true,
		},
		{
			name:         "negative total",
			total:        -100,
			participants: []string{"a"},
			wantErr:      true,
		},
		{
			// A repeated id would collapse into one map entry and drop a share.
			name:         "duplicate participant",
			total:        9000,
			participants: []string{"a", "a", "b"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitEqual(tt.total, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEqual() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitEqual() = %v, want %v", got, tt.want)
			}
			var sum Amount
			for _, v := range got {
				sum += v
			}
			if sum != tt.total {
				t.Errorf("shares sum to %d, want %d", sum, tt.total)
			}
		})
	}
}

func TestSplitShares(t *testing.T) {
	got, err := SplitShares(10000, map[string]int64{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("SplitShares() error = %v", err)
	}
	want := map[string]Amount{"a": 3334, "b": 6666}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitShares() = %v, want %v", got, want)
	}

	if _, err := SplitShares(100, map[string]int64{"a": 0}); err == nil {
		t.Error("SplitShares() with zero share count, want error")
	}
	if _, err := SplitShares(100, nil); err == nil {
		t.Error("SplitShares() with no participants, want error")
	}
}

func TestSplitPercentage(t *testing.T) {
	pct := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	got, err := SplitPercentage(10000, map[string]decimal.Decimal{
		"a": pct("33.33"),
		"b": pct("33.33"),
		"c": pct("33.34"),
	})
	if err != nil {
		t.Fatalf("SplitPercentage() error = %v", err)
	}
	want := map[string]Amount{"a": 3333, "b": 3333, "c": 3334}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitPercentage() = %v, want %v", got, want)
	}
	var sum Amount
	for _, v := range got {
		sum += v
	}
	if sum != 10000 {
		t.Errorf("shares sum to %d, want 10000", sum)
	}

	if _, err := SplitPercentage(10000, map[string]decimal.Decimal{"a": pct("60"), "b": pct("30")}); err == nil {
		t.Error("SplitPercentage() with 90%% total, want error")
	}
}

// Percentages at the tolerance edge can overshoot the total by more cents
// than there are participants; the remainder pass must still converge.
func TestSplitPercentageToleranceEdge(t *testing.T) {
	pct := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	got, err := SplitPercentage(1000000, map[string]decimal.Decimal{
		"a": pct("50.005"),
		"b": pct("50.005"),
	})
	if err != nil {
		t.Fatalf("SplitPercentage() error = %v", err)
	}
	want := map[string]Amount{"a": 500000, "b": 500000}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitPercentage() = %v, want %v", got, want)
	}
	var sum Amount
	for _, v := range got {
		sum += v
	}
	if sum != 1000000 {
		t.Errorf("shares sum to %d, want 1000000", sum)
	}
}
