package money

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// percentTolerance is how far the sum of percentage splits may deviate
// from 100 before the split is rejected.
var percentTolerance = decimal.RequireFromString("0.01")

// SplitEqual divides total evenly among the participants.
//
// Each share is floored to the cent; the leftover cents are assigned one each
// to the first participants in ascending id order. The rule is deterministic
// and the shares always sum exactly to total.
func SplitEqual(total Amount, participants []string) (map[string]Amount, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if total < 0 {
		return nil, fmt.Errorf("total must not be negative, got %s", total)
	}
	seen := make(map[string]bool, len(participants))
	for _, id := range participants {
		if seen[id] {
			return nil, fmt.Errorf("duplicate participant %s", id)
		}
		seen[id] = true
	}

	n := int64(len(participants))
	base := int64(total) / n
	remainder := int64(total) % n

	shares := make(map[string]Amount, len(participants))
	for _, id := range sortedIDs(participants) {
		shares[id] = Amount(base)
		if remainder > 0 {
			shares[id]++
			remainder--
		}
	}
	return shares, nil
}

// SplitShares divides total proportionally to integer share counts.
// Remainder cents are distributed in ascending id order, as in SplitEqual.
func SplitShares(total Amount, shares map[string]int64) (map[string]Amount, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if total < 0 {
		return nil, fmt.Errorf("total must not be negative, got %s", total)
	}

	var totalShares int64
	for id, s := range shares {
		if s <= 0 {
			return nil, fmt.Errorf("participant %s has non-positive share count %d", id, s)
		}
		totalShares += s
	}

	ids := sortedIDs(keys(shares))
	out := make(map[string]Amount, len(shares))
	var assigned int64
	for _, id := range ids {
		amt := int64(total) * shares[id] / totalShares
		out[id] = Amount(amt)
		assigned += amt
	}
	distributeRemainder(out, ids, int64(total)-assigned)
	return out, nil
}

// SplitPercentage divides total by percentage weights, which must sum to 100
// within a 0.01 tolerance. Remainder cents are distributed in ascending id
// order, as in SplitEqual.
func SplitPercentage(total Amount, percents map[string]decimal.Decimal) (map[string]Amount, error) {
	if len(percents) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if total < 0 {
		return nil, fmt.Errorf("total must not be negative, got %s", total)
	}

	sum := decimal.Zero
	for _, p := range percents {
		sum = sum.Add(p)
	}
	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(percentTolerance) {
		return nil, fmt.Errorf("percentages sum to %s, want 100", sum)
	}

	ids := sortedIDs(keys(percents))
	hundred := decimal.NewFromInt(100)
	out := make(map[string]Amount, len(percents))
	var assigned int64
	for _, id := range ids {
		amt := decimal.NewFromInt(int64(total)).Mul(percents[id]).Div(hundred).IntPart()
		out[id] = Amount(amt)
		assigned += amt
	}
	distributeRemainder(out, ids, int64(total)-assigned)
	return out, nil
}

// distributeRemainder spreads leftover cents one at a time across ids,
// round-robin, until nothing is left. A negative remainder (possible when
// percentage weights sit at the tolerance edge, which on a large total can
// leave more cents than participants) takes cents back instead.
func distributeRemainder(shares map[string]Amount, ids []string, remainder int64) {
	if len(ids) == 0 {
		return
	}
	for i := 0; remainder != 0; i = (i + 1) % len(ids) {
		if remainder > 0 {
			shares[ids[i]]++
			remainder--
		} else {
			shares[ids[i]]--
			remainder++
		}
	}
}

func sortedIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
