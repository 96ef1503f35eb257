// Package money represents monetary values as integer minor units (cents).
//
// All balance arithmetic in this codebase happens on Amount, an int64 cent
// count, so repeated additions can never accumulate floating-point drift.
// Decimal values exist only at the API and storage boundaries and are
// converted through shopspring/decimal with an explicit rounding mode:
// round-half-up to two places.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor units (cents).
type Amount int64

// FromDecimal converts a decimal value (major units, e.g. "12.345") to cents,
// rounding half-up to two decimal places.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Round(2).Shift(2).IntPart())
}

// Parse converts a decimal string such as "12.34" to cents.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Decimal converts the amount back to a two-place decimal in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String renders the amount as a plain decimal, e.g. "12.34".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a == 0
}
