// Package valueobject contains domain value objects for the CashSplit backend.
package valueobject

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of fractional digits in a currency amount.
const MinorUnitExponent = 2

var (
	// ErrTooPrecise is returned when an amount has more fractional digits than the currency supports.
	ErrTooPrecise = errors.New("amount has more fractional digits than the currency allows")

	// ErrOutOfRange is returned when an amount does not fit in minor units.
	ErrOutOfRange = errors.New("amount out of range")
)

var maxMinorUnits = decimal.NewFromInt(1 << 53)

// ToMinorUnits converts a decimal amount such as 12.34 into minor units (1234).
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(MinorUnitExponent)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, ErrTooPrecise
	}
	if shifted.Abs().GreaterThan(maxMinorUnits) {
		return 0, ErrOutOfRange
	}
	return shifted.IntPart(), nil
}

// FromMinorUnits converts minor units back into a decimal amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}

// FormatMinorUnits renders minor units with exactly two decimal places.
func FormatMinorUnits(minor int64) string {
	return FromMinorUnits(minor).StringFixed(MinorUnitExponent)
}
