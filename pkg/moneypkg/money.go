// Package moneypkg converts between decimal amount strings and exact
// minor currency units. Balances never touch binary floating point.
package moneypkg

import (
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/pkg/currencypkg"
	"github.com/shopspring/decimal"
)

// Parse converts an amount string such as "40.00" into minor units of the
// given currency. It returns domain.ErrInvalidAmount if the string is not a
// positive number representable exactly in the currency's minor unit.
func Parse(amount, currency string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, domain.ErrInvalidAmount
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return 0, domain.ErrInvalidAmount
	}

	exp := currencypkg.Exponent(currency)

	minor := d.Shift(exp)
	if !minor.IsInteger() {
		return 0, domain.ErrInvalidAmount
	}

	if !minor.BigInt().IsInt64() {
		return 0, domain.ErrInvalidAmount
	}

	return minor.IntPart(), nil
}

// Format renders minor units as a decimal string in the currency's
// conventional precision, e.g. 4000 USD minor units -> "40.00".
func Format(minorUnits int64, currency string) string {
	exp := currencypkg.Exponent(currency)
	return decimal.New(minorUnits, -exp).StringFixed(exp)
}
