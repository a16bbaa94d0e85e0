// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import "github.com/go-playground/validator/v10"

// Constants for all supported currencies.
const (
	USD = "USD"
	EUR = "EUR"
	JPY = "JPY"
)

// SupportedCurrencies holds all the supported currencies.
var SupportedCurrencies = []string{
	USD,
	EUR,
	JPY,
}

// exponents holds the number of minor unit digits per currency.
var exponents = map[string]int32{
	USD: 2,
	EUR: 2,
	JPY: 0,
}

// IsSupportedCurrency returns true if the currncy is supported.
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}

	return false
}

// Exponent returns the number of decimal digits of the currency's minor unit.
func Exponent(currency string) int32 {
	return exponents[currency]
}

// ValidCurrency validates whether the currency is supported.
var ValidCurrency validator.Func = func(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(string); ok {
		return IsSupportedCurrency(c)
	}
	return false
}
