// Package randompkg provides functionality gor generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/corebank/ledger/pkg/currencypkg"
	"github.com/google/uuid"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Int64Between generates a random integer between min and max.
func Int64Between(min, max int64) int64 {
	return min + Intn(int(max-min))
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Owner generates a random owner user id.
func Owner() string {
	return String(6)
}

// AccountID generates a random account id.
func AccountID() string {
	return uuid.NewString()
}

// AccountNumber generates a random 12 digit display account number.
func AccountNumber() string {
	var sb strings.Builder

	for i := 0; i < 12; i++ {
		_ = sb.WriteByte(digits[Intn(len(digits))])
	}

	return sb.String()
}

// MinorUnitsBetween generates a random amount of money in minor units between min and max.
func MinorUnitsBetween(min, max int64) int64 {
	return Int64Between(min, max)
}

// Currency generates a random currency code.
func Currency() string {
	return currencypkg.SupportedCurrencies[Intn(len(currencypkg.SupportedCurrencies))]
}
