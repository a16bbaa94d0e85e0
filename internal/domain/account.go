// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountNotActive indicates that the account is frozen or closed.
	ErrAccountNotActive = errors.New("account is not active")
	// ErrAccountNumberTaken indicates that the generated account number collided.
	ErrAccountNumberTaken = errors.New("account number already exists")
	// ErrAccountOwnerMismatch indicates that the account belongs to another user.
	ErrAccountOwnerMismatch = errors.New("account does not belong to the user")
)

// Account types.
const (
	TypeChecking   = "checking"
	TypeSavings    = "savings"
	TypeBusiness   = "business"
	TypeInvestment = "investment"
)

// AccountTypes holds all supported account types.
var AccountTypes = []string{TypeChecking, TypeSavings, TypeBusiness, TypeInvestment}

// Account lifecycle statuses.
const (
	StatusActive = "active"
	StatusFrozen = "frozen"
	StatusClosed = "closed"
)

// Account holds one user's balance for a specific currency.
// Balance is kept in minor currency units (e.g. cents) and never goes below zero.
type Account struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Owner     string    `json:"owner"`
	Type      string    `json:"type"`
	Balance   int64     `json:"balance"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// IsActive reports whether the account may take part in money movements.
func (a Account) IsActive() bool {
	return a.Status == StatusActive
}

// IsSupportedAccountType returns true if the account type is supported.
func IsSupportedAccountType(accountType string) bool {
	for _, t := range AccountTypes {
		if t == accountType {
			return true
		}
	}

	return false
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	Number   string `json:"number"`
	Owner    string `json:"owner"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
}
