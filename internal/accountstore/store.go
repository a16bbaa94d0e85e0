// Package accountstore defines the contract of the durable account store.
//
// The store is the only holder of shared state: account balances and the
// append-only ledger. All balance mutation goes through RunAtomic; the
// query methods are side-effect-free.
package accountstore

import (
	"context"

	"github.com/corebank/ledger/internal/domain"
)

// Tx is the transactional handle passed to a RunAtomic unit of work.
// Reads through it are isolated from concurrent writers; staged updates
// and created entries become visible only when the unit commits.
type Tx interface {
	// GetAccountForUpdate reads the account and locks it against
	// concurrent modification until the unit commits or aborts.
	GetAccountForUpdate(ctx context.Context, id string) (domain.Account, error)

	// AddBalance stages a balance change and returns the account with the
	// staged balance applied. A change that would take the balance below
	// zero fails with domain.ErrInsufficientBalance.
	AddBalance(ctx context.Context, id string, delta int64) (domain.Account, error)

	// CreateEntry stages an immutable ledger entry.
	CreateEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error)
}

// Store provides account records, the append-only entry ledger and the
// atomic unit-of-work mechanism.
//
//go:generate mockgen -source store.go -destination store_mock.go -package accountstore
type Store interface {
	// RunAtomic executes fn against a transactional handle. Either all
	// staged updates and entries commit together or none do. On a
	// conflicting concurrent modification the implementation re-executes
	// fn from scratch a bounded number of times before giving up with
	// domain.ErrContention.
	RunAtomic(ctx context.Context, fn func(tx Tx) error) error

	CreateAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	ListAccountsForUser(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error)

	// CreateEntry appends a ledger entry outside of a transfer, e.g. on
	// the deposit path driven by external collaborators.
	CreateEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error)

	// Entry listings are ordered by creation time descending.
	ListEntriesForAccount(ctx context.Context, accountID string, limit int32) ([]domain.Entry, error)
	ListEntriesForUser(ctx context.Context, userID string, limit int32) ([]domain.Entry, error)
}
