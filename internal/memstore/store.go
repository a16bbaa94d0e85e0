// Package memstore implements the account store in process memory.
//
// One mutex serializes all atomic units, so conflicting concurrent
// modification cannot happen and RunAtomic never needs to retry. Units
// stage their writes and apply them on commit only; readers outside the
// mutex never observe a half-applied unit.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corebank/ledger/internal/accountstore"
	"github.com/corebank/ledger/internal/domain"
	"github.com/google/uuid"
)

// Store holds all accounts and ledger entries in memory.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	numbers  map[string]struct{}
	entries  []domain.Entry
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		numbers:  make(map[string]struct{}),
	}
}

// RunAtomic executes fn under the store mutex against a staging handle.
// Staged balances and entries are applied only when fn returns nil.
func (s *Store) RunAtomic(ctx context.Context, fn func(tx accountstore.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &storeTx{
		store:  s,
		staged: make(map[string]domain.Account),
	}

	if err := fn(tx); err != nil {
		return err
	}

	for id, a := range tx.staged {
		s.accounts[id] = a
	}

	s.entries = append(s.entries, tx.pending...)

	return nil
}

// storeTx stages updates for one atomic unit. The store mutex is held for
// the unit's whole lifetime, so no further locking is needed here.
type storeTx struct {
	store   *Store
	staged  map[string]domain.Account
	pending []domain.Entry
}

func (t *storeTx) get(id string) (domain.Account, bool) {
	if a, ok := t.staged[id]; ok {
		return a, true
	}

	a, ok := t.store.accounts[id]

	return a, ok
}

// GetAccountForUpdate returns the account with any staged balance applied.
func (t *storeTx) GetAccountForUpdate(ctx context.Context, id string) (domain.Account, error) {
	a, ok := t.get(id)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// AddBalance stages a balance change, rejecting one that would go below zero.
func (t *storeTx) AddBalance(ctx context.Context, id string, delta int64) (domain.Account, error) {
	a, ok := t.get(id)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if a.Balance+delta < 0 {
		return domain.Account{}, domain.ErrInsufficientBalance
	}

	a.Balance += delta
	t.staged[id] = a

	return a, nil
}

// CreateEntry stages the entry for commit.
func (t *storeTx) CreateEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	if _, ok := t.get(entry.AccountID); !ok {
		return domain.Entry{}, domain.ErrAccountNotFound
	}

	t.pending = append(t.pending, entry)

	return entry, nil
}

// CreateAccount creates the account with a zero balance and then returns it.
func (s *Store) CreateAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.numbers[arg.Number]; ok {
		return domain.Account{}, domain.ErrAccountNumberTaken
	}

	a := domain.Account{
		ID:        uuid.NewString(),
		Number:    arg.Number,
		Owner:     arg.Owner,
		Type:      arg.Type,
		Balance:   0,
		Currency:  arg.Currency,
		Status:    domain.StatusActive,
		CreatedAt: time.Now().UTC(),
	}

	s.accounts[a.ID] = a
	s.numbers[a.Number] = struct{}{}

	return a, nil
}

// GetAccount returns the account with the given id.
func (s *Store) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// ListAccountsForUser returns the user's accounts in creation order.
func (s *Store) ListAccountsForUser(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := []domain.Account{}

	for _, a := range s.accounts {
		if a.Owner == owner {
			all = append(all, a)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}

		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	if int(offset) >= len(all) {
		return []domain.Account{}, nil
	}

	all = all[offset:]
	if int(limit) < len(all) {
		all = all[:limit]
	}

	return all, nil
}

// CreateEntry appends the entry outside of an atomic unit.
func (s *Store) CreateEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[entry.AccountID]; !ok {
		return domain.Entry{}, domain.ErrAccountNotFound
	}

	s.entries = append(s.entries, entry)

	return entry, nil
}

// ListEntriesForAccount returns the latest entries of the given account.
func (s *Store) ListEntriesForAccount(ctx context.Context, accountID string, limit int32) ([]domain.Entry, error) {
	return s.listEntries(func(e domain.Entry) bool { return e.AccountID == accountID }, limit)
}

// ListEntriesForUser returns the latest entries across all of the user's accounts.
func (s *Store) ListEntriesForUser(ctx context.Context, userID string, limit int32) ([]domain.Entry, error) {
	return s.listEntries(func(e domain.Entry) bool { return e.UserID == userID }, limit)
}

func (s *Store) listEntries(match func(domain.Entry) bool, limit int32) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []domain.Entry{}

	// Entries are appended in commit order; walk backwards for newest first.
	for i := len(s.entries) - 1; i >= 0 && int32(len(items)) < limit; i-- {
		if match(s.entries[i]) {
			items = append(items, s.entries[i])
		}
	}

	return items, nil
}
