// Package entryservice manages business logic layer of ledger entries.
// Entries are append-only; everything here is read-only and side-effect free.
package entryservice

import (
	"context"

	"github.com/corebank/ledger/internal/accountstore"
	"github.com/corebank/ledger/internal/domain"
)

// Service facilitates entry service layer logic.
type Service struct {
	store accountstore.Store
}

// New returns entry service struct to manage entry listing logic.
func New(store accountstore.Store) *Service {
	return &Service{store: store}
}

// ListForAccount returns the latest entries of the account, newest first.
// The account must exist and belong to the requesting user.
func (s *Service) ListForAccount(ctx context.Context, userID, accountID string, limit int32) ([]domain.Entry, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.Owner != userID {
		return nil, domain.ErrAccountOwnerMismatch
	}

	return s.store.ListEntriesForAccount(ctx, accountID, limit)
}

// ListForUser returns the latest entries across all of the user's accounts,
// newest first.
func (s *Service) ListForUser(ctx context.Context, userID string, limit int32) ([]domain.Entry, error) {
	return s.store.ListEntriesForUser(ctx, userID, limit)
}
