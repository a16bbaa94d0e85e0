// Package transferservice manages business logic layer of transfers.
//
// The service is the sole mutator of account balances during a transfer.
// It holds no state between calls; all shared state lives in the account
// store and is touched only inside one atomic unit of work.
package transferservice

import (
	"context"
	"errors"
	"time"

	"github.com/corebank/ledger/internal/accountstore"
	"github.com/corebank/ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service facilitates transfer service layer logic.
type Service struct {
	store accountstore.Store
}

// New returns transfer service struct to manage transfer bussines logic.
func New(store accountstore.Store) *Service {
	return &Service{store: store}
}

// Transfer atomically moves the amount between the two accounts and
// appends the debit and credit ledger entries. Any business rule failure
// aborts the whole unit before a single balance is touched.
func (s *Service) Transfer(ctx context.Context, fromUserID string, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	if arg.Amount <= 0 {
		return domain.TransferTxResult{}, domain.ErrInvalidAmount
	}

	if arg.FromAccountID == arg.ToAccountID {
		return domain.TransferTxResult{}, domain.ErrSameAccountTransfer
	}

	var result domain.TransferTxResult

	err := s.store.RunAtomic(ctx, func(tx accountstore.Tx) error {
		from, to, err := lockAccounts(ctx, tx, arg.FromAccountID, arg.ToAccountID)
		if err != nil {
			return err
		}

		if from.Owner != fromUserID {
			return domain.ErrAccountOwnerMismatch
		}

		if !from.IsActive() || !to.IsActive() {
			return domain.ErrAccountNotActive
		}

		if from.Currency != to.Currency || (arg.Currency != "" && from.Currency != arg.Currency) {
			return domain.ErrCurrencyMismatch
		}

		if from.Balance < arg.Amount {
			return domain.ErrInsufficientBalance
		}

		result, err = s.applyTransfer(ctx, tx, fromUserID, from, to, arg)

		return err
	})

	if err != nil {
		l.Info().Err(err).
			Str("from_account_id", arg.FromAccountID).
			Str("to_account_id", arg.ToAccountID).
			Int64("amount", arg.Amount).
			Msg("transfer failed")

		return domain.TransferTxResult{}, err
	}

	return result, nil
}

// lockAccounts reads both accounts with their row locks taken in ascending
// id order, so two opposite transfers over the same pair cannot deadlock.
func lockAccounts(ctx context.Context, tx accountstore.Tx, fromID, toID string) (from, to domain.Account, err error) {
	lockFrom := func() error {
		from, err = tx.GetAccountForUpdate(ctx, fromID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrSourceAccountNotFound
		}

		return err
	}

	lockTo := func() error {
		to, err = tx.GetAccountForUpdate(ctx, toID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrDestinationAccountNotFound
		}

		return err
	}

	if fromID < toID {
		if err := lockFrom(); err != nil {
			return from, to, err
		}

		if err := lockTo(); err != nil {
			return from, to, err
		}
	} else {
		if err := lockTo(); err != nil {
			return from, to, err
		}

		if err := lockFrom(); err != nil {
			return from, to, err
		}
	}

	return from, to, nil
}

// applyTransfer stages the two balance changes in ascending id order and
// appends the entry pair: same transfer id, same timestamp, one debit on
// the source owned by the requester, one credit on the destination owned
// by the destination account's owner, each referencing the counterparty.
func (s *Service) applyTransfer(ctx context.Context, tx accountstore.Tx, fromUserID string, from, to domain.Account, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	var err error
	if from.ID < to.ID {
		result.FromAccount, err = tx.AddBalance(ctx, from.ID, -arg.Amount)
		if err == nil {
			result.ToAccount, err = tx.AddBalance(ctx, to.ID, arg.Amount)
		}
	} else {
		result.ToAccount, err = tx.AddBalance(ctx, to.ID, arg.Amount)
		if err == nil {
			result.FromAccount, err = tx.AddBalance(ctx, from.ID, -arg.Amount)
		}
	}

	if err != nil {
		return result, err
	}

	result.TransferID = uuid.NewString()
	createdAt := time.Now().UTC()

	result.FromEntry, err = tx.CreateEntry(ctx, domain.Entry{
		ID:               uuid.NewString(),
		TransferID:       result.TransferID,
		UserID:           fromUserID,
		AccountID:        from.ID,
		Direction:        domain.DirectionDebit,
		Category:         domain.CategoryTransfer,
		Amount:           arg.Amount,
		Description:      arg.Description,
		RelatedAccountID: to.ID,
		Status:           domain.EntryCompleted,
		CreatedAt:        createdAt,
	})
	if err != nil {
		return result, err
	}

	result.ToEntry, err = tx.CreateEntry(ctx, domain.Entry{
		ID:               uuid.NewString(),
		TransferID:       result.TransferID,
		UserID:           to.Owner,
		AccountID:        to.ID,
		Direction:        domain.DirectionCredit,
		Category:         domain.CategoryTransfer,
		Amount:           arg.Amount,
		Description:      arg.Description,
		RelatedAccountID: from.ID,
		Status:           domain.EntryCompleted,
		CreatedAt:        createdAt,
	})

	return result, err
}
