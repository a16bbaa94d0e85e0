// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/corebank/ledger/internal/accountstore"
	"github.com/corebank/ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Number generation retries on the rare collision with an existing account.
const maxNumberAttempts = 3

// Service facilitates account service layer logic.
type Service struct {
	store accountstore.Store
}

// New returns account service struct to manage account bussines logic.
func New(store accountstore.Store) *Service {
	return &Service{store: store}
}

// Create creates and returns a zero balance account for the given owner.
func (s *Service) Create(ctx context.Context, owner, accountType, currency string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var err error

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		arg := domain.CreateAccountParams{
			Number:   newAccountNumber(),
			Owner:    owner,
			Type:     accountType,
			Currency: currency,
		}

		var account domain.Account

		account, err = s.store.CreateAccount(ctx, arg)
		if !errors.Is(err, domain.ErrAccountNumberTaken) {
			return account, err
		}

		l.Info().Str("number", arg.Number).Msg("account number collision")
	}

	return domain.Account{}, err
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// List returns accounts that are owned by the given user.
func (s *Service) List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	return s.store.ListAccountsForUser(ctx, owner, limit, offset)
}

// Deposit atomically credits the account and appends a single deposit entry.
// Only the account's owner may deposit into it, and the declared currency
// must be the account's own.
func (s *Service) Deposit(ctx context.Context, userID, accountID string, amount int64, currency, description string) (domain.Account, domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	if amount <= 0 {
		return domain.Account{}, domain.Entry{}, domain.ErrInvalidAmount
	}

	var (
		account domain.Account
		entry   domain.Entry
	)

	err := s.store.RunAtomic(ctx, func(tx accountstore.Tx) error {
		current, err := tx.GetAccountForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		if current.Owner != userID {
			return domain.ErrAccountOwnerMismatch
		}

		if !current.IsActive() {
			return domain.ErrAccountNotActive
		}

		if current.Currency != currency {
			return domain.ErrCurrencyMismatch
		}

		account, err = tx.AddBalance(ctx, accountID, amount)
		if err != nil {
			return err
		}

		entry, err = tx.CreateEntry(ctx, domain.Entry{
			ID:          uuid.NewString(),
			UserID:      userID,
			AccountID:   accountID,
			Direction:   domain.DirectionCredit,
			Category:    domain.CategoryDeposit,
			Amount:      amount,
			Description: description,
			Status:      domain.EntryCompleted,
			CreatedAt:   time.Now().UTC(),
		})

		return err
	})

	if err != nil {
		l.Info().Err(err).Str("account_id", accountID).Int64("amount", amount).Msg("deposit failed")
		return domain.Account{}, domain.Entry{}, err
	}

	return account, entry, nil
}

const numberDigits = "0123456789"

// newAccountNumber generates a 12 digit display identifier. Uniqueness is
// enforced by the store; collisions are retried by Create.
func newAccountNumber() string {
	var sb strings.Builder

	for i := 0; i < 12; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(numberDigits))))
		if err != nil {
			panic(err)
		}

		_ = sb.WriteByte(numberDigits[n.Int64()])
	}

	return sb.String()
}
