package pgstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(ctx context.Context, row rowScanner) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Number,
		&a.Owner,
		&a.Type,
		&a.Balance,
		&a.Currency,
		&a.Status,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "40001", "40P01":
				return a, err
			}

			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientBalance
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const createAccountQuery = `
INSERT INTO
    accounts (id, number, owner, type, balance, currency, status)
VALUES
    ($1, $2, $3, $4, 0, $5, 'active')
RETURNING id, number, owner, type, balance, currency, status, created_at
`

// CreateAccount creates the account with a zero balance and then returns it.
func (s *Store) CreateAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := s.db.QueryRowContext(ctx, createAccountQuery,
		uuid.NewString(),
		arg.Number,
		arg.Owner,
		arg.Type,
		arg.Currency,
	)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Number,
		&a.Owner,
		&a.Type,
		&a.Balance,
		&a.Currency,
		&a.Status,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Constraint == "accounts_number_key" {
				return a, domain.ErrAccountNumberTaken
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getAccountQuery = `
SELECT
	id, number, owner, type, balance, currency, status, created_at
FROM accounts
WHERE id = $1
`

// GetAccount returns the account with the given id.
func (s *Store) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(ctx, s.db.QueryRowContext(ctx, getAccountQuery, id))
}

const listAccountsQuery = `
SELECT
	id, number, owner, type, balance, currency, status, created_at
FROM accounts
WHERE owner = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

// ListAccountsForUser returns the specified number of accounts for the given user.
func (s *Store) ListAccountsForUser(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, listAccountsQuery, owner, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Number, &a.Owner, &a.Type, &a.Balance, &a.Currency, &a.Status, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
