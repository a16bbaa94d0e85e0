// Package pgstore implements the account store on PostgreSQL.
package pgstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/corebank/ledger/internal/accountstore"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/pkg/dbpkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// Bounded re-execution of a conflicted atomic unit before surfacing
// domain.ErrContention.
const maxAtomicAttempts = 4

// Store facilitates account storage layer logic on PostgreSQL.
type Store struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// New returns a Store with a connection able to start transactions.
func New(conn *sql.DB) *Store {
	return &Store{
		db:   conn,
		conn: conn,
	}
}

// NewWithDB returns a Store bound to the given handle. It serves the query
// methods only; RunAtomic requires a Store created with New.
func NewWithDB(db dbpkg.SQLInterface) *Store {
	return &Store{db: db}
}

// RunAtomic executes fn within one database transaction. Statements issued
// through the handle hold row locks until commit. Serialization failures and
// deadlocks abort the transaction and re-execute fn from scratch up to
// maxAtomicAttempts times.
func (s *Store) RunAtomic(ctx context.Context, fn func(tx accountstore.Tx) error) error {
	l := zerolog.Ctx(ctx)

	if s.conn == nil {
		l.Error().Msg("RunAtomic called on a store without a transaction-capable connection")
		return domain.ErrStoreUnavailable
	}

	var err error

	for attempt := 1; attempt <= maxAtomicAttempts; attempt++ {
		err = s.runOnce(ctx, fn)
		if !isSerializationFailure(err) {
			return err
		}

		l.Info().Err(err).Int("attempt", attempt).Msg("atomic unit conflicted")
	}

	return domain.ErrContention
}

func (s *Store) runOnce(ctx context.Context, fn func(tx accountstore.Tx) error) error {
	l := zerolog.Ctx(ctx)

	dbtx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.ErrStoreUnavailable
	}

	if err := fn(&storeTx{db: dbtx}); err != nil {
		if rbErr := dbtx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			l.Error().Err(rbErr).Msg("rollback failed")
		}

		return err
	}

	if err := dbtx.Commit(); err != nil {
		l.Error().Err(err).Send()

		if isSerializationFailure(err) {
			return err
		}

		return domain.ErrStoreUnavailable
	}

	return nil
}

// isSerializationFailure reports whether the error is a conflict the
// transaction can be retried on: serialization_failure or deadlock_detected.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}

	return false
}

// storeTx adapts one *sql.Tx to the accountstore.Tx contract.
type storeTx struct {
	db dbpkg.SQLInterface
}

const getAccountForUpdateQuery = `
SELECT
	id, number, owner, type, balance, currency, status, created_at
FROM accounts
WHERE id = $1
FOR UPDATE
`

// GetAccountForUpdate reads the account and takes its row lock. Callers
// touching several accounts must request them in ascending id order.
func (t *storeTx) GetAccountForUpdate(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(ctx, t.db.QueryRowContext(ctx, getAccountForUpdateQuery, id))
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING id, number, owner, type, balance, currency, status, created_at
`

// AddBalance changes the account's balance and returns the changed account.
func (t *storeTx) AddBalance(ctx context.Context, id string, delta int64) (domain.Account, error) {
	return scanAccount(ctx, t.db.QueryRowContext(ctx, addBalanceQuery, delta, id))
}

// CreateEntry persists the entry within the transaction.
func (t *storeTx) CreateEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	return insertEntry(ctx, t.db, entry)
}
