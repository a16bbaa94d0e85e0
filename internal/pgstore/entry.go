package pgstore

import (
	"context"
	"errors"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/pkg/dbpkg"
	"github.com/corebank/ledger/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const createEntryQuery = `
INSERT INTO
    entries (id, transfer_id, user_id, account_id, direction, category, amount, description, related_account_id, status, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, transfer_id, user_id, account_id, direction, category, amount, description, related_account_id, status, created_at
`

func insertEntry(ctx context.Context, db dbpkg.SQLInterface, entry domain.Entry) (domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	row := db.QueryRowContext(ctx, createEntryQuery,
		entry.ID,
		entry.TransferID,
		entry.UserID,
		entry.AccountID,
		entry.Direction,
		entry.Category,
		entry.Amount,
		entry.Description,
		nullableID(entry.RelatedAccountID),
		entry.Status,
		entry.CreatedAt,
	)

	var (
		e       domain.Entry
		related *string
	)

	err := row.Scan(
		&e.ID,
		&e.TransferID,
		&e.UserID,
		&e.AccountID,
		&e.Direction,
		&e.Category,
		&e.Amount,
		&e.Description,
		&related,
		&e.Status,
		&e.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "entries_account_id_fkey":
				return e, domain.ErrAccountNotFound
			case "entries_amount_check":
				return e, domain.ErrInvalidAmount
			}
		}

		return e, errorspkg.ErrInternal
	}

	if related != nil {
		e.RelatedAccountID = *related
	}

	return e, nil
}

func nullableID(id string) interface{} {
	if id == "" {
		return nil
	}

	return id
}

// CreateEntry appends the entry outside of an atomic unit.
func (s *Store) CreateEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	return insertEntry(ctx, s.db, entry)
}

const listEntriesForAccountQuery = `
SELECT id, transfer_id, user_id, account_id, direction, category, amount, description, related_account_id, status, created_at
FROM entries
WHERE account_id = $1
ORDER BY created_at DESC, id
LIMIT $2
`

// ListEntriesForAccount returns the latest entries of the given account.
func (s *Store) ListEntriesForAccount(ctx context.Context, accountID string, limit int32) ([]domain.Entry, error) {
	return s.listEntries(ctx, listEntriesForAccountQuery, accountID, limit)
}

const listEntriesForUserQuery = `
SELECT id, transfer_id, user_id, account_id, direction, category, amount, description, related_account_id, status, created_at
FROM entries
WHERE user_id = $1
ORDER BY created_at DESC, id
LIMIT $2
`

// ListEntriesForUser returns the latest entries across all of the user's accounts.
func (s *Store) ListEntriesForUser(ctx context.Context, userID string, limit int32) ([]domain.Entry, error) {
	return s.listEntries(ctx, listEntriesForUserQuery, userID, limit)
}

func (s *Store) listEntries(ctx context.Context, query, key string, limit int32) ([]domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, query, key, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Entry{}

	for rows.Next() {
		var (
			e       domain.Entry
			related *string
		)

		if err := rows.Scan(
			&e.ID,
			&e.TransferID,
			&e.UserID,
			&e.AccountID,
			&e.Direction,
			&e.Category,
			&e.Amount,
			&e.Description,
			&related,
			&e.Status,
			&e.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		if related != nil {
			e.RelatedAccountID = *related
		}

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
