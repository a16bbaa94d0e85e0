package entryservice

import (
	"context"
	"testing"

	"github.com/corebank/ledger/internal/accountservice"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/memstore"
	"github.com/corebank/ledger/internal/transferservice"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*memstore.Store, *Service, domain.Account, domain.Account) {
	t.Helper()

	store := memstore.New()
	accounts := accountservice.New(store)
	transfers := transferservice.New(store)

	from, err := accounts.Create(context.Background(), "alice", domain.TypeChecking, "USD")
	require.NoError(t, err)

	to, err := accounts.Create(context.Background(), "bob", domain.TypeChecking, "USD")
	require.NoError(t, err)

	_, _, err = accounts.Deposit(context.Background(), "alice", from.ID, 10000, "USD", "seed")
	require.NoError(t, err)

	_, err = transfers.Transfer(context.Background(), "alice", domain.CreateTransferParams{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        4000,
		Currency:      "USD",
		Description:   "rent",
	})
	require.NoError(t, err)

	return store, New(store), from, to
}

func TestListForAccount(t *testing.T) {
	_, service, from, _ := setup(t)

	entries, err := service.ListForAccount(context.Background(), "alice", from.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first: the transfer debit precedes the seed deposit.
	require.Equal(t, domain.CategoryTransfer, entries[0].Category)
	require.Equal(t, domain.DirectionDebit, entries[0].Direction)
	require.Equal(t, domain.CategoryDeposit, entries[1].Category)
}

func TestListForAccountLimit(t *testing.T) {
	_, service, from, _ := setup(t)

	entries, err := service.ListForAccount(context.Background(), "alice", from.ID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestListForAccountOwnerMismatch(t *testing.T) {
	_, service, from, _ := setup(t)

	_, err := service.ListForAccount(context.Background(), "mallory", from.ID, 10)
	require.ErrorIs(t, err, domain.ErrAccountOwnerMismatch)
}

func TestListForAccountNotFound(t *testing.T) {
	_, service, _, _ := setup(t)

	_, err := service.ListForAccount(context.Background(), "alice", "ghost", 10)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestListForUser(t *testing.T) {
	_, service, _, to := setup(t)

	entries, err := service.ListForUser(context.Background(), "bob", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.Equal(t, to.ID, entries[0].AccountID)
	require.Equal(t, domain.DirectionCredit, entries[0].Direction)

	entries, err = service.ListForUser(context.Background(), "nobody", 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}
