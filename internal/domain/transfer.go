package domain

import "errors"

var (
	// ErrInvalidAmount indicates a zero, negative or unparsable amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrSameAccountTransfer indicates that source and destination are the same account.
	ErrSameAccountTransfer = errors.New("transfer to the same account")
	// ErrSourceAccountNotFound indicates that the source account does not exist.
	ErrSourceAccountNotFound = errors.New("source account not found")
	// ErrDestinationAccountNotFound indicates that the destination account does not exist.
	ErrDestinationAccountNotFound = errors.New("destination account not found")
	// ErrCurrencyMismatch indicates that transfer accounts have different currencies.
	ErrCurrencyMismatch = errors.New("accounts currency mismatch")
	// ErrInsufficientBalance indicates that the source account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrContention indicates that concurrent writers kept conflicting on the
	// touched accounts after all retries. The request may be safely resubmitted.
	ErrContention = errors.New("account contention, retry the transfer")
	// ErrStoreUnavailable indicates that the store failed to commit for
	// infrastructure reasons. The outcome must be confirmed via read paths.
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// CreateTransferParams is the input data for the transfer transaction.
// Amount is in minor currency units and must be positive.
type CreateTransferParams struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	TransferID  string  `json:"transfer_id"`
	FromAccount Account `json:"from_account"`
	ToAccount   Account `json:"to_account"`
	FromEntry   Entry   `json:"from_entry"`
	ToEntry     Entry   `json:"to_entry"`
}
