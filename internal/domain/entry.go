package domain

import "time"

// Entry directions.
const (
	DirectionDebit  = "debit"
	DirectionCredit = "credit"
)

// Entry categories.
const (
	CategoryTransfer = "transfer"
	CategoryDeposit  = "deposit"
)

// Entry statuses.
const (
	EntryCompleted = "completed"
	EntryPending   = "pending"
	EntryFailed    = "failed"
)

// Entry is one immutable side of a money movement on an account.
// Amount is always positive and in minor currency units; the direction
// tells whether the account was debited or credited. A transfer writes
// two entries sharing one TransferID, each pointing at the counterparty
// account via RelatedAccountID.
type Entry struct {
	ID               string    `json:"id"`
	TransferID       string    `json:"transfer_id"`
	UserID           string    `json:"user_id"`
	AccountID        string    `json:"account_id"`
	Direction        string    `json:"direction"`
	Category         string    `json:"category"`
	Amount           int64     `json:"amount"`
	Description      string    `json:"description"`
	RelatedAccountID string    `json:"related_account_id,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}
