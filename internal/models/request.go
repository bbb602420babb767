package models

import (
	"time"

	"github.com/google/uuid"
)

// Review statuses shared by deposits, withdrawals and task submissions.
// approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Explicit kind discriminators for merged wallet history entries.
const (
	KindDeposit    = "deposit"
	KindWithdrawal = "withdrawal"
)

type DepositRequest struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	AmountCents int64     `json:"amount_cents"`
	// TxRef is the external transaction reference the user submitted.
	TxRef     string    `json:"tx_ref"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type WithdrawalRequest struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	AmountCents int64     `json:"amount_cents"`
	// Destination is the payout account reference supplied by the user.
	Destination string    `json:"destination"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryEntry is a wallet history row: a deposit or withdrawal tagged with
// an explicit kind rather than inferred from field presence.
type HistoryEntry struct {
	Kind        string    `json:"kind"`
	ID          uuid.UUID `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
