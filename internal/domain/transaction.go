package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies a money movement in the payment ledger.
type Direction string

const (
	// DirectionIn is an inbound payment landing in a central account.
	DirectionIn Direction = "in"
	// DirectionDistribute moves pooled funds from a central account into a
	// matched user's wallet.
	DirectionDistribute Direction = "distribute"
	// DirectionPayout moves funds from a user's wallet to a vendor's bank
	// account via an external provider.
	DirectionPayout Direction = "payout"
	// DirectionOut is any other outbound movement from a central account.
	DirectionOut Direction = "out"
)

// PaymentTransaction is an immutable, append-only ledger record of one money
// movement. (provider, provider_txn_id) is unique: re-delivery of the same
// external event must be a no-op. Rows are never updated except to flip
// Processed and attach ProcessedAt plus result metadata.
type PaymentTransaction struct {
	ID               string
	Provider         string
	ProviderTxnID    string
	Amount           decimal.Decimal
	Currency         string
	Direction        Direction
	CentralAccountID string
	TargetUserID     string
	TargetVendorID   string
	Metadata         map[string]any
	Processed        bool
	CreatedAt        time.Time
	ProcessedAt      *time.Time
}

// Validate checks structural invariants before insert.
func (t *PaymentTransaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	switch t.Direction {
	case DirectionIn, DirectionDistribute, DirectionPayout, DirectionOut:
		return nil
	default:
		return ErrInvalidDirection
	}
}
