package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus is the lifecycle state of a vendor payout.
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// CanTransitionTo reports whether a status change is legal. Completed and
// failed are terminal.
func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	switch s {
	case PayoutStatusPending:
		return next == PayoutStatusProcessing || next == PayoutStatusFailed
	case PayoutStatusProcessing:
		return next == PayoutStatusCompleted || next == PayoutStatusFailed
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s PayoutStatus) Terminal() bool {
	return s == PayoutStatusCompleted || s == PayoutStatusFailed
}

// VendorPayout is the durable intent and outcome of one wallet-to-vendor
// payout. Created before any external call; status transitions are the only
// mutation and rows are never deleted. OrderID is unique so a retried payout
// for the same order cannot double-debit.
type VendorPayout struct {
	ID            string
	UserID        string
	VendorID      string
	OrderID       string
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	VendorAmount  decimal.Decimal
	Provider      string
	BankCode      string
	AccountNumber string
	Status        PayoutStatus
	Reference     string
	Response      map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks fee arithmetic and structural invariants.
func (p *VendorPayout) Validate() error {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !p.VendorAmount.Add(p.Fee).Equal(p.Amount) {
		return ErrFeeMismatch
	}
	if p.VendorAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}
