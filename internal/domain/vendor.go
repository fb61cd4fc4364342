package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor is a read-only collaborator lookup: the marketplace owns vendor
// records, the settlement core only needs routing details and the fee.
type Vendor struct {
	ID          string
	Name        string
	Email       string
	BankCode    string
	BankAccount string
	// PlatformFee overrides the configured default flat fee when set.
	PlatformFee *decimal.Decimal
	CreatedAt   time.Time
}
