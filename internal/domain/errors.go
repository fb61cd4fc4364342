package domain

import "errors"

var (
	// Ledger errors
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrDuplicateTransaction   = errors.New("transaction already recorded")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrCentralAccountNotFound = errors.New("central account not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidDirection       = errors.New("invalid transaction direction")

	// Payout errors
	ErrVendorNotFound          = errors.New("vendor not found")
	ErrPayoutNotFound          = errors.New("payout not found")
	ErrDuplicatePayout         = errors.New("payout for order already exists")
	ErrAllProvidersFailed      = errors.New("all payout providers failed")
	ErrInvalidPayoutTransition = errors.New("invalid payout status transition")
	ErrFeeMismatch             = errors.New("vendor amount plus fee must equal gross amount")

	// Settlement errors
	ErrUnknownProvider  = errors.New("unknown payment provider")
	ErrInvalidFullName  = errors.New("full name is required")
	ErrFullNameNotFound = errors.New("fullname record not found")
)
