package dto

import (
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/usecase"
)

// FundWalletRequest asks for deposit instructions (and optionally a hosted
// payment link) for a user.
type FundWalletRequest struct {
	UserID   string          `json:"user_id"`
	FullName string          `json:"full_name"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	Amount   decimal.Decimal `json:"amount"`
	Provider string          `json:"provider,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *FundWalletRequest) ToUseCaseInput() usecase.FundIntentInput {
	return usecase.FundIntentInput{
		UserID:   r.UserID,
		FullName: r.FullName,
		Phone:    r.Phone,
		Email:    r.Email,
		Amount:   r.Amount,
		Provider: r.Provider,
	}
}

// VerifyPaymentRequest asks the named provider to confirm a payment reference
// and credit the user's wallet on success.
type VerifyPaymentRequest struct {
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
	UserID    string `json:"user_id"`
}

// PayVendorRequest requests a wallet-funded payout to a vendor's bank account.
type PayVendorRequest struct {
	UserID   string          `json:"user_id"`
	VendorID string          `json:"vendor_id"`
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Provider string          `json:"provider,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PayVendorRequest) ToUseCaseInput() usecase.PayVendorInput {
	return usecase.PayVendorInput{
		UserID:   r.UserID,
		VendorID: r.VendorID,
		OrderID:  r.OrderID,
		Amount:   r.Amount,
		Provider: r.Provider,
	}
}

// ResolveUnmatchedRequest assigns a pooled inbound payment to a user.
type ResolveUnmatchedRequest struct {
	UserID string `json:"user_id"`
}
