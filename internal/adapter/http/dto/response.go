package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FundIntentResponse carries deposit instructions back to the client.
type FundIntentResponse struct {
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	Narration     string `json:"narration"`
	PaymentLink   string `json:"payment_link,omitempty"`
	Reference     string `json:"reference,omitempty"`
}

// FundIntentFromUseCase converts a funding intent to a response.
func FundIntentFromUseCase(intent *usecase.FundIntent) *FundIntentResponse {
	return &FundIntentResponse{
		AccountNumber: intent.AccountNumber,
		BankName:      intent.BankName,
		Narration:     intent.Narration,
		PaymentLink:   intent.PaymentLink,
		Reference:     intent.Reference,
	}
}

// SettlementResponse reports what happened to one inbound payment.
type SettlementResponse struct {
	Outcome       string          `json:"outcome"`
	TransactionID string          `json:"transaction_id,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
}

// SettlementFromUseCase converts a settlement result to a response.
func SettlementFromUseCase(res *usecase.SettlementResult) *SettlementResponse {
	return &SettlementResponse{
		Outcome:       string(res.Outcome),
		TransactionID: res.TransactionID,
		UserID:        res.UserID,
		Amount:        res.Amount,
		WalletBalance: res.WalletBalance,
	}
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID            string          `json:"id"`
	Provider      string          `json:"provider"`
	ProviderTxnID string          `json:"provider_txn_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Direction     string          `json:"direction"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Processed     bool            `json:"processed"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
}

// TransactionFromDomain converts a ledger entry to a response.
func TransactionFromDomain(t *domain.PaymentTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		Provider:      t.Provider,
		ProviderTxnID: t.ProviderTxnID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Direction:     string(t.Direction),
		Metadata:      t.Metadata,
		Processed:     t.Processed,
		CreatedAt:     t.CreatedAt,
		ProcessedAt:   t.ProcessedAt,
	}
}

// TransactionsFromDomain converts ledger entries to responses.
func TransactionsFromDomain(txns []*domain.PaymentTransaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// PayoutResponse represents a vendor payout in API responses.
type PayoutResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	VendorID     string          `json:"vendor_id"`
	OrderID      string          `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	VendorAmount decimal.Decimal `json:"vendor_amount"`
	Provider     string          `json:"provider,omitempty"`
	Status       string          `json:"status"`
	Reference    string          `json:"reference"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PayoutFromDomain converts a payout to a response.
func PayoutFromDomain(p *domain.VendorPayout) *PayoutResponse {
	return &PayoutResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		VendorID:     p.VendorID,
		OrderID:      p.OrderID,
		Amount:       p.Amount,
		Fee:          p.Fee,
		VendorAmount: p.VendorAmount,
		Provider:     p.Provider,
		Status:       string(p.Status),
		Reference:    p.Reference,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// PayoutsFromDomain converts payouts to responses.
func PayoutsFromDomain(payouts []*domain.VendorPayout) []*PayoutResponse {
	result := make([]*PayoutResponse, len(payouts))
	for i, p := range payouts {
		result[i] = PayoutFromDomain(p)
	}
	return result
}

// PayoutResultResponse is the outcome of a payout request.
type PayoutResultResponse struct {
	Payout        *PayoutResponse `json:"payout"`
	Provider      string          `json:"provider,omitempty"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	Duplicate     bool            `json:"duplicate,omitempty"`
}

// PayoutResultFromUseCase converts a payout result to a response.
func PayoutResultFromUseCase(res *usecase.PayoutResult) *PayoutResultResponse {
	return &PayoutResultResponse{
		Payout:        PayoutFromDomain(res.Payout),
		Provider:      string(res.Provider),
		WalletBalance: res.WalletBalance,
		Duplicate:     res.Duplicate,
	}
}

// ProviderPoolResponse is one provider's pooled balance.
type ProviderPoolResponse struct {
	Provider      string          `json:"provider"`
	PooledBalance decimal.Decimal `json:"pooled_balance"`
}

// ReconciliationReportResponse is the operator view of undistributed money.
type ReconciliationReportResponse struct {
	UnprocessedCount int                    `json:"unprocessed_count"`
	UnprocessedTotal decimal.Decimal        `json:"unprocessed_total"`
	Pools            []ProviderPoolResponse `json:"pools"`
	PendingPayouts   int                    `json:"pending_payouts"`
	FailedPayouts    int                    `json:"failed_payouts"`
}

// ReportFromUseCase converts a reconciliation report to a response.
func ReportFromUseCase(report *usecase.ReconciliationReport) *ReconciliationReportResponse {
	pools := make([]ProviderPoolResponse, len(report.Pools))
	for i, p := range report.Pools {
		pools[i] = ProviderPoolResponse{
			Provider:      p.Provider,
			PooledBalance: p.PooledBalance,
		}
	}
	return &ReconciliationReportResponse{
		UnprocessedCount: report.UnprocessedCount,
		UnprocessedTotal: report.UnprocessedTotal,
		Pools:            pools,
		PendingPayouts:   report.PendingPayouts,
		FailedPayouts:    report.FailedPayouts,
	}
}

// ListResponse wraps a paginated collection.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
