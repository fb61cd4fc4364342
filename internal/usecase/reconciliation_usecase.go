package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
)

// ProviderPoolStatus is one provider's pooled balance against its pending
// inbound entries.
type ProviderPoolStatus struct {
	Provider      string
	PooledBalance decimal.Decimal
}

// ReconciliationReport is the operator view of money that arrived but has not
// reached a wallet yet.
type ReconciliationReport struct {
	UnprocessedCount int
	UnprocessedTotal decimal.Decimal
	Pools            []ProviderPoolStatus
	PendingPayouts   int
	FailedPayouts    int
}

// ReconciliationUseCase aggregates the operator-facing view over the ledger,
// settlement, and payout state.
type ReconciliationUseCase struct {
	ledger     *LedgerUseCase
	settlement *SettlementUseCase
	txnRepo    TransactionRepository
	payoutRepo PayoutRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	ledger *LedgerUseCase,
	settlement *SettlementUseCase,
	txnRepo TransactionRepository,
	payoutRepo PayoutRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledger:     ledger,
		settlement: settlement,
		txnRepo:    txnRepo,
		payoutRepo: payoutRepo,
	}
}

// Report summarizes unreconciled money: pooled inbound entries that were
// never distributed, per-provider pool balances, and payouts stuck in flight
// or failed.
func (uc *ReconciliationUseCase) Report(ctx context.Context) (*ReconciliationReport, error) {
	unprocessed, err := uc.txnRepo.ListUnprocessedInbound(ctx, 1000, 0)
	if err != nil {
		return nil, err
	}

	total, err := uc.txnRepo.SumUnprocessedInbound(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.ledger.ListCentralAccounts(ctx)
	if err != nil {
		return nil, err
	}

	pools := make([]ProviderPoolStatus, 0, len(accounts))
	for _, a := range accounts {
		pools = append(pools, ProviderPoolStatus{
			Provider:      a.Provider,
			PooledBalance: a.Balance,
		})
	}

	pending, err := uc.payoutRepo.ListByStatus(ctx, domain.PayoutStatusProcessing, 1000, 0)
	if err != nil {
		return nil, err
	}
	failed, err := uc.payoutRepo.ListByStatus(ctx, domain.PayoutStatusFailed, 1000, 0)
	if err != nil {
		return nil, err
	}

	return &ReconciliationReport{
		UnprocessedCount: len(unprocessed),
		UnprocessedTotal: total,
		Pools:            pools,
		PendingPayouts:   len(pending),
		FailedPayouts:    len(failed),
	}, nil
}

// ListUnmatched returns pooled inbound entries awaiting manual resolution.
func (uc *ReconciliationUseCase) ListUnmatched(ctx context.Context, limit, offset int) ([]*domain.PaymentTransaction, error) {
	return uc.settlement.ListUnmatched(ctx, limit, offset)
}

// ResolveUnmatched distributes a pooled inbound entry to a user.
func (uc *ReconciliationUseCase) ResolveUnmatched(ctx context.Context, transactionID, userID string) (*SettlementResult, error) {
	return uc.settlement.ResolveUnmatched(ctx, transactionID, userID)
}

// ListPayouts lists payouts by status for operator review.
func (uc *ReconciliationUseCase) ListPayouts(ctx context.Context, status domain.PayoutStatus, limit, offset int) ([]*domain.VendorPayout, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return uc.payoutRepo.ListByStatus(ctx, status, limit, offset)
}
