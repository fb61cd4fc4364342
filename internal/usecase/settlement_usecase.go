package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
)

// InboundPaymentEvent is the verified webhook/SMS-derived shape consumed by
// the settlement matcher.
type InboundPaymentEvent struct {
	Provider      string
	ProviderTxnID string
	Amount        decimal.Decimal
	Currency      string
	Status        string
	PayerName     string
	Raw           map[string]any
}

// SettlementOutcome classifies what happened to an inbound payment.
type SettlementOutcome string

const (
	// OutcomeCredited means the payer was matched and their wallet credited.
	OutcomeCredited SettlementOutcome = "credited"
	// OutcomeUnmatched means funds stay pooled in the central account
	// awaiting manual reconciliation.
	OutcomeUnmatched SettlementOutcome = "unmatched"
	// OutcomeDuplicate means this provider transaction was already recorded.
	OutcomeDuplicate SettlementOutcome = "duplicate"
	// OutcomeIgnored means the event did not report success; nothing changed.
	OutcomeIgnored SettlementOutcome = "ignored"
)

// SettlementResult reports the outcome of processing one inbound payment.
type SettlementResult struct {
	Outcome       SettlementOutcome
	TransactionID string
	UserID        string
	Amount        decimal.Decimal
	WalletBalance decimal.Decimal
}

// SettlementUseCase consumes inbound-payment events: it credits the central
// account, then tries to resolve the payer by name and distribute the funds
// into their wallet. The two steps are deliberately separate transactions —
// the payer's identity comes from free-text narration and is unreliable, so
// received money must be safely pooled before any matching is attempted.
type SettlementUseCase struct {
	txManager    TransactionManager
	ledger       *LedgerUseCase
	txnRepo      TransactionRepository
	fullnameRepo FullNameRepository
	events       EventPublisher
	retrier      Retrier
	idGen        IDGenerator
	logger       zerolog.Logger
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	ledger *LedgerUseCase,
	txnRepo TransactionRepository,
	fullnameRepo FullNameRepository,
	events EventPublisher,
	retrier Retrier,
	idGen IDGenerator,
	logger zerolog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:    txManager,
		ledger:       ledger,
		txnRepo:      txnRepo,
		fullnameRepo: fullnameRepo,
		events:       events,
		retrier:      retrier,
		idGen:        idGen,
		logger:       logger,
	}
}

// ProcessInboundPayment applies one webhook delivery. Re-delivery of the same
// (provider, provider_txn_id) is a no-op reported as OutcomeDuplicate.
func (uc *SettlementUseCase) ProcessInboundPayment(ctx context.Context, event InboundPaymentEvent) (*SettlementResult, error) {
	if !isSuccessStatus(event.Status) {
		uc.logger.Info().
			Str("provider", event.Provider).
			Str("provider_txn_id", event.ProviderTxnID).
			Str("status", event.Status).
			Msg("ignoring non-success inbound payment")

		return &SettlementResult{Outcome: OutcomeIgnored}, nil
	}

	if event.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	existing, err := uc.txnRepo.GetByProviderTxnID(ctx, event.Provider, event.ProviderTxnID)
	if err != nil && !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, err
	}
	if existing != nil {
		return uc.duplicateResult(ctx, event, existing), nil
	}

	// Receive: record the inbound entry and credit the central account in
	// one transaction. The unique constraint closes the race where two
	// deliveries pass the lookup above simultaneously.
	inbound, err := uc.receive(ctx, event)
	if errors.Is(err, domain.ErrDuplicateTransaction) {
		existing, lookupErr := uc.txnRepo.GetByProviderTxnID(ctx, event.Provider, event.ProviderTxnID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return uc.duplicateResult(ctx, event, existing), nil
	}
	if err != nil {
		return nil, err
	}

	// Distribute: only when the payer resolves to exactly one user.
	userID, matched := uc.matchPayer(ctx, event.PayerName)
	if !matched {
		uc.logger.Warn().
			Str("provider_txn_id", event.ProviderTxnID).
			Str("payer_name", event.PayerName).
			Str("amount", event.Amount.StringFixed(2)).
			Msg("unmatched inbound payment, funds pooled for manual reconciliation")

		uc.publish(ctx, domain.EventTypeTopupUnmatched, map[string]any{
			"transaction_id": inbound.ID,
			"payer_name":     event.PayerName,
			"amount":         event.Amount.StringFixed(2),
		})

		return &SettlementResult{
			Outcome:       OutcomeUnmatched,
			TransactionID: inbound.ID,
			Amount:        event.Amount,
		}, nil
	}

	wallet, err := uc.distribute(ctx, inbound, userID, event.PayerName)
	if err != nil {
		// The inbound entry stays unprocessed and the money stays pooled;
		// operators see it on the unreconciled report.
		uc.logger.Error().Err(err).
			Str("transaction_id", inbound.ID).
			Str("user_id", userID).
			Msg("distribution failed, inbound entry left unprocessed")

		return nil, err
	}

	uc.publish(ctx, domain.EventTypeTopupMatched, map[string]any{
		"transaction_id": inbound.ID,
		"user_id":        userID,
		"amount":         event.Amount.StringFixed(2),
	})

	return &SettlementResult{
		Outcome:       OutcomeCredited,
		TransactionID: inbound.ID,
		UserID:        userID,
		Amount:        event.Amount,
		WalletBalance: wallet.Balance,
	}, nil
}

// CreditVerifiedPayment credits a provider-verified collection straight to a
// known user, bypassing name matching. Used by the verify-and-credit funding
// path where the reference already identifies the payer.
func (uc *SettlementUseCase) CreditVerifiedPayment(ctx context.Context, providerName, reference, userID string, amount decimal.Decimal, currency string) (*SettlementResult, error) {
	event := InboundPaymentEvent{
		Provider:      providerName,
		ProviderTxnID: reference,
		Amount:        amount,
		Currency:      currency,
		Status:        "success",
	}

	existing, err := uc.txnRepo.GetByProviderTxnID(ctx, providerName, reference)
	if err != nil && !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, err
	}
	if existing != nil {
		return uc.duplicateResult(ctx, event, existing), nil
	}

	inbound, err := uc.receive(ctx, event)
	if errors.Is(err, domain.ErrDuplicateTransaction) {
		existing, lookupErr := uc.txnRepo.GetByProviderTxnID(ctx, providerName, reference)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return uc.duplicateResult(ctx, event, existing), nil
	}
	if err != nil {
		return nil, err
	}

	wallet, err := uc.distribute(ctx, inbound, userID, "")
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, domain.EventTypeTopupMatched, map[string]any{
		"transaction_id": inbound.ID,
		"user_id":        userID,
		"amount":         amount.StringFixed(2),
	})

	return &SettlementResult{
		Outcome:       OutcomeCredited,
		TransactionID: inbound.ID,
		UserID:        userID,
		Amount:        amount,
		WalletBalance: wallet.Balance,
	}, nil
}

// ResolveUnmatched lets an operator distribute a pooled inbound payment to a
// user after manual reconciliation.
func (uc *SettlementUseCase) ResolveUnmatched(ctx context.Context, transactionID, userID string) (*SettlementResult, error) {
	inbound, err := uc.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if inbound.Direction != domain.DirectionIn || inbound.Processed {
		return nil, domain.ErrTransactionNotFound
	}

	wallet, err := uc.distribute(ctx, inbound, userID, "")
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, domain.EventTypeTopupMatched, map[string]any{
		"transaction_id": inbound.ID,
		"user_id":        userID,
		"amount":         inbound.Amount.StringFixed(2),
		"manual":         true,
	})

	return &SettlementResult{
		Outcome:       OutcomeCredited,
		TransactionID: inbound.ID,
		UserID:        userID,
		Amount:        inbound.Amount,
		WalletBalance: wallet.Balance,
	}, nil
}

// ListUnmatched returns inbound entries awaiting manual reconciliation.
func (uc *SettlementUseCase) ListUnmatched(ctx context.Context, limit, offset int) ([]*domain.PaymentTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return uc.txnRepo.ListUnprocessedInbound(ctx, limit, offset)
}

// receive records the inbound ledger entry and credits the central account
// atomically: both or neither.
func (uc *SettlementUseCase) receive(ctx context.Context, event InboundPaymentEvent) (*domain.PaymentTransaction, error) {
	var inbound *domain.PaymentTransaction

	err := uc.retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		central, err := uc.ledger.CreditCentral(txCtx, tx, event.Provider, event.Amount)
		if err != nil {
			return err
		}

		inbound = &domain.PaymentTransaction{
			ID:               uc.idGen.Generate(),
			Provider:         event.Provider,
			ProviderTxnID:    event.ProviderTxnID,
			Amount:           event.Amount,
			Currency:         event.Currency,
			Direction:        domain.DirectionIn,
			CentralAccountID: central.ID,
			Metadata:         event.Raw,
			Processed:        false,
		}
		if err := uc.ledger.RecordTransaction(txCtx, tx, inbound); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	return inbound, nil
}

// distribute moves pooled funds into the user's wallet: debit central, credit
// wallet, append the distribute entry, and flip the inbound entry processed —
// all in one transaction.
func (uc *SettlementUseCase) distribute(ctx context.Context, inbound *domain.PaymentTransaction, userID, payerName string) (*domain.Wallet, error) {
	var wallet *domain.Wallet

	err := uc.retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		central, err := uc.ledger.DebitCentral(txCtx, tx, inbound.Provider, inbound.Amount)
		if err != nil {
			return err
		}

		wallet, err = uc.ledger.CreditWallet(txCtx, tx, userID, inbound.Amount)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		dist := &domain.PaymentTransaction{
			ID:               uc.idGen.Generate(),
			Provider:         "internal",
			ProviderTxnID:    "dist:" + inbound.ProviderTxnID + ":" + userID,
			Amount:           inbound.Amount,
			Currency:         inbound.Currency,
			Direction:        domain.DirectionDistribute,
			CentralAccountID: central.ID,
			TargetUserID:     userID,
			Metadata: map[string]any{
				"source_provider_txn_id": inbound.ProviderTxnID,
				"payer_name":             payerName,
			},
			Processed:   true,
			ProcessedAt: &now,
		}
		if err := uc.ledger.RecordTransaction(txCtx, tx, dist); err != nil {
			return err
		}

		if err := uc.ledger.MarkTransactionProcessed(txCtx, tx, inbound.ID, map[string]any{
			"distributed_to": userID,
		}); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// matchPayer resolves a payer name to exactly one user: exact
// case-insensitive match first, then substring. Any multi-match is treated as
// no match — pooled money must never be auto-credited to a guessed user.
func (uc *SettlementUseCase) matchPayer(ctx context.Context, payerName string) (string, bool) {
	name := domain.NormalizeName(payerName)
	if name == "" {
		return "", false
	}

	records, err := uc.fullnameRepo.FindExact(ctx, name)
	if err != nil {
		uc.logger.Error().Err(err).Str("payer_name", payerName).Msg("exact name lookup failed")
		return "", false
	}
	if len(records) == 1 {
		return records[0].UserID, true
	}
	if len(records) > 1 {
		return "", false
	}

	records, err = uc.fullnameRepo.FindContaining(ctx, name)
	if err != nil {
		uc.logger.Error().Err(err).Str("payer_name", payerName).Msg("substring name lookup failed")
		return "", false
	}
	if len(records) == 1 {
		return records[0].UserID, true
	}

	return "", false
}

func (uc *SettlementUseCase) duplicateResult(ctx context.Context, event InboundPaymentEvent, existing *domain.PaymentTransaction) *SettlementResult {
	uc.logger.Info().
		Str("provider", event.Provider).
		Str("provider_txn_id", event.ProviderTxnID).
		Msg("duplicate inbound payment delivery")

	uc.publish(ctx, domain.EventTypeTopupDuplicate, map[string]any{
		"provider":        event.Provider,
		"provider_txn_id": event.ProviderTxnID,
	})

	return &SettlementResult{
		Outcome:       OutcomeDuplicate,
		TransactionID: existing.ID,
		Amount:        existing.Amount,
	}
}

func (uc *SettlementUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

func (uc *SettlementUseCase) publish(ctx context.Context, eventType string, payload map[string]any) {
	if uc.events == nil {
		return
	}

	err := uc.events.Publish(ctx, &domain.Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}

func isSuccessStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "successful":
		return true
	default:
		return false
	}
}
