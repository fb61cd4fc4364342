package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/infrastructure/metrics"
	"github.com/gofoodhq/settlement/internal/provider"
)

// PayVendorInput is the payout request shape from the order/checkout layer.
type PayVendorInput struct {
	UserID   string
	VendorID string
	OrderID  string
	Amount   decimal.Decimal
	// Provider optionally names the preferred provider; empty means ordered
	// fallback over all configured providers.
	Provider string
}

// PayoutResult reports a successful (or deduplicated) payout.
type PayoutResult struct {
	Payout        *domain.VendorPayout
	Provider      provider.Kind
	WalletBalance decimal.Decimal
	// Duplicate is true when an earlier payout for the same order was
	// returned instead of moving money again.
	Duplicate bool
}

// PayoutConfig tunes the engine.
type PayoutConfig struct {
	// DefaultFee is the flat platform fee applied when the vendor has none
	// configured.
	DefaultFee decimal.Decimal
	// RaceTimeout bounds the parallel provider race.
	RaceTimeout time.Duration
}

// PayoutUseCase moves money from a user's wallet to a vendor's bank account.
// The wallet is debited pessimistically before any provider call: delivery
// failures are compensated with an explicit reversal credit, never by leaving
// the user uncharged while a provider charge may have landed.
type PayoutUseCase struct {
	txManager  TransactionManager
	ledger     *LedgerUseCase
	payoutRepo PayoutRepository
	vendorRepo VendorRepository
	providers  *provider.Registry
	events     EventPublisher
	cache      Cache
	idGen      IDGenerator
	metrics    *metrics.Metrics
	cfg        PayoutConfig
	logger     zerolog.Logger
}

// NewPayoutUseCase creates a new PayoutUseCase.
func NewPayoutUseCase(
	txManager TransactionManager,
	ledger *LedgerUseCase,
	payoutRepo PayoutRepository,
	vendorRepo VendorRepository,
	providers *provider.Registry,
	events EventPublisher,
	cache Cache,
	idGen IDGenerator,
	m *metrics.Metrics,
	cfg PayoutConfig,
	logger zerolog.Logger,
) *PayoutUseCase {
	if cfg.RaceTimeout <= 0 {
		cfg.RaceTimeout = 30 * time.Second
	}

	return &PayoutUseCase{
		txManager:  txManager,
		ledger:     ledger,
		payoutRepo: payoutRepo,
		vendorRepo: vendorRepo,
		providers:  providers,
		events:     events,
		cache:      cache,
		idGen:      idGen,
		metrics:    m,
		cfg:        cfg,
		logger:     logger,
	}
}

// PayVendor executes one payout end to end: validate, debit the wallet and
// create the durable payout intent atomically, then deliver via providers
// outside any database transaction, and finally settle the outcome.
func (uc *PayoutUseCase) PayVendor(ctx context.Context, input PayVendorInput) (*PayoutResult, error) {
	start := time.Now()

	var preferred provider.Kind
	if input.Provider != "" {
		kind, err := provider.ParseKind(input.Provider)
		if err != nil {
			return nil, err
		}
		preferred = kind
	}

	vendor, err := uc.vendorRepo.GetByID(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}

	// Order-scoped idempotency: a non-failed payout for this order already
	// moved (or is moving) the money.
	if existing, err := uc.payoutRepo.GetByOrderID(ctx, input.OrderID); err == nil {
		if existing.Status != domain.PayoutStatusFailed {
			wallet, werr := uc.ledger.GetWallet(ctx, input.UserID)
			if werr != nil {
				return nil, werr
			}
			return &PayoutResult{
				Payout:        existing,
				Provider:      provider.Kind(existing.Provider),
				WalletBalance: wallet.Balance,
				Duplicate:     true,
			}, nil
		}
	} else if !errors.Is(err, domain.ErrPayoutNotFound) {
		return nil, err
	}

	fee := uc.cfg.DefaultFee
	if vendor.PlatformFee != nil {
		fee = *vendor.PlatformFee
	}

	payout := &domain.VendorPayout{
		ID:            uc.idGen.Generate(),
		UserID:        input.UserID,
		VendorID:      input.VendorID,
		OrderID:       input.OrderID,
		Amount:        input.Amount,
		Fee:           fee,
		VendorAmount:  input.Amount.Sub(fee),
		Provider:      input.Provider,
		BankCode:      vendor.BankCode,
		AccountNumber: vendor.BankAccount,
		Status:        domain.PayoutStatusProcessing,
		Reference:     "TRX-" + uc.idGen.Generate(),
	}
	if err := payout.Validate(); err != nil {
		return nil, err
	}

	entryID, err := uc.debitAndRecord(ctx, payout)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePayout) {
			// Lost an insert race: a concurrent request for this order passed
			// the idempotency check and committed first. Our debit rolled
			// back with the transaction, so hand back the winner's payout.
			return uc.racedPayout(ctx, input)
		}
		return nil, err
	}

	uc.logger.Info().
		Str("payout_id", payout.ID).
		Str("reference", payout.Reference).
		Str("order_id", input.OrderID).
		Str("amount", input.Amount.StringFixed(2)).
		Str("vendor_amount", payout.VendorAmount.StringFixed(2)).
		Msg("wallet debited, attempting provider delivery")

	winner, charge, deliverErr := uc.deliver(ctx, vendor, payout, preferred)
	if deliverErr != nil {
		balance, revErr := uc.reverse(ctx, payout, entryID, deliverErr)
		if revErr != nil {
			// The debit is committed and the reversal did not land; this
			// must never be swallowed.
			uc.logger.Error().Err(revErr).
				Str("payout_id", payout.ID).
				Str("reference", payout.Reference).
				Msg("payout reversal failed, wallet remains debited")

			return nil, fmt.Errorf("payout failed and reversal errored (reference %s): %w", payout.Reference, revErr)
		}

		uc.observePayout("failed", time.Since(start))
		uc.publish(ctx, domain.EventTypePayoutFailed, map[string]any{
			"payout_id":      payout.ID,
			"reference":      payout.Reference,
			"order_id":       payout.OrderID,
			"amount":         payout.Amount.StringFixed(2),
			"wallet_balance": balance.StringFixed(2),
		})

		return nil, fmt.Errorf("%w (reference %s): %v", domain.ErrAllProvidersFailed, payout.Reference, deliverErr)
	}

	wallet, err := uc.complete(ctx, payout, entryID, winner, charge)
	if err != nil {
		return nil, err
	}

	uc.observePayout("completed", time.Since(start))
	uc.publish(ctx, domain.EventTypePayoutCompleted, map[string]any{
		"payout_id":     payout.ID,
		"reference":     payout.Reference,
		"order_id":      payout.OrderID,
		"provider":      string(winner),
		"vendor_amount": payout.VendorAmount.StringFixed(2),
	})
	uc.cacheSummary(ctx, payout, winner)

	return &PayoutResult{
		Payout:        payout,
		Provider:      winner,
		WalletBalance: wallet.Balance,
	}, nil
}

// racedPayout resolves the loser side of a same-order insert race.
func (uc *PayoutUseCase) racedPayout(ctx context.Context, input PayVendorInput) (*PayoutResult, error) {
	existing, err := uc.payoutRepo.GetByOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.ledger.GetWallet(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("order_id", input.OrderID).
		Str("payout_id", existing.ID).
		Msg("concurrent payout for order already committed, returning it")

	return &PayoutResult{
		Payout:        existing,
		Provider:      provider.Kind(existing.Provider),
		WalletBalance: wallet.Balance,
		Duplicate:     true,
	}, nil
}

// GetPayout returns a payout by id.
func (uc *PayoutUseCase) GetPayout(ctx context.Context, id string) (*domain.VendorPayout, error) {
	return uc.payoutRepo.GetByID(ctx, id)
}

// GetPayoutByReference returns a payout by its idempotency reference.
func (uc *PayoutUseCase) GetPayoutByReference(ctx context.Context, reference string) (*domain.VendorPayout, error) {
	return uc.payoutRepo.GetByReference(ctx, reference)
}

// debitAndRecord is the single atomic step before any external call: balance
// check + pessimistic debit + durable payout intent + payout ledger entry.
// Insufficient funds aborts here with no mutation and no payout row.
func (uc *PayoutUseCase) debitAndRecord(ctx context.Context, payout *domain.VendorPayout) (entryID string, err error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.ledger.DebitWallet(txCtx, tx, payout.UserID, payout.Amount); err != nil {
		return "", err
	}

	if err := uc.payoutRepo.Create(txCtx, tx, payout); err != nil {
		return "", err
	}

	entry := &domain.PaymentTransaction{
		ID:             uc.idGen.Generate(),
		Provider:       "internal",
		ProviderTxnID:  "payout:" + payout.Reference,
		Amount:         payout.Amount,
		Direction:      domain.DirectionPayout,
		TargetUserID:   payout.UserID,
		TargetVendorID: payout.VendorID,
		Metadata: map[string]any{
			"payout_id": payout.ID,
			"order_id":  payout.OrderID,
			"fee":       payout.Fee.StringFixed(2),
		},
		Processed: false,
	}
	if err := uc.ledger.RecordTransaction(txCtx, tx, entry); err != nil {
		return "", err
	}

	if err := tx.Commit(txCtx); err != nil {
		return "", err
	}

	return entry.ID, nil
}

// deliver attempts the bank transfer. With a preferred provider, its direct
// attempt comes first; an unexpected error there triggers a parallel race of
// the remaining providers. Without a preference, providers are tried in the
// fixed fallback order, stopping at first success.
func (uc *PayoutUseCase) deliver(ctx context.Context, vendor *domain.Vendor, payout *domain.VendorPayout, preferred provider.Kind) (provider.Kind, *provider.ChargeResult, error) {
	req := provider.ChargeRequest{
		AccountNumber: payout.AccountNumber,
		BankCode:      payout.BankCode,
		Amount:        payout.VendorAmount,
		PayeeName:     vendor.Name,
		PayeeEmail:    vendor.Email,
		Narration:     "Payout for order " + payout.OrderID,
		Reference:     payout.Reference,
	}

	if preferred == "" {
		return uc.orderedFallback(ctx, uc.providers.All(), req)
	}

	gateway, err := uc.providers.Get(preferred)
	if err != nil {
		return "", nil, err
	}

	charge, err := uc.charge(ctx, gateway, req)
	if err == nil && charge.Status == provider.StatusSuccess {
		return preferred, charge, nil
	}

	rest := uc.remaining(preferred)
	if len(rest) == 0 {
		return "", nil, fmt.Errorf("provider %s did not deliver", preferred)
	}

	if err != nil {
		// Unexpected fault on the chosen provider: race the rest and take
		// the first success.
		uc.logger.Warn().Err(err).
			Str("provider", string(preferred)).
			Str("reference", payout.Reference).
			Msg("direct provider attempt errored, racing remaining providers")

		return uc.race(ctx, rest, req)
	}

	// Explicit rejection: fall back in order.
	uc.logger.Warn().
		Str("provider", string(preferred)).
		Str("status", string(charge.Status)).
		Str("reference", payout.Reference).
		Msg("provider rejected charge, falling back")

	return uc.orderedFallback(ctx, rest, req)
}

func (uc *PayoutUseCase) orderedFallback(ctx context.Context, gateways []provider.Gateway, req provider.ChargeRequest) (provider.Kind, *provider.ChargeResult, error) {
	var lastErr error
	for _, g := range gateways {
		charge, err := uc.charge(ctx, g, req)
		if err != nil {
			lastErr = err
			continue
		}
		if charge.Status == provider.StatusSuccess {
			return g.Kind(), charge, nil
		}
		lastErr = fmt.Errorf("provider %s reported %s", g.Kind(), charge.Status)
	}

	if lastErr == nil {
		lastErr = errors.New("no payout providers configured")
	}

	return "", nil, lastErr
}

type raceOutcome struct {
	kind   provider.Kind
	charge *provider.ChargeResult
	err    error
}

// race fans the charge out to all given providers concurrently and accepts
// the first success; the rest are cancelled through the shared context.
func (uc *PayoutUseCase) race(ctx context.Context, gateways []provider.Gateway, req provider.ChargeRequest) (provider.Kind, *provider.ChargeResult, error) {
	raceCtx, cancel := context.WithTimeout(ctx, uc.cfg.RaceTimeout)
	defer cancel()

	results := make(chan raceOutcome, len(gateways))
	for _, g := range gateways {
		go func(g provider.Gateway) {
			charge, err := uc.charge(raceCtx, g, req)
			results <- raceOutcome{kind: g.Kind(), charge: charge, err: err}
		}(g)
	}

	var lastErr error
	for range gateways {
		select {
		case out := <-results:
			if out.err != nil {
				lastErr = out.err
				continue
			}
			if out.charge.Status == provider.StatusSuccess {
				cancel()
				return out.kind, out.charge, nil
			}
			lastErr = fmt.Errorf("provider %s reported %s", out.kind, out.charge.Status)

		case <-raceCtx.Done():
			if lastErr == nil {
				lastErr = raceCtx.Err()
			}
			return "", nil, lastErr
		}
	}

	return "", nil, lastErr
}

func (uc *PayoutUseCase) charge(ctx context.Context, g provider.Gateway, req provider.ChargeRequest) (*provider.ChargeResult, error) {
	charge, err := g.ChargeToBank(ctx, req)

	switch {
	case errors.Is(err, provider.ErrUnavailable):
		uc.logger.Warn().Err(err).Str("provider", string(g.Kind())).Msg("provider unavailable")
		uc.observeCharge(g.Kind(), "unavailable")
	case err != nil:
		uc.logger.Error().Err(err).Str("provider", string(g.Kind())).Msg("provider charge errored")
		uc.observeCharge(g.Kind(), "error")
	default:
		uc.observeCharge(g.Kind(), string(charge.Status))
	}

	return charge, err
}

// complete marks the payout delivered and flips the ledger entry, attaching
// the winning provider's raw response for audit.
func (uc *PayoutUseCase) complete(ctx context.Context, payout *domain.VendorPayout, entryID string, winner provider.Kind, charge *provider.ChargeResult) (*domain.Wallet, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	if err := uc.payoutRepo.UpdateStatus(txCtx, tx, payout.ID, domain.PayoutStatusCompleted, string(winner), charge.Raw, now); err != nil {
		return nil, err
	}

	if err := uc.ledger.MarkTransactionProcessed(txCtx, tx, entryID, map[string]any{
		"provider":           string(winner),
		"provider_reference": charge.ProviderReference,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	payout.Status = domain.PayoutStatusCompleted
	payout.Provider = string(winner)
	payout.Response = charge.Raw
	payout.UpdatedAt = now

	return uc.ledger.GetWallet(ctx, payout.UserID)
}

// reverse compensates a totally failed delivery: credit the wallet back, mark
// the payout failed, and close the ledger entry with reversal metadata. The
// wallet must never stay debited for a payout that never reached the vendor.
func (uc *PayoutUseCase) reverse(ctx context.Context, payout *domain.VendorPayout, entryID string, cause error) (decimal.Decimal, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	wallet, err := uc.ledger.CreditWallet(txCtx, tx, payout.UserID, payout.Amount)
	if err != nil {
		return decimal.Zero, err
	}

	now := time.Now().UTC()
	if err := uc.payoutRepo.UpdateStatus(txCtx, tx, payout.ID, domain.PayoutStatusFailed, payout.Provider, map[string]any{
		"error": cause.Error(),
	}, now); err != nil {
		return decimal.Zero, err
	}

	if err := uc.ledger.MarkTransactionProcessed(txCtx, tx, entryID, map[string]any{
		"reversed": true,
		"error":    cause.Error(),
	}); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return decimal.Zero, err
	}

	payout.Status = domain.PayoutStatusFailed
	payout.UpdatedAt = now

	uc.logger.Info().
		Str("payout_id", payout.ID).
		Str("reference", payout.Reference).
		Str("wallet_balance", wallet.Balance.StringFixed(2)).
		Msg("payout reversed, wallet restored")

	return wallet.Balance, nil
}

func (uc *PayoutUseCase) remaining(exclude provider.Kind) []provider.Gateway {
	all := uc.providers.All()
	rest := make([]provider.Gateway, 0, len(all))
	for _, g := range all {
		if g.Kind() != exclude {
			rest = append(rest, g)
		}
	}
	return rest
}

func (uc *PayoutUseCase) cacheSummary(ctx context.Context, payout *domain.VendorPayout, winner provider.Kind) {
	if uc.cache == nil {
		return
	}

	summary, err := json.Marshal(map[string]any{
		"reference":     payout.Reference,
		"order_id":      payout.OrderID,
		"amount":        payout.Amount.StringFixed(2),
		"vendor_amount": payout.VendorAmount.StringFixed(2),
		"fee":           payout.Fee.StringFixed(2),
		"provider":      string(winner),
		"status":        string(payout.Status),
	})
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, "payout:"+payout.OrderID, summary, PayoutSummaryTTL); err != nil {
		uc.logger.Warn().Err(err).Str("order_id", payout.OrderID).Msg("failed to cache payout summary")
	}
}

func (uc *PayoutUseCase) publish(ctx context.Context, eventType string, payload map[string]any) {
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

func (uc *PayoutUseCase) observePayout(outcome string, d time.Duration) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PayoutsTotal.WithLabelValues(outcome).Inc()
	uc.metrics.PayoutDuration.Observe(d.Seconds())
}

func (uc *PayoutUseCase) observeCharge(kind provider.Kind, status string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ProviderCharges.WithLabelValues(string(kind), status).Inc()
}
