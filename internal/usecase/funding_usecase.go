package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/provider"
)

// FundIntentInput registers a user's intent to top up by bank transfer.
type FundIntentInput struct {
	UserID   string
	FullName string
	Phone    string
	Email    string
	Amount   decimal.Decimal
	// Provider optionally requests a hosted checkout link alongside the
	// transfer instructions.
	Provider string
}

// FundIntent is what the user needs to complete a top-up: the pooled deposit
// account to transfer into, the narration that lets the matcher find them,
// and optionally a hosted payment link.
type FundIntent struct {
	AccountNumber string
	BankName      string
	Narration     string
	PaymentLink   string
	Reference     string
}

// FundingUseCase handles the deposit side: registering top-up intents and
// verifying provider-referenced collections.
type FundingUseCase struct {
	ledger       *LedgerUseCase
	settlement   *SettlementUseCase
	fullnameRepo FullNameRepository
	providers    *provider.Registry
	idGen        IDGenerator
	logger       zerolog.Logger
}

// NewFundingUseCase creates a new FundingUseCase.
func NewFundingUseCase(
	ledger *LedgerUseCase,
	settlement *SettlementUseCase,
	fullnameRepo FullNameRepository,
	providers *provider.Registry,
	idGen IDGenerator,
	logger zerolog.Logger,
) *FundingUseCase {
	return &FundingUseCase{
		ledger:       ledger,
		settlement:   settlement,
		fullnameRepo: fullnameRepo,
		providers:    providers,
		idGen:        idGen,
		logger:       logger,
	}
}

// FundWalletIntent records the payer's name for later settlement matching and
// returns transfer instructions. The narration embeds the registered name so
// the bank statement carries the matching key.
func (uc *FundingUseCase) FundWalletIntent(ctx context.Context, input FundIntentInput) (*FundIntent, error) {
	name := domain.NormalizeName(input.FullName)
	if name == "" {
		return nil, domain.ErrInvalidFullName
	}

	if _, err := uc.ledger.GetOrCreateWallet(ctx, input.UserID); err != nil {
		return nil, err
	}

	if err := uc.fullnameRepo.Upsert(ctx, &domain.FullName{
		ID:       uc.idGen.Generate(),
		UserID:   input.UserID,
		FullName: name,
		AddedAt:  time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	providerName := input.Provider
	if providerName == "" {
		providerName = string(provider.DefaultOrder[0])
	}
	kind, err := provider.ParseKind(providerName)
	if err != nil {
		return nil, err
	}

	central, err := uc.ledger.GetOrCreateCentral(ctx, string(kind))
	if err != nil {
		return nil, err
	}

	intent := &FundIntent{
		AccountNumber: central.AccountNumber,
		BankName:      central.BankName,
		Narration:     name + " | " + input.Phone,
	}

	// A hosted checkout link is best-effort; bank-transfer instructions
	// alone are a complete funding path.
	if input.Amount.GreaterThan(decimal.Zero) {
		gateway, err := uc.providers.Get(kind)
		if err == nil {
			init, initErr := gateway.InitializePayment(ctx, provider.Customer{
				UserID: input.UserID,
				Email:  input.Email,
				Phone:  input.Phone,
				Name:   input.FullName,
			}, input.Amount)
			if initErr != nil {
				uc.logger.Warn().Err(initErr).
					Str("provider", string(kind)).
					Str("user_id", input.UserID).
					Msg("payment link initialization failed, returning transfer instructions only")
			} else {
				intent.PaymentLink = init.PaymentLink
				intent.Reference = init.Reference
			}
		}
	}

	uc.publishIntent(ctx, input, intent)

	return intent, nil
}

// VerifyAndCredit confirms a provider-referenced collection and credits the
// user's wallet. Re-verification of the same reference is a no-op.
func (uc *FundingUseCase) VerifyAndCredit(ctx context.Context, providerName, reference, userID string) (*SettlementResult, error) {
	kind, err := provider.ParseKind(providerName)
	if err != nil {
		return nil, err
	}

	gateway, err := uc.providers.Get(kind)
	if err != nil {
		return nil, err
	}

	verified, err := gateway.VerifyPayment(ctx, reference)
	if err != nil {
		return nil, err
	}

	if verified.Status != provider.StatusSuccess {
		uc.logger.Info().
			Str("provider", string(kind)).
			Str("reference", reference).
			Str("status", string(verified.Status)).
			Msg("payment not verified, nothing credited")

		return &SettlementResult{Outcome: OutcomeIgnored}, nil
	}

	return uc.settlement.CreditVerifiedPayment(ctx, string(kind), verified.Reference, userID, verified.Amount, verified.Currency)
}

func (uc *FundingUseCase) publishIntent(ctx context.Context, input FundIntentInput, intent *FundIntent) {
	if uc.settlement == nil || uc.settlement.events == nil {
		return
	}

	err := uc.settlement.events.Publish(ctx, &domain.Event{
		Type:       domain.EventTypeWalletFundIntent,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"user_id":   input.UserID,
			"narration": intent.Narration,
			"amount":    input.Amount.StringFixed(2),
		},
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to publish fund intent event")
	}
}
