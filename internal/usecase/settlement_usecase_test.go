package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/usecase"
	"github.com/gofoodhq/settlement/internal/usecase/mocks"
)

type settlementFixture struct {
	uc        *usecase.SettlementUseCase
	ledger    *usecase.LedgerUseCase
	wallets   *mocks.MockWalletRepository
	centrals  *mocks.MockCentralAccountRepository
	txns      *mocks.MockTransactionRepository
	fullnames *mocks.MockFullNameRepository
	events    *mocks.MockEventPublisher
}

func newSettlementFixture() *settlementFixture {
	wallets := mocks.NewMockWalletRepository()
	centrals := mocks.NewMockCentralAccountRepository()
	txns := mocks.NewMockTransactionRepository()
	fullnames := mocks.NewMockFullNameRepository()
	events := mocks.NewMockEventPublisher()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(
		mocks.NewMockTransactionManager(),
		wallets,
		centrals,
		txns,
		idGen,
		usecase.CentralAccountDefaults{AccountNumber: "0123456789", BankName: "Test Bank"},
	)

	uc := usecase.NewSettlementUseCase(
		mocks.NewMockTransactionManager(),
		ledger,
		txns,
		fullnames,
		events,
		&mocks.MockRetrier{},
		idGen,
		zerolog.Nop(),
	)

	return &settlementFixture{
		uc:        uc,
		ledger:    ledger,
		wallets:   wallets,
		centrals:  centrals,
		txns:      txns,
		fullnames: fullnames,
		events:    events,
	}
}

func (f *settlementFixture) registerName(userID, name string) {
	_ = f.fullnames.Upsert(context.Background(), &domain.FullName{
		ID:       "fn-" + userID,
		UserID:   userID,
		FullName: domain.NormalizeName(name),
		AddedAt:  time.Now(),
	})
}

func inboundEvent(txnID, payer string, amount int64) usecase.InboundPaymentEvent {
	return usecase.InboundPaymentEvent{
		Provider:      "paystack",
		ProviderTxnID: txnID,
		Amount:        decimal.NewFromInt(amount),
		Currency:      "NGN",
		Status:        "success",
		PayerName:     payer,
	}
}

func TestSettlementUseCase_MatchedPaymentCreditsWallet(t *testing.T) {
	f := newSettlementFixture()
	f.registerName("user-1", "John Doe")

	result, err := f.uc.ProcessInboundPayment(context.Background(), inboundEvent("txn-1", "JOHN   DOE", 5000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != usecase.OutcomeCredited {
		t.Fatalf("outcome = %s, want credited", result.Outcome)
	}
	if result.UserID != "user-1" {
		t.Fatalf("matched user = %s, want user-1", result.UserID)
	}
	if !result.WalletBalance.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("wallet balance = %s, want 5000", result.WalletBalance)
	}

	// Money flowed through the central account and back out.
	central, err := f.centrals.GetByProvider(context.Background(), "paystack")
	if err != nil {
		t.Fatalf("central account not created: %v", err)
	}
	if !central.Balance.IsZero() {
		t.Fatalf("central balance = %s, want 0 after distribution", central.Balance)
	}

	// The inbound entry is processed and a distribute entry exists.
	inbound, err := f.txns.GetByProviderTxnID(context.Background(), "paystack", "txn-1")
	if err != nil {
		t.Fatalf("inbound entry missing: %v", err)
	}
	if !inbound.Processed {
		t.Fatal("inbound entry not marked processed")
	}

	var sawMatched bool
	for _, e := range f.events.Events() {
		if e.Type == domain.EventTypeTopupMatched {
			sawMatched = true
		}
	}
	if !sawMatched {
		t.Fatal("settlement.matched event not published")
	}
}

func TestSettlementUseCase_UnmatchedPaymentStaysPooled(t *testing.T) {
	tests := []struct {
		name      string
		register  map[string]string
		payerName string
	}{
		{
			name:      "no registered name",
			register:  map[string]string{},
			payerName: "Stranger Danger",
		},
		{
			name: "ambiguous exact match",
			register: map[string]string{
				"user-1": "John Doe",
				"user-2": "John Doe",
			},
			payerName: "John Doe",
		},
		{
			name: "ambiguous substring match",
			register: map[string]string{
				"user-1": "John Doe",
				"user-2": "John Doherty",
			},
			payerName: "John Do",
		},
		{
			name:      "empty payer name",
			register:  map[string]string{"user-1": "John Doe"},
			payerName: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSettlementFixture()
			for userID, name := range tt.register {
				f.registerName(userID, name)
			}

			result, err := f.uc.ProcessInboundPayment(context.Background(), inboundEvent("txn-1", tt.payerName, 2000))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Outcome != usecase.OutcomeUnmatched {
				t.Fatalf("outcome = %s, want unmatched", result.Outcome)
			}

			// Funds stay pooled for manual reconciliation.
			central, err := f.centrals.GetByProvider(context.Background(), "paystack")
			if err != nil {
				t.Fatalf("central account not created: %v", err)
			}
			if !central.Balance.Equal(decimal.NewFromInt(2000)) {
				t.Fatalf("central balance = %s, want 2000", central.Balance)
			}

			unmatched, err := f.uc.ListUnmatched(context.Background(), 10, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(unmatched) != 1 {
				t.Fatalf("unmatched entries = %d, want 1", len(unmatched))
			}

			var sawUnmatched bool
			for _, e := range f.events.Events() {
				if e.Type == domain.EventTypeTopupUnmatched {
					sawUnmatched = true
				}
			}
			if !sawUnmatched {
				t.Fatal("settlement.unmatched event not published")
			}
		})
	}
}

func TestSettlementUseCase_SubstringFallbackMatches(t *testing.T) {
	f := newSettlementFixture()
	f.registerName("user-1", "John Doe")

	// Bank narrations often carry extra tokens around the registered name.
	result, err := f.uc.ProcessInboundPayment(context.Background(), inboundEvent("txn-1", "John", 1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != usecase.OutcomeCredited || result.UserID != "user-1" {
		t.Fatalf("substring fallback failed: outcome=%s user=%s", result.Outcome, result.UserID)
	}
}

func TestSettlementUseCase_DuplicateDeliveryIsNoOp(t *testing.T) {
	f := newSettlementFixture()
	f.registerName("user-1", "John Doe")

	first, err := f.uc.ProcessInboundPayment(context.Background(), inboundEvent("txn-1", "John Doe", 3000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Outcome != usecase.OutcomeCredited {
		t.Fatalf("first delivery outcome = %s", first.Outcome)
	}

	second, err := f.uc.ProcessInboundPayment(context.Background(), inboundEvent("txn-1", "John Doe", 3000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Outcome != usecase.OutcomeDuplicate {
		t.Fatalf("second delivery outcome = %s, want duplicate", second.Outcome)
	}

	wallet, err := f.ledger.GetWallet(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wallet.Balance.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("wallet credited twice: balance = %s", wallet.Balance)
	}
}

func TestSettlementUseCase_NonSuccessIgnored(t *testing.T) {
	f := newSettlementFixture()

	event := inboundEvent("txn-1", "John Doe", 1000)
	event.Status = "failed"

	result, err := f.uc.ProcessInboundPayment(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != usecase.OutcomeIgnored {
		t.Fatalf("outcome = %s, want ignored", result.Outcome)
	}

	if _, err := f.centrals.GetByProvider(context.Background(), "paystack"); err == nil {
		t.Fatal("central account created for ignored event")
	}
}

func TestSettlementUseCase_ResolveUnmatched(t *testing.T) {
	f := newSettlementFixture()

	pooled, err := f.uc.ProcessInboundPayment(context.Background(), inboundEvent("txn-1", "Unknown Payer", 1500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pooled.Outcome != usecase.OutcomeUnmatched {
		t.Fatalf("outcome = %s, want unmatched", pooled.Outcome)
	}

	resolved, err := f.uc.ResolveUnmatched(context.Background(), pooled.TransactionID, "user-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Outcome != usecase.OutcomeCredited || resolved.UserID != "user-9" {
		t.Fatalf("resolve failed: %+v", resolved)
	}
	if !resolved.WalletBalance.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("wallet balance = %s, want 1500", resolved.WalletBalance)
	}

	// Resolving the same entry again must fail: it is already processed.
	if _, err := f.uc.ResolveUnmatched(context.Background(), pooled.TransactionID, "user-9"); err == nil {
		t.Fatal("expected error resolving an already-processed entry")
	}
}

func TestSettlementUseCase_CreditVerifiedPayment(t *testing.T) {
	f := newSettlementFixture()

	result, err := f.uc.CreditVerifiedPayment(context.Background(), "paystack", "ref-1", "user-1", decimal.NewFromInt(800), "NGN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != usecase.OutcomeCredited {
		t.Fatalf("outcome = %s, want credited", result.Outcome)
	}
	if !result.WalletBalance.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("wallet balance = %s, want 800", result.WalletBalance)
	}

	again, err := f.uc.CreditVerifiedPayment(context.Background(), "paystack", "ref-1", "user-1", decimal.NewFromInt(800), "NGN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Outcome != usecase.OutcomeDuplicate {
		t.Fatalf("re-verification outcome = %s, want duplicate", again.Outcome)
	}
}
