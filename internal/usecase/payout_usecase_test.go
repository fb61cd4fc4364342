package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/provider"
	"github.com/gofoodhq/settlement/internal/usecase"
	"github.com/gofoodhq/settlement/internal/usecase/mocks"
)

type payoutFixture struct {
	uc       *usecase.PayoutUseCase
	ledger   *usecase.LedgerUseCase
	wallets  *mocks.MockWalletRepository
	payouts  *mocks.MockPayoutRepository
	txns     *mocks.MockTransactionRepository
	vendors  *mocks.MockVendorRepository
	events   *mocks.MockEventPublisher
	cache    *mocks.MockCache
	paystack *mocks.MockGateway
	flw      *mocks.MockGateway
	monnify  *mocks.MockGateway
}

func newPayoutFixture(t *testing.T) *payoutFixture {
	t.Helper()

	wallets := mocks.NewMockWalletRepository()
	centrals := mocks.NewMockCentralAccountRepository()
	txns := mocks.NewMockTransactionRepository()
	payouts := mocks.NewMockPayoutRepository()
	vendors := mocks.NewMockVendorRepository()
	events := mocks.NewMockEventPublisher()
	cache := mocks.NewMockCache()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(
		mocks.NewMockTransactionManager(),
		wallets,
		centrals,
		txns,
		idGen,
		usecase.CentralAccountDefaults{AccountNumber: "0123456789", BankName: "Test Bank"},
	)

	paystack := mocks.NewMockGateway(provider.KindPaystack)
	flw := mocks.NewMockGateway(provider.KindFlutterwave)
	monnify := mocks.NewMockGateway(provider.KindMonnify)

	uc := usecase.NewPayoutUseCase(
		mocks.NewMockTransactionManager(),
		ledger,
		payouts,
		vendors,
		provider.NewRegistry(paystack, flw, monnify),
		events,
		cache,
		idGen,
		nil,
		usecase.PayoutConfig{
			DefaultFee:  decimal.NewFromInt(700),
			RaceTimeout: 2 * time.Second,
		},
		zerolog.Nop(),
	)

	vendors.Add(&domain.Vendor{
		ID:          "vendor-1",
		Name:        "Mama Put Kitchen",
		Email:       "orders@mamaput.example.com",
		BankCode:    "058",
		BankAccount: "0011223344",
	})

	return &payoutFixture{
		uc:       uc,
		ledger:   ledger,
		wallets:  wallets,
		payouts:  payouts,
		txns:     txns,
		vendors:  vendors,
		events:   events,
		cache:    cache,
		paystack: paystack,
		flw:      flw,
		monnify:  monnify,
	}
}

func (f *payoutFixture) fundWallet(t *testing.T, userID string, amount int64) {
	t.Helper()
	ctx := context.Background()
	tx, _ := mocks.NewMockTransactionManager().Begin(ctx)
	if _, err := f.ledger.CreditWallet(ctx, tx, userID, decimal.NewFromInt(amount)); err != nil {
		t.Fatalf("funding wallet: %v", err)
	}
}

func payoutInput(amount int64) usecase.PayVendorInput {
	return usecase.PayVendorInput{
		UserID:   "user-1",
		VendorID: "vendor-1",
		OrderID:  "order-1",
		Amount:   decimal.NewFromInt(amount),
	}
}

func TestPayoutUseCase_SuccessfulPayout(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 10000)

	result, err := f.uc.PayVendor(context.Background(), payoutInput(5000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duplicate {
		t.Fatal("fresh payout reported as duplicate")
	}
	if result.Payout.Status != domain.PayoutStatusCompleted {
		t.Fatalf("status = %s, want completed", result.Payout.Status)
	}
	if !result.WalletBalance.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("wallet balance = %s, want 5000", result.WalletBalance)
	}

	// Default flat fee applies: vendor receives amount minus fee.
	if !result.Payout.VendorAmount.Equal(decimal.NewFromInt(4300)) {
		t.Fatalf("vendor amount = %s, want 4300", result.Payout.VendorAmount)
	}

	// The first provider in fallback order wins and is charged the net.
	charges := f.paystack.Charges()
	if len(charges) != 1 {
		t.Fatalf("paystack charges = %d, want 1", len(charges))
	}
	if !charges[0].Amount.Equal(decimal.NewFromInt(4300)) {
		t.Fatalf("charged amount = %s, want 4300", charges[0].Amount)
	}
	if result.Provider != provider.KindPaystack {
		t.Fatalf("winner = %s, want paystack", result.Provider)
	}

	// Ledger entry is closed.
	entry, err := f.txns.GetByProviderTxnID(context.Background(), "internal", "payout:"+result.Payout.Reference)
	if err != nil {
		t.Fatalf("payout ledger entry missing: %v", err)
	}
	if !entry.Processed {
		t.Fatal("payout ledger entry not marked processed")
	}

	var sawCompleted bool
	for _, e := range f.events.Events() {
		if e.Type == domain.EventTypePayoutCompleted {
			sawCompleted = true
		}
	}
	if !sawCompleted {
		t.Fatal("payout.completed event not published")
	}
}

func TestPayoutUseCase_InsufficientFunds(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 1000)

	_, err := f.uc.PayVendor(context.Background(), payoutInput(5000))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// No payout row, no provider call, balance untouched.
	if _, err := f.payouts.GetByOrderID(context.Background(), "order-1"); !errors.Is(err, domain.ErrPayoutNotFound) {
		t.Fatal("payout row created despite insufficient funds")
	}
	if len(f.paystack.Charges()) != 0 {
		t.Fatal("provider called despite insufficient funds")
	}
	wallet, _ := f.ledger.GetWallet(context.Background(), "user-1")
	if !wallet.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("balance = %s, want 1000", wallet.Balance)
	}
}

func TestPayoutUseCase_DuplicateOrder(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 20000)

	first, err := f.uc.PayVendor(context.Background(), payoutInput(5000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := f.uc.PayVendor(context.Background(), payoutInput(5000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Duplicate {
		t.Fatal("second payout for same order not deduplicated")
	}
	if second.Payout.ID != first.Payout.ID {
		t.Fatal("duplicate returned a different payout")
	}
	if !second.WalletBalance.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("wallet debited twice: balance = %s", second.WalletBalance)
	}
}

func TestPayoutUseCase_FailedPayoutAllowsRetry(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 10000)

	fail := func(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error) {
		return nil, provider.Unavailablef(provider.KindPaystack, "connection refused")
	}
	f.paystack.ChargeToBankFunc = fail
	f.flw.ChargeToBankFunc = fail
	f.monnify.ChargeToBankFunc = fail

	if _, err := f.uc.PayVendor(context.Background(), payoutInput(5000)); !errors.Is(err, domain.ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}

	// Providers recover; the same order can be paid again.
	f.paystack.ChargeToBankFunc = nil
	f.flw.ChargeToBankFunc = nil
	f.monnify.ChargeToBankFunc = nil

	result, err := f.uc.PayVendor(context.Background(), payoutInput(5000))
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if result.Payout.Status != domain.PayoutStatusCompleted {
		t.Fatalf("retry status = %s, want completed", result.Payout.Status)
	}
}

func TestPayoutUseCase_TotalFailureReversesDebit(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 10000)

	fail := func(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error) {
		return nil, provider.Unavailablef(provider.KindPaystack, "timeout")
	}
	f.paystack.ChargeToBankFunc = fail
	f.flw.ChargeToBankFunc = fail
	f.monnify.ChargeToBankFunc = fail

	_, err := f.uc.PayVendor(context.Background(), payoutInput(5000))
	if !errors.Is(err, domain.ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}

	// Reversal restored the wallet in full.
	wallet, _ := f.ledger.GetWallet(context.Background(), "user-1")
	if !wallet.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("wallet balance = %s, want 10000 after reversal", wallet.Balance)
	}

	// The payout row survives as a failed audit record.
	payout, err := f.payouts.GetByOrderID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("payout row missing: %v", err)
	}
	if payout.Status != domain.PayoutStatusFailed {
		t.Fatalf("status = %s, want failed", payout.Status)
	}

	// The ledger entry is closed with reversal metadata.
	entry, err := f.txns.GetByProviderTxnID(context.Background(), "internal", "payout:"+payout.Reference)
	if err != nil {
		t.Fatalf("payout ledger entry missing: %v", err)
	}
	if !entry.Processed {
		t.Fatal("ledger entry not closed after reversal")
	}
	if reversed, ok := entry.Metadata["reversed"].(bool); !ok || !reversed {
		t.Fatalf("ledger entry missing reversal metadata: %v", entry.Metadata)
	}

	var failed *domain.Event
	for _, e := range f.events.Events() {
		if e.Type == domain.EventTypePayoutFailed {
			failed = e
		}
	}
	if failed == nil {
		t.Fatal("payout.failed event not published")
	}
	// Operators see the restored balance alongside the failure.
	if failed.Payload["wallet_balance"] != "10000.00" {
		t.Fatalf("payout.failed payload missing restored balance: %v", failed.Payload)
	}
}

func TestPayoutUseCase_InsertRaceLoserGetsWinner(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 20000)

	winner, err := f.uc.PayVendor(context.Background(), payoutInput(5000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The loser read no payout row before the winner committed; its insert
	// then hits the live-payout-per-order rule.
	var lookups int
	f.payouts.GetByOrderIDFunc = func(ctx context.Context, orderID string) (*domain.VendorPayout, error) {
		lookups++
		if lookups == 1 {
			return nil, domain.ErrPayoutNotFound
		}
		return winner.Payout, nil
	}

	loser, err := f.uc.PayVendor(context.Background(), payoutInput(5000))
	if err != nil {
		t.Fatalf("race loser got error instead of winner's payout: %v", err)
	}
	if !loser.Duplicate {
		t.Fatal("race loser not reported as duplicate")
	}
	if loser.Payout.ID != winner.Payout.ID {
		t.Fatal("race loser returned a different payout")
	}
	if len(f.paystack.Charges()) != 1 {
		t.Fatalf("provider charged %d times, want 1", len(f.paystack.Charges()))
	}
}

func TestPayoutUseCase_PreferredProviderErrorTriggersRace(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 10000)

	f.monnify.ChargeToBankFunc = func(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error) {
		return nil, provider.Unavailablef(provider.KindMonnify, "gateway down")
	}

	input := payoutInput(5000)
	input.Provider = "monnify"

	result, err := f.uc.PayVendor(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Provider == provider.KindMonnify {
		t.Fatal("failed preferred provider reported as winner")
	}
	if result.Payout.Status != domain.PayoutStatusCompleted {
		t.Fatalf("status = %s, want completed", result.Payout.Status)
	}
	if len(f.monnify.Charges()) != 1 {
		t.Fatalf("preferred provider attempts = %d, want 1", len(f.monnify.Charges()))
	}
}

func TestPayoutUseCase_ExplicitRejectionFallsBackInOrder(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 10000)

	f.paystack.ChargeToBankFunc = func(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error) {
		return &provider.ChargeResult{Status: provider.StatusFailed}, nil
	}

	input := payoutInput(5000)
	input.Provider = "paystack"

	result, err := f.uc.PayVendor(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Ordered fallback after an explicit rejection: next in line wins.
	if result.Provider != provider.KindFlutterwave {
		t.Fatalf("winner = %s, want flutterwave", result.Provider)
	}
}

func TestPayoutUseCase_VendorPlatformFeeOverride(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 10000)

	fee := decimal.NewFromInt(250)
	f.vendors.Add(&domain.Vendor{
		ID:          "vendor-2",
		Name:        "Suya Spot",
		BankCode:    "044",
		BankAccount: "9988776655",
		PlatformFee: &fee,
	})

	input := payoutInput(5000)
	input.VendorID = "vendor-2"

	result, err := f.uc.PayVendor(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Payout.Fee.Equal(fee) {
		t.Fatalf("fee = %s, want 250", result.Payout.Fee)
	}
	if !result.Payout.VendorAmount.Equal(decimal.NewFromInt(4750)) {
		t.Fatalf("vendor amount = %s, want 4750", result.Payout.VendorAmount)
	}
}

func TestPayoutUseCase_AmountNotAboveFeeRejected(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 10000)

	// Gross equal to the fee leaves the vendor nothing.
	if _, err := f.uc.PayVendor(context.Background(), payoutInput(700)); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(f.paystack.Charges()) != 0 {
		t.Fatal("provider called for invalid amount")
	}
}

func TestPayoutUseCase_VendorNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	vendors := mocks.NewMockVendorDirectory(ctrl)
	vendors.EXPECT().GetByID(gomock.Any(), "missing-vendor").Return(nil, domain.ErrVendorNotFound)

	idGen := mocks.NewMockIDGenerator()
	ledger := usecase.NewLedgerUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockWalletRepository(),
		mocks.NewMockCentralAccountRepository(),
		mocks.NewMockTransactionRepository(),
		idGen,
		usecase.CentralAccountDefaults{},
	)

	uc := usecase.NewPayoutUseCase(
		mocks.NewMockTransactionManager(),
		ledger,
		mocks.NewMockPayoutRepository(),
		vendors,
		provider.NewRegistry(mocks.NewMockGateway(provider.KindPaystack)),
		nil,
		nil,
		idGen,
		nil,
		usecase.PayoutConfig{DefaultFee: decimal.NewFromInt(700)},
		zerolog.Nop(),
	)

	input := payoutInput(5000)
	input.VendorID = "missing-vendor"

	if _, err := uc.PayVendor(context.Background(), input); !errors.Is(err, domain.ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestPayoutUseCase_SuccessPublishesAndCachesSummary(t *testing.T) {
	ctrl := gomock.NewController(t)

	events := mocks.NewMockNotifier(ctrl)
	events.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *domain.Event) error {
		if e.Type != domain.EventTypePayoutCompleted {
			t.Fatalf("event type = %s, want %s", e.Type, domain.EventTypePayoutCompleted)
		}
		return nil
	})

	cache := mocks.NewMockKeyValueCache(ctrl)
	cache.EXPECT().
		Set(gomock.Any(), "payout:order-1", gomock.Any(), usecase.PayoutSummaryTTL).
		Return(nil)

	wallets := mocks.NewMockWalletRepository()
	idGen := mocks.NewMockIDGenerator()
	ledger := usecase.NewLedgerUseCase(
		mocks.NewMockTransactionManager(),
		wallets,
		mocks.NewMockCentralAccountRepository(),
		mocks.NewMockTransactionRepository(),
		idGen,
		usecase.CentralAccountDefaults{},
	)

	vendors := mocks.NewMockVendorRepository()
	vendors.Add(&domain.Vendor{
		ID:          "vendor-1",
		Name:        "Mama Put Kitchen",
		BankCode:    "058",
		BankAccount: "0011223344",
	})

	uc := usecase.NewPayoutUseCase(
		mocks.NewMockTransactionManager(),
		ledger,
		mocks.NewMockPayoutRepository(),
		vendors,
		provider.NewRegistry(mocks.NewMockGateway(provider.KindPaystack)),
		events,
		cache,
		idGen,
		nil,
		usecase.PayoutConfig{DefaultFee: decimal.NewFromInt(700)},
		zerolog.Nop(),
	)

	ctx := context.Background()
	tx, _ := mocks.NewMockTransactionManager().Begin(ctx)
	if _, err := ledger.CreditWallet(ctx, tx, "user-1", decimal.NewFromInt(10000)); err != nil {
		t.Fatalf("funding wallet: %v", err)
	}

	if _, err := uc.PayVendor(ctx, payoutInput(5000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPayoutUseCase_UnknownProviderRejected(t *testing.T) {
	f := newPayoutFixture(t)
	f.fundWallet(t, "user-1", 10000)

	input := payoutInput(5000)
	input.Provider = "barter"

	if _, err := f.uc.PayVendor(context.Background(), input); !errors.Is(err, provider.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
