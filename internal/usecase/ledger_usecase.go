package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
)

// CentralAccountDefaults describe the pooled deposit account provisioned on
// first use for a provider.
type CentralAccountDefaults struct {
	AccountNumber string
	BankName      string
}

// LedgerUseCase is the single owner of balance state: every wallet or
// central-account mutation goes through it, inside a caller-supplied
// transaction that also writes the corresponding ledger entry, so balances
// and history cannot diverge. Callers lock rows through these methods; the
// repositories take SELECT ... FOR UPDATE row locks, which serializes
// concurrent debits on the same wallet.
type LedgerUseCase struct {
	txManager   TransactionManager
	walletRepo  WalletRepository
	centralRepo CentralAccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	defaults    CentralAccountDefaults
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	centralRepo CentralAccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	defaults CentralAccountDefaults,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		walletRepo:  walletRepo,
		centralRepo: centralRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
		defaults:    defaults,
	}
}

// Begin starts a ledger transaction for composing multi-step flows.
func (uc *LedgerUseCase) Begin(ctx context.Context) (Transaction, error) {
	return uc.txManager.Begin(ctx)
}

// GetWallet returns a user's wallet.
func (uc *LedgerUseCase) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByUserID(ctx, userID)
}

// GetOrCreateWallet returns the user's wallet, creating a zero-balance one on
// first use. Wallets are never deleted.
func (uc *LedgerUseCase) GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	wallet, err = uc.getOrCreateWalletTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return wallet, nil
}

func (uc *LedgerUseCase) getOrCreateWalletTx(ctx context.Context, tx Transaction, userID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByUserIDForUpdate(ctx, tx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	wallet = &domain.Wallet{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		Balance:   decimal.Zero,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uc.walletRepo.Create(ctx, tx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// CreditWallet adds amount to the user's wallet, creating it if needed.
// Must be called with a transaction that also records the ledger entry.
func (uc *LedgerUseCase) CreditWallet(ctx context.Context, tx Transaction, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	wallet, err := uc.getOrCreateWalletTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := wallet.ApplyCredit(amount)
	if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance, now); err != nil {
		return nil, err
	}

	wallet.Balance = newBalance
	wallet.UpdatedAt = now

	return wallet, nil
}

// DebitWallet removes amount from the user's wallet. Fails fast with
// ErrInsufficientFunds before any mutation; the row lock taken by
// GetByUserIDForUpdate prevents two concurrent debits from both passing the
// balance check.
func (uc *LedgerUseCase) DebitWallet(ctx context.Context, tx Transaction, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByUserIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := wallet.ValidateDebit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := wallet.ApplyDebit(amount)
	if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance, now); err != nil {
		return nil, err
	}

	wallet.Balance = newBalance
	wallet.UpdatedAt = now

	return wallet, nil
}

// GetOrCreateCentral returns the provider's central account, provisioning it
// from configured defaults on first use.
func (uc *LedgerUseCase) GetOrCreateCentral(ctx context.Context, providerName string) (*domain.CentralAccount, error) {
	account, err := uc.centralRepo.GetByProvider(ctx, providerName)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrCentralAccountNotFound) {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err = uc.getOrCreateCentralTx(ctx, tx, providerName)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

func (uc *LedgerUseCase) getOrCreateCentralTx(ctx context.Context, tx Transaction, providerName string) (*domain.CentralAccount, error) {
	account, err := uc.centralRepo.GetByProviderForUpdate(ctx, tx, providerName)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrCentralAccountNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account = &domain.CentralAccount{
		ID:            uc.idGen.Generate(),
		Provider:      providerName,
		AccountNumber: uc.defaults.AccountNumber,
		BankName:      uc.defaults.BankName,
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.centralRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// CreditCentral adds amount to a provider's pooled deposit account.
func (uc *LedgerUseCase) CreditCentral(ctx context.Context, tx Transaction, providerName string, amount decimal.Decimal) (*domain.CentralAccount, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	account, err := uc.getOrCreateCentralTx(ctx, tx, providerName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := account.ApplyCredit(amount)
	if err := uc.centralRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now

	return account, nil
}

// DebitCentral removes amount from a provider's pooled deposit account.
// Underflow is ErrInsufficientFunds, never clamped.
func (uc *LedgerUseCase) DebitCentral(ctx context.Context, tx Transaction, providerName string, amount decimal.Decimal) (*domain.CentralAccount, error) {
	account, err := uc.centralRepo.GetByProviderForUpdate(ctx, tx, providerName)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDebit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := account.ApplyDebit(amount)
	if err := uc.centralRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now

	return account, nil
}

// ListCentralAccounts lists all pooled deposit accounts.
func (uc *LedgerUseCase) ListCentralAccounts(ctx context.Context) ([]*domain.CentralAccount, error) {
	return uc.centralRepo.List(ctx)
}

// RecordTransaction appends an immutable ledger entry inside the caller's
// transaction. A duplicate (provider, provider_txn_id) surfaces as
// domain.ErrDuplicateTransaction.
func (uc *LedgerUseCase) RecordTransaction(ctx context.Context, tx Transaction, txn *domain.PaymentTransaction) error {
	if txn.ID == "" {
		txn.ID = uc.idGen.Generate()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	if txn.Currency == "" {
		txn.Currency = DefaultCurrency
	}

	if err := txn.Validate(); err != nil {
		return err
	}

	return uc.txnRepo.Create(ctx, tx, txn)
}

// MarkTransactionProcessed flips an entry's processed flag and attaches the
// result metadata. This is the only mutation ledger entries ever see.
func (uc *LedgerUseCase) MarkTransactionProcessed(ctx context.Context, tx Transaction, id string, result map[string]any) error {
	return uc.txnRepo.MarkProcessed(ctx, tx, id, time.Now().UTC(), result)
}
