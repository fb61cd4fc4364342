package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
)

// WalletRepository defines data access for wallets. Balance writes only ever
// happen through LedgerUseCase inside a transaction holding the row lock.
type WalletRepository interface {
	Create(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, tx Transaction, userID string) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// CentralAccountRepository defines data access for pooled deposit accounts.
type CentralAccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.CentralAccount) error
	GetByProvider(ctx context.Context, providerName string) (*domain.CentralAccount, error)
	GetByProviderForUpdate(ctx context.Context, tx Transaction, providerName string) (*domain.CentralAccount, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context) ([]*domain.CentralAccount, error)
}

// TransactionRepository defines data access for payment ledger entries.
// Create must surface a unique violation on (provider, provider_txn_id) as
// domain.ErrDuplicateTransaction.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.PaymentTransaction) error
	GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error)
	GetByProviderTxnID(ctx context.Context, providerName, providerTxnID string) (*domain.PaymentTransaction, error)
	MarkProcessed(ctx context.Context, tx Transaction, id string, processedAt time.Time, result map[string]any) error
	ListUnprocessedInbound(ctx context.Context, limit, offset int) ([]*domain.PaymentTransaction, error)
	SumUnprocessedInbound(ctx context.Context) (decimal.Decimal, error)
}

// PayoutRepository defines data access for vendor payouts.
type PayoutRepository interface {
	Create(ctx context.Context, tx Transaction, payout *domain.VendorPayout) error
	GetByID(ctx context.Context, id string) (*domain.VendorPayout, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.VendorPayout, error)
	GetByReference(ctx context.Context, reference string) (*domain.VendorPayout, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.PayoutStatus, providerName string, response map[string]any, updatedAt time.Time) error
	ListByStatus(ctx context.Context, status domain.PayoutStatus, limit, offset int) ([]*domain.VendorPayout, error)
}

// FullNameRepository defines data access for payer-name records.
type FullNameRepository interface {
	Upsert(ctx context.Context, record *domain.FullName) error
	GetByUserID(ctx context.Context, userID string) (*domain.FullName, error)
	// FindExact matches case-insensitively on the whole name.
	FindExact(ctx context.Context, name string) ([]*domain.FullName, error)
	// FindContaining matches case-insensitively on a substring.
	FindContaining(ctx context.Context, name string) ([]*domain.FullName, error)
}

// VendorRepository is a read-only collaborator lookup.
type VendorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// EventPublisher pushes operator notifications (matched/unmatched topups,
// payout outcomes). Unmatched inbound payments must never be dropped
// silently, so publishing failures are logged but do not fail the operation.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
