package mocks

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/provider"
	"github.com/gofoodhq/settlement/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	CreateFunc               func(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error
	GetByUserIDFunc          func(ctx context.Context, userID string) (*domain.Wallet, error)
	GetByUserIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userID string) (*domain.Wallet, error)
	UpdateBalanceFunc        func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

func (m *MockWalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.UserID] = wallet
	return nil
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[userID]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByUserIDForUpdate(ctx context.Context, tx usecase.Transaction, userID string) (*domain.Wallet, error) {
	if m.GetByUserIDForUpdateFunc != nil {
		return m.GetByUserIDForUpdateFunc(ctx, tx, userID)
	}
	return m.GetByUserID(ctx, userID)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.ID == id {
			w.Balance = balance
			w.UpdatedAt = updatedAt
		}
	}
	return nil
}

// MockCentralAccountRepository is a mock implementation of CentralAccountRepository.
type MockCentralAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.CentralAccount

	CreateFunc                 func(ctx context.Context, tx usecase.Transaction, account *domain.CentralAccount) error
	GetByProviderFunc          func(ctx context.Context, providerName string) (*domain.CentralAccount, error)
	GetByProviderForUpdateFunc func(ctx context.Context, tx usecase.Transaction, providerName string) (*domain.CentralAccount, error)
	UpdateBalanceFunc          func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc                   func(ctx context.Context) ([]*domain.CentralAccount, error)
}

func NewMockCentralAccountRepository() *MockCentralAccountRepository {
	return &MockCentralAccountRepository{
		accounts: make(map[string]*domain.CentralAccount),
	}
}

func (m *MockCentralAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.CentralAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Provider] = account
	return nil
}

func (m *MockCentralAccountRepository) GetByProvider(ctx context.Context, providerName string) (*domain.CentralAccount, error) {
	if m.GetByProviderFunc != nil {
		return m.GetByProviderFunc(ctx, providerName)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[providerName]; ok {
		return a, nil
	}
	return nil, domain.ErrCentralAccountNotFound
}

func (m *MockCentralAccountRepository) GetByProviderForUpdate(ctx context.Context, tx usecase.Transaction, providerName string) (*domain.CentralAccount, error) {
	if m.GetByProviderForUpdateFunc != nil {
		return m.GetByProviderForUpdateFunc(ctx, tx, providerName)
	}
	return m.GetByProvider(ctx, providerName)
}

func (m *MockCentralAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			a.Balance = balance
			a.UpdatedAt = updatedAt
		}
	}
	return nil
}

func (m *MockCentralAccountRepository) List(ctx context.Context) ([]*domain.CentralAccount, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.CentralAccount
	for _, a := range m.accounts {
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
// The default Create enforces the (provider, provider_txn_id) unique
// constraint the same way the postgres repository does.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.PaymentTransaction
	seen map[string]string

	CreateFunc                 func(ctx context.Context, tx usecase.Transaction, txn *domain.PaymentTransaction) error
	GetByIDFunc                func(ctx context.Context, id string) (*domain.PaymentTransaction, error)
	GetByProviderTxnIDFunc     func(ctx context.Context, providerName, providerTxnID string) (*domain.PaymentTransaction, error)
	MarkProcessedFunc          func(ctx context.Context, tx usecase.Transaction, id string, processedAt time.Time, result map[string]any) error
	ListUnprocessedInboundFunc func(ctx context.Context, limit, offset int) ([]*domain.PaymentTransaction, error)
	SumUnprocessedInboundFunc  func(ctx context.Context) (decimal.Decimal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		byID: make(map[string]*domain.PaymentTransaction),
		seen: make(map[string]string),
	}
}

func txnKey(providerName, providerTxnID string) string {
	return providerName + "\x00" + providerTxnID
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.PaymentTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := txnKey(txn.Provider, txn.ProviderTxnID)
	if _, ok := m.seen[key]; ok {
		return domain.ErrDuplicateTransaction
	}
	m.seen[key] = txn.ID
	m.byID[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByProviderTxnID(ctx context.Context, providerName, providerTxnID string) (*domain.PaymentTransaction, error) {
	if m.GetByProviderTxnIDFunc != nil {
		return m.GetByProviderTxnIDFunc(ctx, providerName, providerTxnID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.seen[txnKey(providerName, providerTxnID)]; ok {
		return m.byID[id], nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) MarkProcessed(ctx context.Context, tx usecase.Transaction, id string, processedAt time.Time, result map[string]any) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, tx, id, processedAt, result)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	t.Processed = true
	t.ProcessedAt = &processedAt
	if t.Metadata == nil {
		t.Metadata = make(map[string]any)
	}
	for k, v := range result {
		t.Metadata[k] = v
	}
	return nil
}

func (m *MockTransactionRepository) ListUnprocessedInbound(ctx context.Context, limit, offset int) ([]*domain.PaymentTransaction, error) {
	if m.ListUnprocessedInboundFunc != nil {
		return m.ListUnprocessedInboundFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PaymentTransaction
	for _, t := range m.byID {
		if t.Direction == domain.DirectionIn && !t.Processed {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) SumUnprocessedInbound(ctx context.Context) (decimal.Decimal, error) {
	if m.SumUnprocessedInboundFunc != nil {
		return m.SumUnprocessedInboundFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range m.byID {
		if t.Direction == domain.DirectionIn && !t.Processed {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// MockPayoutRepository is a mock implementation of PayoutRepository. The
// default Create enforces the one-live-payout-per-order rule the same way the
// postgres repository does.
type MockPayoutRepository struct {
	mu      sync.RWMutex
	payouts map[string]*domain.VendorPayout

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, payout *domain.VendorPayout) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.VendorPayout, error)
	GetByOrderIDFunc   func(ctx context.Context, orderID string) (*domain.VendorPayout, error)
	GetByReferenceFunc func(ctx context.Context, reference string) (*domain.VendorPayout, error)
	UpdateStatusFunc   func(ctx context.Context, tx usecase.Transaction, id string, status domain.PayoutStatus, providerName string, response map[string]any, updatedAt time.Time) error
	ListByStatusFunc   func(ctx context.Context, status domain.PayoutStatus, limit, offset int) ([]*domain.VendorPayout, error)
}

func NewMockPayoutRepository() *MockPayoutRepository {
	return &MockPayoutRepository{
		payouts: make(map[string]*domain.VendorPayout),
	}
}

func (m *MockPayoutRepository) Create(ctx context.Context, tx usecase.Transaction, payout *domain.VendorPayout) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payout)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payouts {
		if p.OrderID == payout.OrderID && p.Status != domain.PayoutStatusFailed {
			return domain.ErrDuplicatePayout
		}
	}
	m.payouts[payout.ID] = payout
	return nil
}

func (m *MockPayoutRepository) GetByID(ctx context.Context, id string) (*domain.VendorPayout, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payouts[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPayoutNotFound
}

func (m *MockPayoutRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.VendorPayout, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payouts {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return nil, domain.ErrPayoutNotFound
}

func (m *MockPayoutRepository) GetByReference(ctx context.Context, reference string) (*domain.VendorPayout, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, reference)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payouts {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, domain.ErrPayoutNotFound
}

func (m *MockPayoutRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.PayoutStatus, providerName string, response map[string]any, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, providerName, response, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payouts[id]
	if !ok {
		return domain.ErrPayoutNotFound
	}
	if !p.Status.CanTransitionTo(status) {
		return domain.ErrInvalidPayoutTransition
	}
	p.Status = status
	if providerName != "" {
		p.Provider = providerName
	}
	if response != nil {
		p.Response = response
	}
	p.UpdatedAt = updatedAt
	return nil
}

func (m *MockPayoutRepository) ListByStatus(ctx context.Context, status domain.PayoutStatus, limit, offset int) ([]*domain.VendorPayout, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.VendorPayout
	for _, p := range m.payouts {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

// MockFullNameRepository is a mock implementation of FullNameRepository.
type MockFullNameRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.FullName

	UpsertFunc         func(ctx context.Context, record *domain.FullName) error
	GetByUserIDFunc    func(ctx context.Context, userID string) (*domain.FullName, error)
	FindExactFunc      func(ctx context.Context, name string) ([]*domain.FullName, error)
	FindContainingFunc func(ctx context.Context, name string) ([]*domain.FullName, error)
}

func NewMockFullNameRepository() *MockFullNameRepository {
	return &MockFullNameRepository{
		records: make(map[string]*domain.FullName),
	}
}

func (m *MockFullNameRepository) Upsert(ctx context.Context, record *domain.FullName) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.UserID] = record
	return nil
}

func (m *MockFullNameRepository) GetByUserID(ctx context.Context, userID string) (*domain.FullName, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[userID]; ok {
		return r, nil
	}
	return nil, domain.ErrFullNameNotFound
}

func (m *MockFullNameRepository) FindExact(ctx context.Context, name string) ([]*domain.FullName, error) {
	if m.FindExactFunc != nil {
		return m.FindExactFunc(ctx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.FullName
	for _, r := range m.records {
		if strings.EqualFold(r.FullName, name) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockFullNameRepository) FindContaining(ctx context.Context, name string) ([]*domain.FullName, error) {
	if m.FindContainingFunc != nil {
		return m.FindContainingFunc(ctx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.FullName
	for _, r := range m.records {
		if strings.Contains(strings.ToLower(r.FullName), strings.ToLower(name)) {
			out = append(out, r)
		}
	}
	return out, nil
}

// MockVendorRepository is a mock implementation of VendorRepository.
type MockVendorRepository struct {
	mu      sync.RWMutex
	vendors map[string]*domain.Vendor

	GetByIDFunc func(ctx context.Context, id string) (*domain.Vendor, error)
}

func NewMockVendorRepository() *MockVendorRepository {
	return &MockVendorRepository{
		vendors: make(map[string]*domain.Vendor),
	}
}

func (m *MockVendorRepository) Add(vendor *domain.Vendor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vendors[vendor.ID] = vendor
}

func (m *MockVendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vendors[id]; ok {
		return v, nil
	}
	return nil, domain.ErrVendorNotFound
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator hands out sequential test IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "test-id-" + strconv.Itoa(m.counter)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*domain.Event

	PublishFunc func(ctx context.Context, event *domain.Event) error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *domain.Event) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Events() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Event, len(m.events))
	copy(out, m.events)
	return out
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu    sync.Mutex
	items map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{items: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.items[key]; ok {
		return true, existing, nil
	}
	m.items[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = response
	return nil
}

// MockGateway is a controllable payment provider.
type MockGateway struct {
	KindValue provider.Kind

	InitializePaymentFunc func(ctx context.Context, customer provider.Customer, amount decimal.Decimal) (*provider.InitResult, error)
	VerifyPaymentFunc     func(ctx context.Context, reference string) (*provider.VerifyResult, error)
	ChargeToBankFunc      func(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error)

	mu      sync.Mutex
	charges []provider.ChargeRequest
}

func NewMockGateway(kind provider.Kind) *MockGateway {
	return &MockGateway{KindValue: kind}
}

func (m *MockGateway) Kind() provider.Kind { return m.KindValue }

func (m *MockGateway) InitializePayment(ctx context.Context, customer provider.Customer, amount decimal.Decimal) (*provider.InitResult, error) {
	if m.InitializePaymentFunc != nil {
		return m.InitializePaymentFunc(ctx, customer, amount)
	}
	return &provider.InitResult{
		PaymentLink: "https://pay.example.com/" + customer.UserID,
		Reference:   "ref-" + customer.UserID,
	}, nil
}

func (m *MockGateway) VerifyPayment(ctx context.Context, reference string) (*provider.VerifyResult, error) {
	if m.VerifyPaymentFunc != nil {
		return m.VerifyPaymentFunc(ctx, reference)
	}
	return &provider.VerifyResult{Status: provider.StatusSuccess, Reference: reference}, nil
}

func (m *MockGateway) ChargeToBank(ctx context.Context, req provider.ChargeRequest) (*provider.ChargeResult, error) {
	m.mu.Lock()
	m.charges = append(m.charges, req)
	m.mu.Unlock()

	if m.ChargeToBankFunc != nil {
		return m.ChargeToBankFunc(ctx, req)
	}
	return &provider.ChargeResult{
		Status:            provider.StatusSuccess,
		ProviderReference: string(m.KindValue) + "-" + req.Reference,
	}, nil
}

// Charges returns the charge requests seen so far.
func (m *MockGateway) Charges() []provider.ChargeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provider.ChargeRequest, len(m.charges))
	copy(out, m.charges)
	return out
}
