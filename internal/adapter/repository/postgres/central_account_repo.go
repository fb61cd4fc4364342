package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/usecase"
)

// CentralAccountRepository implements usecase.CentralAccountRepository.
type CentralAccountRepository struct {
	pool *pgxpool.Pool
}

// NewCentralAccountRepository creates a new CentralAccountRepository.
func NewCentralAccountRepository(pool *pgxpool.Pool) *CentralAccountRepository {
	return &CentralAccountRepository{pool: pool}
}

const centralColumns = `id, provider, account_number, bank_name, balance, created_at, updated_at`

// Create inserts a new central account. One row per provider.
func (r *CentralAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.CentralAccount) error {
	query := `
		INSERT INTO central_accounts (id, provider, account_number, bank_name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		account.ID,
		account.Provider,
		account.AccountNumber,
		account.BankName,
		decimalToNumeric(account.Balance),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("central account for %s already exists: %w", account.Provider, err)
		}
		return fmt.Errorf("creating central account: %w", err)
	}

	return nil
}

// GetByProvider retrieves the central account for a provider.
func (r *CentralAccountRepository) GetByProvider(ctx context.Context, providerName string) (*domain.CentralAccount, error) {
	query := `SELECT ` + centralColumns + ` FROM central_accounts WHERE provider = $1`

	return scanCentralAccount(r.pool.QueryRow(ctx, query, providerName))
}

// GetByProviderForUpdate retrieves a central account with a FOR UPDATE lock.
func (r *CentralAccountRepository) GetByProviderForUpdate(ctx context.Context, tx usecase.Transaction, providerName string) (*domain.CentralAccount, error) {
	query := `SELECT ` + centralColumns + ` FROM central_accounts WHERE provider = $1 FOR UPDATE`

	return scanCentralAccount(tx.(*Tx).PgxTx().QueryRow(ctx, query, providerName))
}

// UpdateBalance updates the balance of a central account.
func (r *CentralAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE central_accounts SET balance = $2, updated_at = $3 WHERE id = $1`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return fmt.Errorf("updating central account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCentralAccountNotFound
	}

	return nil
}

// List lists all central accounts.
func (r *CentralAccountRepository) List(ctx context.Context) ([]*domain.CentralAccount, error) {
	query := `SELECT ` + centralColumns + ` FROM central_accounts ORDER BY provider`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing central accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.CentralAccount
	for rows.Next() {
		account, err := scanCentralAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanCentralAccount(row pgx.Row) (*domain.CentralAccount, error) {
	var (
		account   domain.CentralAccount
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.Provider,
		&account.AccountNumber,
		&account.BankName,
		&balance,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCentralAccountNotFound
		}
		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}
