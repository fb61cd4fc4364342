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

// TransactionRepository implements usecase.TransactionRepository over the
// append-only payment ledger.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, provider, provider_txn_id, amount, currency, direction,
	central_account_id, target_user_id, target_vendor_id, metadata, processed, created_at, processed_at`

// Create appends a ledger entry. A duplicate (provider, provider_txn_id)
// surfaces as domain.ErrDuplicateTransaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.PaymentTransaction) error {
	metadata, err := metadataToJSON(txn.Metadata)
	if err != nil {
		return fmt.Errorf("encoding transaction metadata: %w", err)
	}

	query := `
		INSERT INTO payment_transactions (
			id, provider, provider_txn_id, amount, currency, direction,
			central_account_id, target_user_id, target_vendor_id, metadata, processed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		txn.ID,
		txn.Provider,
		txn.ProviderTxnID,
		decimalToNumeric(txn.Amount),
		txn.Currency,
		string(txn.Direction),
		nullString(txn.CentralAccountID),
		nullString(txn.TargetUserID),
		nullString(txn.TargetVendorID),
		metadata,
		txn.Processed,
		timeToPgTimestamptz(txn.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("creating payment transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a ledger entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE id = $1`

	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByProviderTxnID retrieves a ledger entry by its external identity.
func (r *TransactionRepository) GetByProviderTxnID(ctx context.Context, providerName, providerTxnID string) (*domain.PaymentTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE provider = $1 AND provider_txn_id = $2`

	return scanTransaction(r.pool.QueryRow(ctx, query, providerName, providerTxnID))
}

// MarkProcessed flips the processed flag and merges result metadata. This is
// the only update the table ever sees.
func (r *TransactionRepository) MarkProcessed(ctx context.Context, tx usecase.Transaction, id string, processedAt time.Time, result map[string]any) error {
	resultJSON, err := metadataToJSON(result)
	if err != nil {
		return fmt.Errorf("encoding result metadata: %w", err)
	}
	if resultJSON == nil {
		resultJSON = []byte(`{}`)
	}

	query := `
		UPDATE payment_transactions
		SET processed = TRUE,
			processed_at = $2,
			metadata = COALESCE(metadata, '{}'::jsonb) || $3::jsonb
		WHERE id = $1 AND processed = FALSE
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, timeToPgTimestamptz(processedAt), resultJSON)
	if err != nil {
		return fmt.Errorf("marking transaction processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListUnprocessedInbound lists inbound entries awaiting distribution, oldest
// first.
func (r *TransactionRepository) ListUnprocessedInbound(ctx context.Context, limit, offset int) ([]*domain.PaymentTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE direction = 'in' AND processed = FALSE
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing unprocessed inbound: %w", err)
	}
	defer rows.Close()

	var txns []*domain.PaymentTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// SumUnprocessedInbound totals pooled money that never reached a wallet.
func (r *TransactionRepository) SumUnprocessedInbound(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payment_transactions
		WHERE direction = 'in' AND processed = FALSE
	`

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing unprocessed inbound: %w", err)
	}

	return numericToDecimal(total), nil
}

func scanTransaction(row pgx.Row) (*domain.PaymentTransaction, error) {
	var (
		txn              domain.PaymentTransaction
		amount           pgtype.Numeric
		direction        string
		centralAccountID pgtype.Text
		targetUserID     pgtype.Text
		targetVendorID   pgtype.Text
		metadata         []byte
		createdAt        pgtype.Timestamptz
		processedAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.Provider,
		&txn.ProviderTxnID,
		&amount,
		&txn.Currency,
		&direction,
		&centralAccountID,
		&targetUserID,
		&targetVendorID,
		&metadata,
		&txn.Processed,
		&createdAt,
		&processedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.Direction = domain.Direction(direction)
	txn.CentralAccountID = centralAccountID.String
	txn.TargetUserID = targetUserID.String
	txn.TargetVendorID = targetVendorID.String
	txn.Metadata = jsonToMetadata(metadata)
	txn.CreatedAt = createdAt.Time
	if processedAt.Valid {
		t := processedAt.Time
		txn.ProcessedAt = &t
	}

	return &txn, nil
}

func nullString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
