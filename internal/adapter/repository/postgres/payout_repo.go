package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/usecase"
)

// PayoutRepository implements usecase.PayoutRepository.
type PayoutRepository struct {
	pool *pgxpool.Pool
}

// NewPayoutRepository creates a new PayoutRepository.
func NewPayoutRepository(pool *pgxpool.Pool) *PayoutRepository {
	return &PayoutRepository{pool: pool}
}

const payoutColumns = `id, user_id, vendor_id, order_id, amount, fee, vendor_amount,
	provider, bank_code, account_number, status, reference, response, created_at, updated_at`

// Create inserts a payout row. order_id is unique across non-failed payouts.
func (r *PayoutRepository) Create(ctx context.Context, tx usecase.Transaction, payout *domain.VendorPayout) error {
	response, err := metadataToJSON(payout.Response)
	if err != nil {
		return fmt.Errorf("encoding payout response: %w", err)
	}

	now := time.Now().UTC()
	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = now
	}
	if payout.UpdatedAt.IsZero() {
		payout.UpdatedAt = now
	}

	query := `
		INSERT INTO vendor_payouts (
			id, user_id, vendor_id, order_id, amount, fee, vendor_amount,
			provider, bank_code, account_number, status, reference, response, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		payout.ID,
		payout.UserID,
		payout.VendorID,
		payout.OrderID,
		decimalToNumeric(payout.Amount),
		decimalToNumeric(payout.Fee),
		decimalToNumeric(payout.VendorAmount),
		nullString(payout.Provider),
		payout.BankCode,
		payout.AccountNumber,
		string(payout.Status),
		payout.Reference,
		response,
		timeToPgTimestamptz(payout.CreatedAt),
		timeToPgTimestamptz(payout.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order %s: %w", payout.OrderID, domain.ErrDuplicatePayout)
		}
		return fmt.Errorf("creating payout: %w", err)
	}

	return nil
}

// GetByID retrieves a payout by ID.
func (r *PayoutRepository) GetByID(ctx context.Context, id string) (*domain.VendorPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM vendor_payouts WHERE id = $1`

	return scanPayout(r.pool.QueryRow(ctx, query, id))
}

// GetByOrderID retrieves the most recent payout for an order.
func (r *PayoutRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.VendorPayout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM vendor_payouts
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	return scanPayout(r.pool.QueryRow(ctx, query, orderID))
}

// GetByReference retrieves a payout by its idempotency reference.
func (r *PayoutRepository) GetByReference(ctx context.Context, reference string) (*domain.VendorPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM vendor_payouts WHERE reference = $1`

	return scanPayout(r.pool.QueryRow(ctx, query, reference))
}

// UpdateStatus transitions a payout and attaches the provider outcome. The
// status predicate enforces legal transitions at the database level too.
func (r *PayoutRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.PayoutStatus, providerName string, response map[string]any, updatedAt time.Time) error {
	responseJSON, err := metadataToJSON(response)
	if err != nil {
		return fmt.Errorf("encoding payout response: %w", err)
	}

	query := `
		UPDATE vendor_payouts
		SET status = $2,
			provider = COALESCE(NULLIF($3, ''), provider),
			response = COALESCE($4, response),
			updated_at = $5
		WHERE id = $1 AND status IN ('pending', 'processing')
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, string(status), providerName, responseJSON, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return fmt.Errorf("updating payout status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidPayoutTransition
	}

	return nil
}

// ListByStatus lists payouts in a given state, newest first.
func (r *PayoutRepository) ListByStatus(ctx context.Context, status domain.PayoutStatus, limit, offset int) ([]*domain.VendorPayout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM vendor_payouts
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*domain.VendorPayout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}

	return payouts, rows.Err()
}

func scanPayout(row pgx.Row) (*domain.VendorPayout, error) {
	var (
		payout       domain.VendorPayout
		amount       pgtype.Numeric
		fee          pgtype.Numeric
		vendorAmount pgtype.Numeric
		providerName pgtype.Text
		status       string
		response     []byte
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&payout.ID,
		&payout.UserID,
		&payout.VendorID,
		&payout.OrderID,
		&amount,
		&fee,
		&vendorAmount,
		&providerName,
		&payout.BankCode,
		&payout.AccountNumber,
		&status,
		&payout.Reference,
		&response,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPayoutNotFound
		}
		return nil, err
	}

	payout.Amount = numericToDecimal(amount)
	payout.Fee = numericToDecimal(fee)
	payout.VendorAmount = numericToDecimal(vendorAmount)
	payout.Provider = providerName.String
	payout.Status = domain.PayoutStatus(status)
	payout.Response = jsonToMetadata(response)
	payout.CreatedAt = createdAt.Time
	payout.UpdatedAt = updatedAt.Time

	return &payout, nil
}
