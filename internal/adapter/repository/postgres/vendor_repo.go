package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gofoodhq/settlement/internal/domain"
)

// VendorRepository implements usecase.VendorRepository. The vendor catalog is
// owned by the orders service; this is a read-side lookup plus a seed helper
// for the CLI.
type VendorRepository struct {
	pool *pgxpool.Pool
}

// NewVendorRepository creates a new VendorRepository.
func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

const vendorColumns = `id, name, email, bank_code, bank_account, platform_fee, created_at`

// GetByID retrieves a vendor by ID.
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`

	return scanVendor(r.pool.QueryRow(ctx, query, id))
}

// Upsert registers or refreshes a vendor record.
func (r *VendorRepository) Upsert(ctx context.Context, vendor *domain.Vendor) error {
	var fee pgtype.Numeric
	if vendor.PlatformFee != nil {
		fee = decimalToNumeric(*vendor.PlatformFee)
	}

	query := `
		INSERT INTO vendors (id, name, email, bank_code, bank_account, platform_fee, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			email = EXCLUDED.email,
			bank_code = EXCLUDED.bank_code,
			bank_account = EXCLUDED.bank_account,
			platform_fee = EXCLUDED.platform_fee
	`

	_, err := r.pool.Exec(ctx, query,
		vendor.ID,
		vendor.Name,
		vendor.Email,
		vendor.BankCode,
		vendor.BankAccount,
		fee,
		timeToPgTimestamptz(vendor.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting vendor: %w", err)
	}

	return nil
}

func scanVendor(row pgx.Row) (*domain.Vendor, error) {
	var (
		vendor    domain.Vendor
		fee       pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&vendor.ID,
		&vendor.Name,
		&vendor.Email,
		&vendor.BankCode,
		&vendor.BankAccount,
		&fee,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, err
	}

	if fee.Valid {
		d := numericToDecimal(fee)
		vendor.PlatformFee = &d
	}
	vendor.CreatedAt = createdAt.Time

	return &vendor, nil
}
