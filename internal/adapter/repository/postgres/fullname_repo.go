package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gofoodhq/settlement/internal/domain"
)

// FullNameRepository implements usecase.FullNameRepository. Names are stored
// normalized (lowercase, collapsed whitespace) so lookups are case-folded
// equality and escaped substring scans.
type FullNameRepository struct {
	pool *pgxpool.Pool
}

// NewFullNameRepository creates a new FullNameRepository.
func NewFullNameRepository(pool *pgxpool.Pool) *FullNameRepository {
	return &FullNameRepository{pool: pool}
}

const fullnameColumns = `id, user_id, full_name, added_at`

// Upsert registers or refreshes a user's payer name.
func (r *FullNameRepository) Upsert(ctx context.Context, record *domain.FullName) error {
	query := `
		INSERT INTO fullnames (id, user_id, full_name, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name, added_at = EXCLUDED.added_at
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.FullName,
		timeToPgTimestamptz(record.AddedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting fullname: %w", err)
	}

	return nil
}

// GetByUserID retrieves a user's registered payer name.
func (r *FullNameRepository) GetByUserID(ctx context.Context, userID string) (*domain.FullName, error) {
	query := `SELECT ` + fullnameColumns + ` FROM fullnames WHERE user_id = $1`

	return scanFullName(r.pool.QueryRow(ctx, query, userID))
}

// FindExact matches case-insensitively on the whole name. Plain equality, not
// a pattern match: bank narrations are untrusted and must never act as
// wildcards against an "exact" lookup.
func (r *FullNameRepository) FindExact(ctx context.Context, name string) ([]*domain.FullName, error) {
	query := `SELECT ` + fullnameColumns + ` FROM fullnames WHERE lower(full_name) = lower($1)`

	return r.find(ctx, query, name)
}

// FindContaining matches case-insensitively on a substring. The needle is
// escaped so ILIKE metacharacters in it match literally.
func (r *FullNameRepository) FindContaining(ctx context.Context, name string) ([]*domain.FullName, error) {
	query := `SELECT ` + fullnameColumns + ` FROM fullnames WHERE full_name ILIKE '%' || $1 || '%' ESCAPE '\'`

	return r.find(ctx, query, escapeLikePattern(name))
}

// escapeLikePattern neutralizes LIKE/ILIKE metacharacters in untrusted text.
func escapeLikePattern(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *FullNameRepository) find(ctx context.Context, query, name string) ([]*domain.FullName, error) {
	rows, err := r.pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("finding fullnames: %w", err)
	}
	defer rows.Close()

	var records []*domain.FullName
	for rows.Next() {
		record, err := scanFullName(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanFullName(row pgx.Row) (*domain.FullName, error) {
	var (
		record  domain.FullName
		addedAt pgtype.Timestamptz
	)

	err := row.Scan(&record.ID, &record.UserID, &record.FullName, &addedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFullNameNotFound
		}
		return nil, err
	}

	record.AddedAt = addedAt.Time

	return &record, nil
}
