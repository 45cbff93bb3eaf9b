package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// PlatformFeeRepository defines persistence access for fee tiers.
type PlatformFeeRepository interface {
	Create(ctx context.Context, fee *domain.PlatformFee) error
	Update(ctx context.Context, fee *domain.PlatformFee) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.PlatformFee, error)
	GetByTierName(ctx context.Context, name domain.TierName) (*domain.PlatformFee, error)
	List(ctx context.Context) ([]domain.PlatformFee, error)
}

type platformFeeRepository struct {
	pool *pgxpool.Pool
}

// NewPlatformFeeRepository returns a Postgres-backed implementation.
func NewPlatformFeeRepository(pool *pgxpool.Pool) PlatformFeeRepository {
	return &platformFeeRepository{pool: pool}
}

const feeColumns = `id, tier_name, min_value, max_value, fee_percentage, created_at, updated_at`

func (r *platformFeeRepository) Create(ctx context.Context, fee *domain.PlatformFee) error {
	const query = `
        INSERT INTO platform_fees (tier_name, min_value, max_value, fee_percentage)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		fee.TierName,
		fee.MinValue,
		fee.MaxValue,
		fee.FeePercentage,
	).Scan(&fee.ID, &fee.CreatedAt, &fee.UpdatedAt)
}

func (r *platformFeeRepository) Update(ctx context.Context, fee *domain.PlatformFee) error {
	const query = `
        UPDATE platform_fees
        SET tier_name=$1, min_value=$2, max_value=$3, fee_percentage=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		fee.TierName,
		fee.MinValue,
		fee.MaxValue,
		fee.FeePercentage,
		fee.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *platformFeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM platform_fees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *platformFeeRepository) GetByID(ctx context.Context, id string) (*domain.PlatformFee, error) {
	const query = `SELECT ` + feeColumns + ` FROM platform_fees WHERE id=$1`
	return r.scanFee(r.pool.QueryRow(ctx, query, id))
}

func (r *platformFeeRepository) GetByTierName(ctx context.Context, name domain.TierName) (*domain.PlatformFee, error) {
	const query = `SELECT ` + feeColumns + ` FROM platform_fees WHERE tier_name=$1`
	return r.scanFee(r.pool.QueryRow(ctx, query, name))
}

// List returns every tier ordered by creation time.
func (r *platformFeeRepository) List(ctx context.Context) ([]domain.PlatformFee, error) {
	const query = `SELECT ` + feeColumns + ` FROM platform_fees ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []domain.PlatformFee
	for rows.Next() {
		var fee domain.PlatformFee
		if err := rows.Scan(
			&fee.ID,
			&fee.TierName,
			&fee.MinValue,
			&fee.MaxValue,
			&fee.FeePercentage,
			&fee.CreatedAt,
			&fee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		fees = append(fees, fee)
	}
	return fees, rows.Err()
}

func (r *platformFeeRepository) scanFee(row pgx.Row) (*domain.PlatformFee, error) {
	var fee domain.PlatformFee
	if err := row.Scan(
		&fee.ID,
		&fee.TierName,
		&fee.MinValue,
		&fee.MaxValue,
		&fee.FeePercentage,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &fee, nil
}
