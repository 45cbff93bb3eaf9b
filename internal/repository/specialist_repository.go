package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// SpecialistFilter narrows specialist listings. Zero values mean "no filter".
type SpecialistFilter struct {
	Search             *string
	IsDraft            *bool
	VerificationStatus *domain.VerificationStatus
	IsVerified         *bool
	Limit              int
	Offset             int
}

// SpecialistRepository defines persistence access for specialist profiles.
// Soft-deleted rows are invisible to every read.
type SpecialistRepository interface {
	Create(ctx context.Context, sp *domain.Specialist) error
	Update(ctx context.Context, sp *domain.Specialist) error
	SoftDelete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Specialist, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Specialist, error)
	List(ctx context.Context, filter SpecialistFilter) ([]domain.Specialist, int, error)
}

type specialistRepository struct {
	pool *pgxpool.Pool
}

// NewSpecialistRepository returns a Postgres-backed implementation.
func NewSpecialistRepository(pool *pgxpool.Pool) SpecialistRepository {
	return &specialistRepository{pool: pool}
}

const specialistColumns = `id, title, slug, description, base_price, platform_fee, final_price,
        duration_days, is_draft, verification_status, is_verified, created_at, updated_at, deleted_at`

func (r *specialistRepository) Create(ctx context.Context, sp *domain.Specialist) error {
	const query = `
        INSERT INTO specialists
            (title, slug, description, base_price, platform_fee, final_price, duration_days,
             is_draft, verification_status, is_verified)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		sp.Title,
		sp.Slug,
		sp.Description,
		sp.BasePrice,
		sp.PlatformFee,
		sp.FinalPrice,
		sp.DurationDays,
		sp.IsDraft,
		sp.VerificationStatus,
		sp.IsVerified,
	).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
}

func (r *specialistRepository) Update(ctx context.Context, sp *domain.Specialist) error {
	const query = `
        UPDATE specialists
        SET title=$1, slug=$2, description=$3, base_price=$4, platform_fee=$5, final_price=$6,
            duration_days=$7, is_draft=$8, verification_status=$9, is_verified=$10, updated_at=NOW()
        WHERE id=$11 AND deleted_at IS NULL`

	cmd, err := r.pool.Exec(ctx, query,
		sp.Title,
		sp.Slug,
		sp.Description,
		sp.BasePrice,
		sp.PlatformFee,
		sp.FinalPrice,
		sp.DurationDays,
		sp.IsDraft,
		sp.VerificationStatus,
		sp.IsVerified,
		sp.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *specialistRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE specialists SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *specialistRepository) GetByID(ctx context.Context, id string) (*domain.Specialist, error) {
	const query = `SELECT ` + specialistColumns + ` FROM specialists WHERE id=$1 AND deleted_at IS NULL`
	return r.scanSpecialist(r.pool.QueryRow(ctx, query, id))
}

func (r *specialistRepository) GetBySlug(ctx context.Context, slug string) (*domain.Specialist, error) {
	const query = `SELECT ` + specialistColumns + ` FROM specialists WHERE slug=$1 AND deleted_at IS NULL`
	return r.scanSpecialist(r.pool.QueryRow(ctx, query, slug))
}

func (r *specialistRepository) List(ctx context.Context, filter SpecialistFilter) ([]domain.Specialist, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", idx, idx))
	}
	if filter.IsDraft != nil {
		args = append(args, *filter.IsDraft)
		conditions = append(conditions, fmt.Sprintf("is_draft=$%d", len(args)))
	}
	if filter.VerificationStatus != nil {
		args = append(args, *filter.VerificationStatus)
		conditions = append(conditions, fmt.Sprintf("verification_status=$%d", len(args)))
	}
	if filter.IsVerified != nil {
		args = append(args, *filter.IsVerified)
		conditions = append(conditions, fmt.Sprintf("is_verified=$%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM specialists WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	listQuery := fmt.Sprintf(
		`SELECT `+specialistColumns+` FROM specialists WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var specialists []domain.Specialist
	for rows.Next() {
		sp, err := scanSpecialistRow(rows)
		if err != nil {
			return nil, 0, err
		}
		specialists = append(specialists, *sp)
	}
	return specialists, total, rows.Err()
}

func (r *specialistRepository) scanSpecialist(row pgx.Row) (*domain.Specialist, error) {
	return scanSpecialistRow(row)
}

func scanSpecialistRow(row pgx.Row) (*domain.Specialist, error) {
	var sp domain.Specialist
	if err := row.Scan(
		&sp.ID,
		&sp.Title,
		&sp.Slug,
		&sp.Description,
		&sp.BasePrice,
		&sp.PlatformFee,
		&sp.FinalPrice,
		&sp.DurationDays,
		&sp.IsDraft,
		&sp.VerificationStatus,
		&sp.IsVerified,
		&sp.CreatedAt,
		&sp.UpdatedAt,
		&sp.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &sp, nil
}
