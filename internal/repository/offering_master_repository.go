package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// OfferingMasterRepository defines persistence access for the service
// offerings master catalog.
type OfferingMasterRepository interface {
	Create(ctx context.Context, entry *domain.OfferingMasterEntry) error
	Update(ctx context.Context, entry *domain.OfferingMasterEntry) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.OfferingMasterEntry, error)
	List(ctx context.Context) ([]domain.OfferingMasterEntry, error)
	CountByIDs(ctx context.Context, ids []string) (int, error)
}

type offeringMasterRepository struct {
	pool *pgxpool.Pool
}

// NewOfferingMasterRepository returns a Postgres-backed implementation.
func NewOfferingMasterRepository(pool *pgxpool.Pool) OfferingMasterRepository {
	return &offeringMasterRepository{pool: pool}
}

const masterColumns = `id, title, description, storage_key, bucket_name, created_at, updated_at`

func (r *offeringMasterRepository) Create(ctx context.Context, entry *domain.OfferingMasterEntry) error {
	const query = `
        INSERT INTO offering_master_list (title, description, storage_key, bucket_name)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		entry.Title,
		entry.Description,
		entry.StorageKey,
		entry.BucketName,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *offeringMasterRepository) Update(ctx context.Context, entry *domain.OfferingMasterEntry) error {
	const query = `
        UPDATE offering_master_list
        SET title=$1, description=$2, storage_key=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		entry.Title,
		entry.Description,
		entry.StorageKey,
		entry.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *offeringMasterRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM offering_master_list WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *offeringMasterRepository) GetByID(ctx context.Context, id string) (*domain.OfferingMasterEntry, error) {
	const query = `SELECT ` + masterColumns + ` FROM offering_master_list WHERE id=$1`

	var entry domain.OfferingMasterEntry
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.Title,
		&entry.Description,
		&entry.StorageKey,
		&entry.BucketName,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *offeringMasterRepository) List(ctx context.Context) ([]domain.OfferingMasterEntry, error) {
	const query = `SELECT ` + masterColumns + ` FROM offering_master_list ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.OfferingMasterEntry
	for rows.Next() {
		var entry domain.OfferingMasterEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.Description,
			&entry.StorageKey,
			&entry.BucketName,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountByIDs reports how many of the given ids exist in the catalog.
func (r *offeringMasterRepository) CountByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM offering_master_list WHERE id = ANY($1)`, ids,
	).Scan(&count)
	return count, err
}
