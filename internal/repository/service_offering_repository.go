package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// ServiceOfferingRepository manages the specialist-to-catalog links.
type ServiceOfferingRepository interface {
	CreateMany(ctx context.Context, specialistID string, masterEntryIDs []string) error
	ReplaceForSpecialist(ctx context.Context, specialistID string, masterEntryIDs []string) error
	DeleteForSpecialist(ctx context.Context, specialistID string, masterEntryIDs []string) error
	ListBySpecialist(ctx context.Context, specialistID string) ([]domain.ServiceOffering, error)
	ListMasterEntryIDs(ctx context.Context, specialistID string) ([]string, error)
}

type serviceOfferingRepository struct {
	pool *pgxpool.Pool
}

// NewServiceOfferingRepository returns a Postgres-backed implementation.
func NewServiceOfferingRepository(pool *pgxpool.Pool) ServiceOfferingRepository {
	return &serviceOfferingRepository{pool: pool}
}

func (r *serviceOfferingRepository) CreateMany(ctx context.Context, specialistID string, masterEntryIDs []string) error {
	if len(masterEntryIDs) == 0 {
		return nil
	}
	const query = `
        INSERT INTO service_offerings (specialist_id, master_entry_id)
        SELECT $1, unnest($2::uuid[])`

	_, err := r.pool.Exec(ctx, query, specialistID, masterEntryIDs)
	return err
}

// ReplaceForSpecialist removes every existing link and installs the given
// set atomically.
func (r *serviceOfferingRepository) ReplaceForSpecialist(ctx context.Context, specialistID string, masterEntryIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM service_offerings WHERE specialist_id=$1`, specialistID); err != nil {
		return err
	}
	if len(masterEntryIDs) > 0 {
		const insert = `
            INSERT INTO service_offerings (specialist_id, master_entry_id)
            SELECT $1, unnest($2::uuid[])`
		if _, err := tx.Exec(ctx, insert, specialistID, masterEntryIDs); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *serviceOfferingRepository) DeleteForSpecialist(ctx context.Context, specialistID string, masterEntryIDs []string) error {
	if len(masterEntryIDs) == 0 {
		return nil
	}
	const query = `
        DELETE FROM service_offerings
        WHERE specialist_id=$1 AND master_entry_id = ANY($2)`

	_, err := r.pool.Exec(ctx, query, specialistID, masterEntryIDs)
	return err
}

// ListBySpecialist returns links joined with their master catalog entries.
func (r *serviceOfferingRepository) ListBySpecialist(ctx context.Context, specialistID string) ([]domain.ServiceOffering, error) {
	const query = `
        SELECT so.id, so.specialist_id, so.master_entry_id, so.created_at,
               m.id, m.title, m.description, m.storage_key, m.bucket_name, m.created_at, m.updated_at
        FROM service_offerings so
        JOIN offering_master_list m ON m.id = so.master_entry_id
        WHERE so.specialist_id=$1
        ORDER BY so.created_at ASC`

	rows, err := r.pool.Query(ctx, query, specialistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []domain.ServiceOffering
	for rows.Next() {
		var offering domain.ServiceOffering
		var entry domain.OfferingMasterEntry
		if err := rows.Scan(
			&offering.ID,
			&offering.SpecialistID,
			&offering.MasterEntryID,
			&offering.CreatedAt,
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
		offering.MasterEntry = &entry
		offerings = append(offerings, offering)
	}
	return offerings, rows.Err()
}

func (r *serviceOfferingRepository) ListMasterEntryIDs(ctx context.Context, specialistID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT master_entry_id FROM service_offerings WHERE specialist_id=$1`, specialistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
