package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// MediaRepository defines persistence access for uploaded media rows.
type MediaRepository interface {
	CreateMany(ctx context.Context, media []domain.Media) error
	ListBySpecialist(ctx context.Context, specialistID string) ([]domain.Media, error)
	GetActiveByIDs(ctx context.Context, specialistID string, ids []string) ([]domain.Media, error)
	SoftDeleteByIDs(ctx context.Context, ids []string) error
}

type mediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository returns a Postgres-backed implementation.
func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepository{pool: pool}
}

const mediaColumns = `id, specialist_id, file_url, storage_key, file_size, display_order,
        mime_type, media_type, created_at, deleted_at`

func (r *mediaRepository) CreateMany(ctx context.Context, media []domain.Media) error {
	if len(media) == 0 {
		return nil
	}
	const query = `
        INSERT INTO media (specialist_id, file_url, storage_key, file_size, display_order, mime_type, media_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batchTx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer batchTx.Rollback(ctx) //nolint:errcheck

	for _, m := range media {
		if _, err := batchTx.Exec(ctx, query,
			m.SpecialistID,
			m.FileURL,
			m.StorageKey,
			m.FileSize,
			m.DisplayOrder,
			m.MimeType,
			m.MediaType,
		); err != nil {
			return err
		}
	}
	return batchTx.Commit(ctx)
}

// ListBySpecialist returns active media ordered for display.
func (r *mediaRepository) ListBySpecialist(ctx context.Context, specialistID string) ([]domain.Media, error) {
	const query = `
        SELECT ` + mediaColumns + `
        FROM media
        WHERE specialist_id=$1 AND deleted_at IS NULL
        ORDER BY display_order ASC`

	rows, err := r.pool.Query(ctx, query, specialistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []domain.Media
	for rows.Next() {
		var m domain.Media
		if err := rows.Scan(
			&m.ID,
			&m.SpecialistID,
			&m.FileURL,
			&m.StorageKey,
			&m.FileSize,
			&m.DisplayOrder,
			&m.MimeType,
			&m.MediaType,
			&m.CreatedAt,
			&m.DeletedAt,
		); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// GetActiveByIDs returns the non-deleted media rows matching both the
// specialist and the id set.
func (r *mediaRepository) GetActiveByIDs(ctx context.Context, specialistID string, ids []string) ([]domain.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
        SELECT ` + mediaColumns + `
        FROM media
        WHERE specialist_id=$1 AND id = ANY($2) AND deleted_at IS NULL`

	rows, err := r.pool.Query(ctx, query, specialistID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []domain.Media
	for rows.Next() {
		var m domain.Media
		if err := rows.Scan(
			&m.ID,
			&m.SpecialistID,
			&m.FileURL,
			&m.StorageKey,
			&m.FileSize,
			&m.DisplayOrder,
			&m.MimeType,
			&m.MediaType,
			&m.CreatedAt,
			&m.DeletedAt,
		); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func (r *mediaRepository) SoftDeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE media SET deleted_at=NOW() WHERE id = ANY($1) AND deleted_at IS NULL`, ids)
	return err
}
