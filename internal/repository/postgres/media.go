package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/pkg/database"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// MediaRepository implements repository.MediaRepository using PostgreSQL.
type MediaRepository struct {
	pool database.DBTX
}

// NewMediaRepository creates a new PostgreSQL-backed media repository.
func NewMediaRepository(pool database.DBTX) *MediaRepository {
	return &MediaRepository{pool: pool}
}

// Create inserts a new media file record into the upload ledger.
func (r *MediaRepository) Create(ctx context.Context, m *domain.MediaFile) error {
	query := `
		INSERT INTO media_files (id, owner_id, owner_type, file_name, original_name, content_type, size, url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.OwnerID,
		m.OwnerType,
		m.FileName,
		m.OriginalName,
		m.ContentType,
		m.Size,
		m.URL,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert media file: %w", err)
	}

	return nil
}

// GetByID retrieves a media file by its ID.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*domain.MediaFile, error) {
	query := `
		SELECT id, owner_id, owner_type, file_name, original_name, content_type, size, url, created_at, updated_at
		FROM media_files
		WHERE id = $1`

	var m domain.MediaFile

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.OwnerID,
		&m.OwnerType,
		&m.FileName,
		&m.OriginalName,
		&m.ContentType,
		&m.Size,
		&m.URL,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("media_file", id)
		}
		return nil, fmt.Errorf("get media file: %w", err)
	}

	return &m, nil
}

// Delete removes a media file record from the ledger by its ID.
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM media_files WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete media file: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("media_file", id)
	}

	return nil
}
