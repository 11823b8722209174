package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/pkg/database"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Upsert inserts or overwrites the review for (restaurant, device) in one
// atomic statement. The inserted flag distinguishes a fresh review from an
// overwrite, which is what the daily quota counts.
func (r *ReviewRepository) Upsert(ctx context.Context, review *domain.Review) (bool, error) {
	query := `
		INSERT INTO reviews (id, restaurant_id, device_id, reviewer_name, comment, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (restaurant_id, device_id)
		DO UPDATE SET reviewer_name = EXCLUDED.reviewer_name,
		              comment = EXCLUDED.comment,
		              images = EXCLUDED.images,
		              updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted`

	var inserted bool

	err := r.pool.QueryRow(ctx, query,
		review.ID,
		review.RestaurantID,
		review.DeviceID,
		review.ReviewerName,
		review.Comment,
		review.Images,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID, &review.CreatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert review: %w", err)
	}

	return inserted, nil
}

// GetByDevice returns the caller's review for a restaurant.
func (r *ReviewRepository) GetByDevice(ctx context.Context, restaurantID int64, deviceID string) (*domain.Review, error) {
	query := `
		SELECT id, restaurant_id, device_id, reviewer_name, comment, images, created_at, updated_at
		FROM reviews
		WHERE restaurant_id = $1 AND device_id = $2`

	var rv domain.Review

	err := r.pool.QueryRow(ctx, query, restaurantID, deviceID).Scan(
		&rv.ID,
		&rv.RestaurantID,
		&rv.DeviceID,
		&rv.ReviewerName,
		&rv.Comment,
		&rv.Images,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rv, nil
}

// ListByRestaurant returns all reviews for a restaurant, newest first.
func (r *ReviewRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.Review, error) {
	query := `
		SELECT id, restaurant_id, device_id, reviewer_name, comment, images, created_at, updated_at
		FROM reviews
		WHERE restaurant_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// ListRecent returns the most recent reviews across all restaurants.
func (r *ReviewRepository) ListRecent(ctx context.Context, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, restaurant_id, device_id, reviewer_name, comment, images, created_at, updated_at
		FROM reviews
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// CountCreatedSince counts reviews authored by the identity since the given
// instant, across all restaurants.
func (r *ReviewRepository) CountCreatedSince(ctx context.Context, deviceID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reviews
		WHERE device_id = $1 AND created_at >= $2`

	var count int

	if err := r.pool.QueryRow(ctx, query, deviceID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews since: %w", err)
	}

	return count, nil
}

// Delete removes the caller's review for a restaurant.
func (r *ReviewRepository) Delete(ctx context.Context, restaurantID int64, deviceID string) error {
	query := `DELETE FROM reviews WHERE restaurant_id = $1 AND device_id = $2`

	ct, err := r.pool.Exec(ctx, query, restaurantID, deviceID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// collectReviews scans all rows into a slice, never returning nil.
func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	var reviews []domain.Review

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.RestaurantID,
			&rv.DeviceID,
			&rv.ReviewerName,
			&rv.Comment,
			&rv.Images,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}
