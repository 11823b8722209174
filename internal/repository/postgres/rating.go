package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/pkg/database"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// RatingRepository implements repository.RatingRepository using PostgreSQL.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Upsert inserts or overwrites the rating for (restaurant, device) in one
// atomic statement. The UNIQUE constraint on (restaurant_id, device_id) makes
// concurrent submissions converge on a single row without a read-then-write
// race.
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, restaurant_id, device_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (restaurant_id, device_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		rating.ID,
		rating.RestaurantID,
		rating.DeviceID,
		rating.Rating,
		rating.CreatedAt,
		rating.UpdatedAt,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}

	return nil
}

// GetByDevice returns the caller's rating for a restaurant.
func (r *RatingRepository) GetByDevice(ctx context.Context, restaurantID int64, deviceID string) (*domain.Rating, error) {
	query := `
		SELECT id, restaurant_id, device_id, rating, created_at, updated_at
		FROM ratings
		WHERE restaurant_id = $1 AND device_id = $2`

	var rt domain.Rating

	err := r.pool.QueryRow(ctx, query, restaurantID, deviceID).Scan(
		&rt.ID,
		&rt.RestaurantID,
		&rt.DeviceID,
		&rt.Rating,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}

	return &rt, nil
}

// Summary computes the aggregate rating statistics for a restaurant from the
// stored rows. The average is rounded to one decimal place.
func (r *RatingRepository) Summary(ctx context.Context, restaurantID int64) (*domain.RatingSummary, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM ratings
		WHERE restaurant_id = $1`

	var summary domain.RatingSummary

	err := r.pool.QueryRow(ctx, query, restaurantID).Scan(
		&summary.Average,
		&summary.Count,
	)
	if err != nil {
		return nil, fmt.Errorf("get rating summary: %w", err)
	}

	summary.Average = math.Round(summary.Average*10) / 10

	return &summary, nil
}
