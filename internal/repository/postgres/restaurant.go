package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/pkg/database"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// RestaurantRepository implements repository.RestaurantRepository using PostgreSQL.
type RestaurantRepository struct {
	pool database.DBTX
}

// NewRestaurantRepository creates a new PostgreSQL-backed restaurant repository.
func NewRestaurantRepository(pool database.DBTX) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

// Create inserts a new restaurant and fills in the generated ID.
func (r *RestaurantRepository) Create(ctx context.Context, rest *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (name, description, address, phone, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		rest.Name,
		rest.Description,
		rest.Address,
		rest.Phone,
		rest.ImageURL,
		rest.IsActive,
		rest.CreatedAt,
		rest.UpdatedAt,
	).Scan(&rest.ID)
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}

	return nil
}

// GetByID retrieves a restaurant by its ID.
func (r *RestaurantRepository) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	query := `
		SELECT id, name, description, address, phone, image_url, is_active, created_at, updated_at
		FROM restaurants
		WHERE id = $1`

	var rest domain.Restaurant

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rest.ID,
		&rest.Name,
		&rest.Description,
		&rest.Address,
		&rest.Phone,
		&rest.ImageURL,
		&rest.IsActive,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("restaurant", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	return &rest, nil
}

// ListActive returns all active restaurants ordered by name.
func (r *RestaurantRepository) ListActive(ctx context.Context) ([]domain.Restaurant, error) {
	query := `
		SELECT id, name, description, address, phone, image_url, is_active, created_at, updated_at
		FROM restaurants
		WHERE is_active = TRUE
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant

	for rows.Next() {
		var rest domain.Restaurant

		if err := rows.Scan(
			&rest.ID,
			&rest.Name,
			&rest.Description,
			&rest.Address,
			&rest.Phone,
			&rest.ImageURL,
			&rest.IsActive,
			&rest.CreatedAt,
			&rest.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan restaurant row: %w", err)
		}

		restaurants = append(restaurants, rest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurant rows: %w", err)
	}

	if restaurants == nil {
		restaurants = []domain.Restaurant{}
	}

	return restaurants, nil
}

// TopRated returns active restaurants whose average rating meets the
// threshold, ordered by average descending.
func (r *RestaurantRepository) TopRated(ctx context.Context, minAverage float64, limit int) ([]domain.RestaurantWithStats, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT rest.id, rest.name, rest.description, rest.address, rest.phone, rest.image_url, rest.is_active, rest.created_at, rest.updated_at,
		       COALESCE(AVG(rt.rating), 0) AS average, COUNT(rt.id) AS rating_count
		FROM restaurants rest
		JOIN ratings rt ON rt.restaurant_id = rest.id
		WHERE rest.is_active = TRUE
		GROUP BY rest.id
		HAVING AVG(rt.rating) >= $1
		ORDER BY average DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, minAverage, limit)
	if err != nil {
		return nil, fmt.Errorf("list top rated restaurants: %w", err)
	}
	defer rows.Close()

	var results []domain.RestaurantWithStats

	for rows.Next() {
		var rws domain.RestaurantWithStats

		if err := rows.Scan(
			&rws.ID,
			&rws.Name,
			&rws.Description,
			&rws.Address,
			&rws.Phone,
			&rws.ImageURL,
			&rws.IsActive,
			&rws.CreatedAt,
			&rws.UpdatedAt,
			&rws.Stats.Average,
			&rws.Stats.Count,
		); err != nil {
			return nil, fmt.Errorf("scan top rated row: %w", err)
		}

		rws.Stats.Average = math.Round(rws.Stats.Average*10) / 10
		results = append(results, rws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top rated rows: %w", err)
	}

	if results == nil {
		results = []domain.RestaurantWithStats{}
	}

	return results, nil
}

// Update modifies an existing restaurant.
func (r *RestaurantRepository) Update(ctx context.Context, rest *domain.Restaurant) error {
	rest.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE restaurants
		SET name = $1, description = $2, address = $3, phone = $4, image_url = $5, is_active = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.pool.Exec(ctx, query,
		rest.Name,
		rest.Description,
		rest.Address,
		rest.Phone,
		rest.ImageURL,
		rest.IsActive,
		rest.UpdatedAt,
		rest.ID,
	)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("restaurant", fmt.Sprintf("%d", rest.ID))
	}

	return nil
}

// Deactivate marks a restaurant inactive, keeping its ratings and reviews.
func (r *RestaurantRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE restaurants SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate restaurant: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("restaurant", fmt.Sprintf("%d", id))
	}

	return nil
}
