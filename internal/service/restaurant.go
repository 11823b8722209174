package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/repository"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// TopRatedMinAverage is the average rating a restaurant must reach to appear
// in the top-rated listing.
const TopRatedMinAverage = 4.0

// CreateRestaurantInput holds the parameters for registering a restaurant.
type CreateRestaurantInput struct {
	Name        string
	Description string
	Address     string
	Phone       string
	ImageURL    string
}

// UpdateRestaurantInput holds the parameters for updating a restaurant.
type UpdateRestaurantInput struct {
	Name        string
	Description string
	Address     string
	Phone       string
	ImageURL    string
	IsActive    bool
}

// RestaurantService implements restaurant listing and administration.
type RestaurantService struct {
	restaurants repository.RestaurantRepository
	ratings     repository.RatingRepository
	cache       repository.StatsCache
	logger      *slog.Logger
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(
	restaurants repository.RestaurantRepository,
	ratings repository.RatingRepository,
	cache repository.StatsCache,
	logger *slog.Logger,
) *RestaurantService {
	return &RestaurantService{
		restaurants: restaurants,
		ratings:     ratings,
		cache:       cache,
		logger:      logger,
	}
}

// GetRestaurant returns a single restaurant with its rating summary.
func (s *RestaurantService) GetRestaurant(ctx context.Context, id int64) (*domain.RestaurantWithStats, error) {
	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.summaryFor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.RestaurantWithStats{Restaurant: *restaurant, Stats: *summary}, nil
}

// ListRestaurants returns all active restaurants. When withStats is set each
// entry carries its rating summary.
func (s *RestaurantService) ListRestaurants(ctx context.Context, withStats bool) ([]domain.RestaurantWithStats, error) {
	restaurants, err := s.restaurants.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	result := make([]domain.RestaurantWithStats, 0, len(restaurants))
	for _, r := range restaurants {
		entry := domain.RestaurantWithStats{Restaurant: r}
		if withStats {
			summary, err := s.summaryFor(ctx, r.ID)
			if err != nil {
				return nil, err
			}
			entry.Stats = *summary
		}
		result = append(result, entry)
	}

	return result, nil
}

// TopRated returns active restaurants whose average rating meets the
// threshold, best first.
func (s *RestaurantService) TopRated(ctx context.Context, limit int) ([]domain.RestaurantWithStats, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	restaurants, err := s.restaurants.TopRated(ctx, TopRatedMinAverage, limit)
	if err != nil {
		return nil, fmt.Errorf("list top rated restaurants: %w", err)
	}

	return restaurants, nil
}

// CreateRestaurant registers a new restaurant.
func (s *RestaurantService) CreateRestaurant(ctx context.Context, input *CreateRestaurantInput) (*domain.Restaurant, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	now := time.Now().UTC()
	restaurant := &domain.Restaurant{
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		Phone:       input.Phone,
		ImageURL:    input.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	s.logger.InfoContext(ctx, "restaurant created",
		slog.Int64("restaurant_id", restaurant.ID),
		slog.String("name", restaurant.Name),
	)

	return restaurant, nil
}

// UpdateRestaurant modifies an existing restaurant.
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, id int64, input *UpdateRestaurantInput) (*domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	restaurant.Name = input.Name
	restaurant.Description = input.Description
	restaurant.Address = input.Address
	restaurant.Phone = input.Phone
	restaurant.ImageURL = input.ImageURL
	restaurant.IsActive = input.IsActive

	if err := s.restaurants.Update(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}

	s.logger.InfoContext(ctx, "restaurant updated",
		slog.Int64("restaurant_id", id),
	)

	return restaurant, nil
}

// DeactivateRestaurant hides a restaurant from listings without deleting its
// ratings or reviews.
func (s *RestaurantService) DeactivateRestaurant(ctx context.Context, id int64) error {
	if err := s.restaurants.Deactivate(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "restaurant deactivated",
		slog.Int64("restaurant_id", id),
	)

	return nil
}

// summaryFor reads a restaurant's rating summary through the cache.
func (s *RestaurantService) summaryFor(ctx context.Context, restaurantID int64) (*domain.RatingSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, restaurantID)
		if err != nil {
			s.logger.WarnContext(ctx, "stats cache read failed",
				slog.Int64("restaurant_id", restaurantID),
				slog.String("error", err.Error()),
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	summary, err := s.ratings.Summary(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load rating summary: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, restaurantID, summary); err != nil {
			s.logger.WarnContext(ctx, "stats cache write failed",
				slog.Int64("restaurant_id", restaurantID),
				slog.String("error", err.Error()),
			)
		}
	}

	return summary, nil
}
