package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/event"
	"github.com/Aneezakiran07/foodmaps/internal/repository"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// SubmitRatingInput holds the parameters for submitting a rating.
type SubmitRatingInput struct {
	RestaurantID int64
	DeviceID     string
	Rating       float64
}

// RatingView is what rating reads return: the aggregate plus the caller's own
// rating (nil when they have not rated).
type RatingView struct {
	Summary    domain.RatingSummary `json:"summary"`
	UserRating *float64             `json:"user_rating"`
}

// RatingService implements the business logic for rating operations.
type RatingService struct {
	ratings     repository.RatingRepository
	restaurants repository.RestaurantRepository
	cache       repository.StatsCache
	producer    *event.Producer
	logger      *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(
	ratings repository.RatingRepository,
	restaurants repository.RestaurantRepository,
	cache repository.StatsCache,
	producer *event.Producer,
	logger *slog.Logger,
) *RatingService {
	return &RatingService{
		ratings:     ratings,
		restaurants: restaurants,
		cache:       cache,
		producer:    producer,
		logger:      logger,
	}
}

// SubmitRating records or overwrites the caller's rating for a restaurant and
// returns the fresh aggregate. Out-of-range values are rejected, never
// clamped; in-range values are rounded to the nearest half step. Submitting
// again with the same identity converges on a single stored rating, so the
// operation is safe to retry.
func (s *RatingService) SubmitRating(ctx context.Context, input *SubmitRatingInput) (*RatingView, error) {
	if input.DeviceID == "" {
		return nil, apperrors.InvalidInput("device identity is required")
	}
	if !domain.ValidRating(input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %v and %v", domain.MinRating, domain.MaxRating))
	}

	if _, err := s.restaurants.GetByID(ctx, input.RestaurantID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rating := &domain.Rating{
		ID:           uuid.New().String(),
		RestaurantID: input.RestaurantID,
		DeviceID:     input.DeviceID,
		Rating:       domain.RoundHalfStep(input.Rating),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, fmt.Errorf("submit rating: %w", err)
	}

	// The cached snapshot is stale the moment the upsert lands.
	if err := s.cache.Invalidate(ctx, input.RestaurantID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate stats cache",
			slog.Int64("restaurant_id", input.RestaurantID),
			slog.String("error", err.Error()),
		)
	}

	summary, err := s.ratings.Summary(ctx, input.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("get rating summary: %w", err)
	}

	if err := s.cache.Set(ctx, input.RestaurantID, summary); err != nil {
		s.logger.WarnContext(ctx, "failed to cache stats",
			slog.Int64("restaurant_id", input.RestaurantID),
			slog.String("error", err.Error()),
		)
	}

	// Publish event; errors are logged but do not fail the operation.
	if s.producer != nil {
		if err := s.producer.PublishRatingSubmitted(ctx, rating, summary); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish rating.submitted event",
				slog.String("rating_id", rating.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "rating submitted",
		slog.Int64("restaurant_id", input.RestaurantID),
		slog.Float64("rating", rating.Rating),
		slog.Float64("average", summary.Average),
		slog.Int("count", summary.Count),
	)

	return &RatingView{
		Summary:    *summary,
		UserRating: &rating.Rating,
	}, nil
}

// GetRatings returns the aggregate summary for a restaurant (cache first,
// SQL on miss) and the caller's own rating when present.
func (s *RatingService) GetRatings(ctx context.Context, restaurantID int64, deviceID string) (*RatingView, error) {
	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		return nil, err
	}

	summary, err := s.getSummary(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	view := &RatingView{Summary: *summary}

	if deviceID != "" {
		own, err := s.ratings.GetByDevice(ctx, restaurantID, deviceID)
		switch {
		case err == nil:
			view.UserRating = &own.Rating
		case errors.Is(err, apperrors.ErrNotFound):
			// No rating from this caller; user_rating stays null.
		default:
			return nil, fmt.Errorf("get own rating: %w", err)
		}
	}

	return view, nil
}

// getSummary reads the snapshot through the cache.
func (s *RatingService) getSummary(ctx context.Context, restaurantID int64) (*domain.RatingSummary, error) {
	cached, err := s.cache.Get(ctx, restaurantID)
	if err != nil {
		s.logger.WarnContext(ctx, "stats cache read failed",
			slog.Int64("restaurant_id", restaurantID),
			slog.String("error", err.Error()),
		)
	} else if cached != nil {
		return cached, nil
	}

	summary, err := s.ratings.Summary(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get rating summary: %w", err)
	}

	if err := s.cache.Set(ctx, restaurantID, summary); err != nil {
		s.logger.WarnContext(ctx, "failed to cache stats",
			slog.Int64("restaurant_id", restaurantID),
			slog.String("error", err.Error()),
		)
	}

	return summary, nil
}
