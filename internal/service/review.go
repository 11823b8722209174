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

// UpsertReviewInput holds the parameters for creating or overwriting a review.
type UpsertReviewInput struct {
	RestaurantID int64
	DeviceID     string
	ReviewerName string
	Comment      string
	Images       []string
}

// ReviewListResult contains a restaurant's reviews plus the caller's own.
type ReviewListResult struct {
	Reviews   []domain.Review `json:"reviews"`
	OwnReview *domain.Review  `json:"own_review"`
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	reviews     repository.ReviewRepository
	restaurants repository.RestaurantRepository
	producer    *event.Producer
	logger      *slog.Logger

	// nowFunc is injectable so quota-window tests can pin the clock.
	nowFunc func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	restaurants repository.RestaurantRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:     reviews,
		restaurants: restaurants,
		producer:    producer,
		logger:      logger,
		nowFunc:     time.Now,
	}
}

// validateReviewInput applies the content rules shared by create and update.
func validateReviewInput(input *UpsertReviewInput) error {
	if input.DeviceID == "" {
		return apperrors.InvalidInput("device identity is required")
	}
	if input.Comment == "" && len(input.Images) == 0 {
		return apperrors.InvalidInput("a review needs a comment or at least one image")
	}
	if len(input.Comment) > domain.MaxCommentLength {
		return apperrors.InvalidInput(fmt.Sprintf("comment exceeds %d characters", domain.MaxCommentLength))
	}
	if len(input.Images) > domain.MaxReviewImages {
		return apperrors.InvalidInput(fmt.Sprintf("at most %d images are allowed", domain.MaxReviewImages))
	}
	return nil
}

// UpsertReview creates or overwrites the caller's review for a restaurant.
// At most one review per (restaurant, identity) exists; resubmission
// overwrites in place. The daily quota applies only to reviews that would be
// new rows: an identity that has authored domain.DailyReviewQuota fresh
// reviews since midnight UTC is rejected, but may still overwrite a review
// it already holds.
func (s *ReviewService) UpsertReview(ctx context.Context, input *UpsertReviewInput) (*domain.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	if _, err := s.restaurants.GetByID(ctx, input.RestaurantID); err != nil {
		return nil, err
	}

	// Quota check, skipped when the submission overwrites an existing row.
	// The count is authoritative server state, not a client hint; racing
	// first-time submissions may briefly exceed the quota by one, which is
	// acceptable for an abuse brake.
	existing, err := s.reviews.GetByDevice(ctx, input.RestaurantID, input.DeviceID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing == nil {
		count, err := s.reviews.CountCreatedSince(ctx, input.DeviceID, s.todayStartUTC())
		if err != nil {
			return nil, fmt.Errorf("count daily reviews: %w", err)
		}
		if count >= domain.DailyReviewQuota {
			return nil, apperrors.QuotaExceeded(fmt.Sprintf("daily limit of %d new reviews reached", domain.DailyReviewQuota))
		}
	}

	name := input.ReviewerName
	if name == "" {
		name = domain.DefaultReviewerName
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := s.nowFunc().UTC()
	review := &domain.Review{
		ID:           uuid.New().String(),
		RestaurantID: input.RestaurantID,
		DeviceID:     input.DeviceID,
		ReviewerName: name,
		Comment:      input.Comment,
		Images:       images,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	inserted, err := s.reviews.Upsert(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("upsert review: %w", err)
	}

	// Publish event; errors are logged but do not fail the operation.
	if s.producer != nil {
		if err := s.producer.PublishReviewUpserted(ctx, review, inserted); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.upserted event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "review upserted",
		slog.String("review_id", review.ID),
		slog.Int64("restaurant_id", review.RestaurantID),
		slog.Bool("inserted", inserted),
	)

	return review, nil
}

// UpdateReview overwrites the caller's existing review. Unlike UpsertReview it
// requires a row to exist: updating a review you never wrote is a 404.
func (s *ReviewService) UpdateReview(ctx context.Context, input *UpsertReviewInput) (*domain.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	if _, err := s.reviews.GetByDevice(ctx, input.RestaurantID, input.DeviceID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("review", fmt.Sprintf("restaurant %d", input.RestaurantID))
		}
		return nil, fmt.Errorf("get existing review: %w", err)
	}

	// The upsert path overwrites the existing row; quota does not apply
	// because the row already exists.
	return s.UpsertReview(ctx, input)
}

// ListReviews returns all reviews for a restaurant, newest first, plus the
// caller's own review when present.
func (s *ReviewService) ListReviews(ctx context.Context, restaurantID int64, deviceID string) (*ReviewListResult, error) {
	reviews, err := s.reviews.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	result := &ReviewListResult{Reviews: reviews}

	if deviceID != "" {
		own, err := s.reviews.GetByDevice(ctx, restaurantID, deviceID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("get own review: %w", err)
		}
		result.OwnReview = own
	}

	return result, nil
}

// RecentReviews returns the most recent reviews across all restaurants.
func (s *ReviewService) RecentReviews(ctx context.Context, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	reviews, err := s.reviews.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent reviews: %w", err)
	}

	return reviews, nil
}

// DeleteReview removes the caller's review for a restaurant. Ownership is
// structural: the delete is keyed on (restaurant, identity), so a caller can
// only ever remove their own row.
func (s *ReviewService) DeleteReview(ctx context.Context, restaurantID int64, deviceID string) error {
	if deviceID == "" {
		return apperrors.InvalidInput("device identity is required")
	}

	existing, err := s.reviews.GetByDevice(ctx, restaurantID, deviceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("review", fmt.Sprintf("restaurant %d", restaurantID))
		}
		return fmt.Errorf("get review: %w", err)
	}

	if err := s.reviews.Delete(ctx, restaurantID, deviceID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishReviewDeleted(ctx, existing.ID, restaurantID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
				slog.String("review_id", existing.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", existing.ID),
		slog.Int64("restaurant_id", restaurantID),
	)

	return nil
}

// todayStartUTC returns midnight UTC of the current day, the quota window start.
func (s *ReviewService) todayStartUTC() time.Time {
	now := s.nowFunc().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
