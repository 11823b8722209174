package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

func setupReviewService() (*ReviewService, *mockReviewRepository, *mockRestaurantRepository) {
	reviews := new(mockReviewRepository)
	restaurants := new(mockRestaurantRepository)
	svc := NewReviewService(reviews, restaurants, nil, newTestLogger())
	return svc, reviews, restaurants
}

func TestUpsertReview_FirstReviewChecksQuota(t *testing.T) {
	svc, reviews, restaurants := setupReviewService()
	ctx := context.Background()

	// Pin the clock so the quota window boundary is deterministic.
	svc.nowFunc = func() time.Time {
		return time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
	}
	windowStart := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	restaurants.On("GetByID", ctx, int64(1)).Return(activeRestaurant(1), nil)
	reviews.On("GetByDevice", ctx, int64(1), "device_a").Return(nil, apperrors.NotFound("review", "device_a"))
	reviews.On("CountCreatedSince", ctx, "device_a", windowStart).Return(2, nil)
	reviews.On("Upsert", ctx, mock.MatchedBy(func(r *domain.Review) bool {
		return r.RestaurantID == 1 && r.DeviceID == "device_a" && r.Comment == "Great nihari"
	})).Return(true, nil)

	review, err := svc.UpsertReview(ctx, &UpsertReviewInput{
		RestaurantID: 1,
		DeviceID:     "device_a",
		Comment:      "Great nihari",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultReviewerName, review.ReviewerName)
	reviews.AssertExpectations(t)
}

func TestUpsertReview_QuotaExhaustedRejectsNewReview(t *testing.T) {
	svc, reviews, restaurants := setupReviewService()
	ctx := context.Background()

	restaurants.On("GetByID", ctx, int64(1)).Return(activeRestaurant(1), nil)
	reviews.On("GetByDevice", ctx, int64(1), "device_a").Return(nil, apperrors.NotFound("review", "device_a"))
	reviews.On("CountCreatedSince", ctx, "device_a", mock.Anything).Return(domain.DailyReviewQuota, nil)

	_, err := svc.UpsertReview(ctx, &UpsertReviewInput{
		RestaurantID: 1,
		DeviceID:     "device_a",
		Comment:      "one too many",
	})
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	reviews.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpsertReview_OverwriteBypassesQuota(t *testing.T) {
	svc, reviews, restaurants := setupReviewService()
	ctx := context.Background()

	restaurants.On("GetByID", ctx, int64(1)).Return(activeRestaurant(1), nil)
	reviews.On("GetByDevice", ctx, int64(1), "device_a").Return(&domain.Review{
		ID:           "rev_1",
		RestaurantID: 1,
		DeviceID:     "device_a",
	}, nil)
	reviews.On("Upsert", ctx, mock.Anything).Return(false, nil)

	review, err := svc.UpsertReview(ctx, &UpsertReviewInput{
		RestaurantID: 1,
		DeviceID:     "device_a",
		Comment:      "edited my earlier take",
	})
	require.NoError(t, err)
	assert.Equal(t, "edited my earlier take", review.Comment)
	reviews.AssertNotCalled(t, "CountCreatedSince", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertReview_RequiresContent(t *testing.T) {
	svc, _, _ := setupReviewService()

	_, err := svc.UpsertReview(context.Background(), &UpsertReviewInput{
		RestaurantID: 1,
		DeviceID:     "device_a",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpsertReview_ImagesAloneAreEnough(t *testing.T) {
	svc, reviews, restaurants := setupReviewService()
	ctx := context.Background()

	restaurants.On("GetByID", ctx, int64(1)).Return(activeRestaurant(1), nil)
	reviews.On("GetByDevice", ctx, int64(1), "device_a").Return(nil, apperrors.NotFound("review", "device_a"))
	reviews.On("CountCreatedSince", ctx, "device_a", mock.Anything).Return(0, nil)
	reviews.On("Upsert", ctx, mock.Anything).Return(true, nil)

	review, err := svc.UpsertReview(ctx, &UpsertReviewInput{
		RestaurantID: 1,
		DeviceID:     "device_a",
		Images:       []string{"https://cdn.example.com/biryani.jpg"},
	})
	require.NoError(t, err)
	assert.Empty(t, review.Comment)
	assert.Len(t, review.Images, 1)
}

func TestUpsertReview_CommentTooLong(t *testing.T) {
	svc, _, _ := setupReviewService()

	_, err := svc.UpsertReview(context.Background(), &UpsertReviewInput{
		RestaurantID: 1,
		DeviceID:     "device_a",
		Comment:      strings.Repeat("a", domain.MaxCommentLength+1),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpsertReview_TooManyImages(t *testing.T) {
	svc, _, _ := setupReviewService()

	images := make([]string, domain.MaxReviewImages+1)
	for i := range images {
		images[i] = "https://cdn.example.com/img.jpg"
	}

	_, err := svc.UpsertReview(context.Background(), &UpsertReviewInput{
		RestaurantID: 1,
		DeviceID:     "device_a",
		Images:       images,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateReview_MissingReviewIsNotFound(t *testing.T) {
	svc, reviews, _ := setupReviewService()
	ctx := context.Background()

	reviews.On("GetByDevice", ctx, int64(1), "device_a").Return(nil, apperrors.NotFound("review", "device_a"))

	_, err := svc.UpdateReview(ctx, &UpsertReviewInput{
		RestaurantID: 1,
		DeviceID:     "device_a",
		Comment:      "never wrote one",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	reviews.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestListReviews_IncludesOwnReview(t *testing.T) {
	svc, reviews, _ := setupReviewService()
	ctx := context.Background()

	all := []domain.Review{
		{ID: "rev_1", RestaurantID: 1, Comment: "solid"},
		{ID: "rev_2", RestaurantID: 1, Comment: "overrated"},
	}
	reviews.On("ListByRestaurant", ctx, int64(1)).Return(all, nil)
	reviews.On("GetByDevice", ctx, int64(1), "device_a").Return(&all[0], nil)

	result, err := svc.ListReviews(ctx, 1, "device_a")
	require.NoError(t, err)
	assert.Len(t, result.Reviews, 2)
	require.NotNil(t, result.OwnReview)
	assert.Equal(t, "rev_1", result.OwnReview.ID)
}

func TestListReviews_AnonymousCallerSkipsOwnLookup(t *testing.T) {
	svc, reviews, _ := setupReviewService()
	ctx := context.Background()

	reviews.On("ListByRestaurant", ctx, int64(1)).Return([]domain.Review{}, nil)

	result, err := svc.ListReviews(ctx, 1, "")
	require.NoError(t, err)
	assert.Nil(t, result.OwnReview)
	reviews.AssertNotCalled(t, "GetByDevice", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecentReviews_ClampsLimit(t *testing.T) {
	svc, reviews, _ := setupReviewService()
	ctx := context.Background()

	reviews.On("ListRecent", ctx, 50).Return([]domain.Review{}, nil).Once()
	reviews.On("ListRecent", ctx, 10).Return([]domain.Review{}, nil).Once()

	_, err := svc.RecentReviews(ctx, 500)
	require.NoError(t, err)

	_, err = svc.RecentReviews(ctx, 0)
	require.NoError(t, err)
	reviews.AssertExpectations(t)
}

func TestDeleteReview_Success(t *testing.T) {
	svc, reviews, _ := setupReviewService()
	ctx := context.Background()

	reviews.On("GetByDevice", ctx, int64(1), "device_a").Return(&domain.Review{ID: "rev_1", RestaurantID: 1}, nil)
	reviews.On("Delete", ctx, int64(1), "device_a").Return(nil)

	err := svc.DeleteReview(ctx, 1, "device_a")
	require.NoError(t, err)
	reviews.AssertExpectations(t)
}

func TestDeleteReview_NothingToDelete(t *testing.T) {
	svc, reviews, _ := setupReviewService()
	ctx := context.Background()

	reviews.On("GetByDevice", ctx, int64(1), "device_a").Return(nil, apperrors.NotFound("review", "device_a"))

	err := svc.DeleteReview(ctx, 1, "device_a")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
