package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/identity"
	"github.com/Aneezakiran07/foodmaps/internal/repository"
	"github.com/Aneezakiran07/foodmaps/pkg/httputil"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockRestaurantRepository struct {
	mock.Mock
}

func (m *mockRestaurantRepository) Create(ctx context.Context, r *domain.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockRestaurantRepository) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Restaurant), args.Error(1)
}

func (m *mockRestaurantRepository) ListActive(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

func (m *mockRestaurantRepository) TopRated(ctx context.Context, minAverage float64, limit int) ([]domain.RestaurantWithStats, error) {
	args := m.Called(ctx, minAverage, limit)
	return args.Get(0).([]domain.RestaurantWithStats), args.Error(1)
}

func (m *mockRestaurantRepository) Update(ctx context.Context, r *domain.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockRestaurantRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockRatingRepository struct {
	mock.Mock
}

func (m *mockRatingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *mockRatingRepository) GetByDevice(ctx context.Context, restaurantID int64, deviceID string) (*domain.Rating, error) {
	args := m.Called(ctx, restaurantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rating), args.Error(1)
}

func (m *mockRatingRepository) Summary(ctx context.Context, restaurantID int64) (*domain.RatingSummary, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Upsert(ctx context.Context, review *domain.Review) (bool, error) {
	args := m.Called(ctx, review)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepository) GetByDevice(ctx context.Context, restaurantID int64, deviceID string) (*domain.Review, error) {
	args := m.Called(ctx, restaurantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.Review, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListRecent(ctx context.Context, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) CountCreatedSince(ctx context.Context, deviceID string, since time.Time) (int, error) {
	args := m.Called(ctx, deviceID, since)
	return args.Int(0), args.Error(1)
}

func (m *mockReviewRepository) Delete(ctx context.Context, restaurantID int64, deviceID string) error {
	args := m.Called(ctx, restaurantID, deviceID)
	return args.Error(0)
}

type mockSuggestionRepository struct {
	mock.Mock
}

func (m *mockSuggestionRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSuggestionRepository) GetByID(ctx context.Context, id string) (*domain.Suggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Suggestion), args.Error(1)
}

func (m *mockSuggestionRepository) List(ctx context.Context, f repository.SuggestionFilter) ([]domain.Suggestion, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Suggestion), args.Int(1), args.Error(2)
}

func (m *mockSuggestionRepository) ListByUser(ctx context.Context, userIdentifier string) ([]domain.Suggestion, error) {
	args := m.Called(ctx, userIdentifier)
	return args.Get(0).([]domain.Suggestion), args.Error(1)
}

func (m *mockSuggestionRepository) Update(ctx context.Context, s *domain.Suggestion) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSuggestionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSuggestionRepository) ToggleReaction(ctx context.Context, suggestionID, userIdentifier string, action domain.ReactionType) (*domain.ReactionResult, error) {
	args := m.Called(ctx, suggestionID, userIdentifier, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReactionResult), args.Error(1)
}

func (m *mockSuggestionRepository) GetReactions(ctx context.Context, suggestionIDs []string, userIdentifier string) (map[string]domain.ReactionType, error) {
	args := m.Called(ctx, suggestionIDs, userIdentifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ReactionType), args.Error(1)
}

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, p *domain.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context, f repository.PostFilter) ([]domain.Post, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *mockPostRepository) CountByType(ctx context.Context) (*domain.PostTypeCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostTypeCounts), args.Error(1)
}

func (m *mockPostRepository) Update(ctx context.Context, p *domain.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStatsCache struct {
	mock.Mock
}

func (m *mockStatsCache) Get(ctx context.Context, restaurantID int64) (*domain.RatingSummary, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *mockStatsCache) Set(ctx context.Context, restaurantID int64, summary *domain.RatingSummary) error {
	args := m.Called(ctx, restaurantID, summary)
	return args.Error(0)
}

func (m *mockStatsCache) Invalidate(ctx context.Context, restaurantID int64) error {
	args := m.Called(ctx, restaurantID)
	return args.Error(0)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// withIdentity wraps routes with the same identity middleware production
// mounts, so X-Device-ID headers flow into the request context.
func withIdentity(register func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identity.Middleware(identity.NewDeviceProvider(false)))
		register(r)
	})
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}
