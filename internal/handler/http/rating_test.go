package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

func setupRatingRouter() (*chi.Mux, *mockRatingRepository, *mockRestaurantRepository, *mockStatsCache) {
	ratings := new(mockRatingRepository)
	restaurants := new(mockRestaurantRepository)
	cache := new(mockStatsCache)
	svc := service.NewRatingService(ratings, restaurants, cache, nil, testLogger())
	handler := NewRatingHandler(svc, testLogger())

	router := withIdentity(func(r chi.Router) {
		r.Get("/restaurants/{id}/ratings", handler.GetRatings)
		r.Post("/restaurants/{id}/ratings", handler.SubmitRating)
	})
	return router, ratings, restaurants, cache
}

func TestGetRatings_Success(t *testing.T) {
	router, ratings, restaurants, cache := setupRatingRouter()

	restaurants.On("GetByID", mock.Anything, int64(1)).Return(&domain.Restaurant{ID: 1, IsActive: true}, nil)
	cache.On("Get", mock.Anything, int64(1)).Return(&domain.RatingSummary{Average: 4.5, Count: 8}, nil)
	ratings.On("GetByDevice", mock.Anything, int64(1), "device_a").Return(&domain.Rating{Rating: 4.0}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/1/ratings", nil)
	req.Header.Set("X-Device-ID", "device_a")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data := resp.Data.(map[string]any)
	summary := data["summary"].(map[string]any)
	assert.Equal(t, 4.5, summary["average"])
	assert.Equal(t, 4.0, data["user_rating"])
}

func TestGetRatings_InvalidIDParam(t *testing.T) {
	router, _, _, _ := setupRatingRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/abc/ratings", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestSubmitRating_Success(t *testing.T) {
	router, ratings, restaurants, cache := setupRatingRouter()

	restaurants.On("GetByID", mock.Anything, int64(1)).Return(&domain.Restaurant{ID: 1, IsActive: true}, nil)
	ratings.On("Upsert", mock.Anything, mock.MatchedBy(func(rt *domain.Rating) bool {
		return rt.DeviceID == "device_a" && rt.Rating == 4.5
	})).Return(nil)
	cache.On("Invalidate", mock.Anything, int64(1)).Return(nil)
	ratings.On("Summary", mock.Anything, int64(1)).Return(&domain.RatingSummary{Average: 4.5, Count: 1}, nil)
	cache.On("Set", mock.Anything, int64(1), mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/1/ratings", strings.NewReader(`{"rating": 4.5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", "device_a")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	ratings.AssertExpectations(t)
}

func TestSubmitRating_OutOfRangeRejected(t *testing.T) {
	router, ratings, _, _ := setupRatingRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/1/ratings", strings.NewReader(`{"rating": 6}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", "device_a")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	ratings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSubmitRating_InvalidJSON(t *testing.T) {
	router, _, _, _ := setupRatingRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/1/ratings", bytes.NewReader([]byte(`{broken`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRating_UnknownRestaurant(t *testing.T) {
	router, _, restaurants, _ := setupRatingRouter()

	restaurants.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.NotFound("restaurant", "99"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/99/ratings", strings.NewReader(`{"rating": 3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", "device_a")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
