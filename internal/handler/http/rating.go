package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Aneezakiran07/foodmaps/internal/identity"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	"github.com/Aneezakiran07/foodmaps/pkg/httputil"
	"github.com/Aneezakiran07/foodmaps/pkg/validator"
)

// RatingHandler handles HTTP requests for rating endpoints.
type RatingHandler struct {
	service *service.RatingService
	logger  *slog.Logger
}

// NewRatingHandler creates a new rating HTTP handler.
func NewRatingHandler(svc *service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitRatingRequest is the JSON request body for submitting a rating.
type SubmitRatingRequest struct {
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

// GetRatings handles GET /api/v1/restaurants/{id}/ratings
// @Summary Get rating summary for a restaurant
// @Description Returns the average rating, rating count, and the caller's own rating if any
// @Tags ratings
// @Produce json
// @Param id path int true "Restaurant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/restaurants/{id}/ratings [get]
func (h *RatingHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetRatings(r.Context(), restaurantID, identity.FromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// SubmitRating handles POST /api/v1/restaurants/{id}/ratings
// Submitting again replaces the caller's previous rating for the restaurant.
// @Summary Submit or update a rating
// @Description Upserts the caller's rating and returns the recomputed summary
// @Tags ratings
// @Accept json
// @Produce json
// @Param id path int true "Restaurant ID"
// @Param request body SubmitRatingRequest true "Rating to submit"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/restaurants/{id}/ratings [post]
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	view, err := h.service.SubmitRating(r.Context(), &service.SubmitRatingInput{
		RestaurantID: restaurantID,
		DeviceID:     identity.FromContext(r.Context()),
		Rating:       req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}
