package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/identity"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	"github.com/Aneezakiran07/foodmaps/pkg/httputil"
	"github.com/Aneezakiran07/foodmaps/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// UpsertReviewRequest is the JSON request body for writing a review.
type UpsertReviewRequest struct {
	ReviewerName string   `json:"reviewer_name" validate:"max=100"`
	Comment      string   `json:"comment" validate:"max=2000"`
	Images       []string `json:"images" validate:"max=5,dive,url"`
}

// ListReviews handles GET /api/v1/restaurants/{id}/reviews
// @Summary List reviews for a restaurant
// @Description Returns the restaurant's reviews, newest first, plus the caller's own review
// @Tags reviews
// @Produce json
// @Param id path int true "Restaurant ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/restaurants/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	result, err := h.service.ListReviews(r.Context(), restaurantID, identity.FromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// UpsertReview handles POST /api/v1/restaurants/{id}/reviews
// Posting again replaces the caller's previous review for the restaurant.
// @Summary Write or replace a review
// @Description Upserts the caller's review. New reviews count against a daily quota.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Restaurant ID"
// @Param request body UpsertReviewRequest true "Review content"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/restaurants/{id}/reviews [post]
func (h *ReviewHandler) UpsertReview(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, false)
}

// UpdateReview handles PUT /api/v1/restaurants/{id}/reviews
// Unlike POST it fails with 404 when the caller has no review yet.
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, true)
}

func (h *ReviewHandler) upsert(w http.ResponseWriter, r *http.Request, requireExisting bool) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpsertReviewRequest
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

	input := &service.UpsertReviewInput{
		RestaurantID: restaurantID,
		DeviceID:     identity.FromContext(r.Context()),
		ReviewerName: req.ReviewerName,
		Comment:      req.Comment,
		Images:       req.Images,
	}

	var (
		review *domain.Review
		err    error
	)
	if requireExisting {
		review, err = h.service.UpdateReview(r.Context(), input)
	} else {
		review, err = h.service.UpsertReview(r.Context(), input)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/restaurants/{id}/reviews
// @Summary Delete the caller's review
// @Tags reviews
// @Param id path int true "Restaurant ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/restaurants/{id}/reviews [delete]
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), restaurantID, identity.FromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecentReviews handles GET /api/v1/reviews/recent
// @Summary List recent reviews across all restaurants
// @Tags reviews
// @Produce json
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/reviews/recent [get]
func (h *ReviewHandler) RecentReviews(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "limit must be a valid positive integer"},
			})
			return
		}
		limit = n
	}

	reviews, err := h.service.RecentReviews(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}
