package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Aneezakiran07/foodmaps/internal/service"
	"github.com/Aneezakiran07/foodmaps/pkg/httputil"
	"github.com/Aneezakiran07/foodmaps/pkg/validator"
)

// RestaurantHandler handles HTTP requests for restaurant endpoints.
type RestaurantHandler struct {
	service *service.RestaurantService
	logger  *slog.Logger
}

// NewRestaurantHandler creates a new restaurant HTTP handler.
func NewRestaurantHandler(svc *service.RestaurantService, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateRestaurantRequest is the JSON request body for registering a restaurant.
type CreateRestaurantRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=500"`
	Phone       string `json:"phone" validate:"max=50"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// UpdateRestaurantRequest is the JSON request body for updating a restaurant.
type UpdateRestaurantRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=500"`
	Phone       string `json:"phone" validate:"max=50"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	IsActive    bool   `json:"is_active"`
}

// parseRestaurantID reads the {id} path parameter as a positive integer.
// On failure it writes a 400 response and returns false.
func parseRestaurantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "restaurant id must be a valid positive integer"},
		})
		return 0, false
	}
	return id, true
}

// ListRestaurants handles GET /api/v1/restaurants
// @Summary List active restaurants
// @Description Returns all active restaurants, with rating summaries when with_stats=true
// @Tags restaurants
// @Produce json
// @Param with_stats query bool false "Include rating summaries"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/restaurants [get]
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	withStats := r.URL.Query().Get("with_stats") == "true"

	restaurants, err := h.service.ListRestaurants(r.Context(), withStats)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: restaurants})
}

// TopRated handles GET /api/v1/restaurants/top-rated
// @Summary List top rated restaurants
// @Description Returns active restaurants with an average rating of 4.0 or higher, best first
// @Tags restaurants
// @Produce json
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/restaurants/top-rated [get]
func (h *RestaurantHandler) TopRated(w http.ResponseWriter, r *http.Request) {
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

	restaurants, err := h.service.TopRated(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: restaurants})
}

// GetRestaurant handles GET /api/v1/restaurants/{id}
// @Summary Get a restaurant
// @Description Returns a restaurant with its rating summary
// @Tags restaurants
// @Produce json
// @Param id path int true "Restaurant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/restaurants/{id} [get]
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	restaurant, err := h.service.GetRestaurant(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: restaurant})
}

// CreateRestaurant handles POST /api/v1/admin/restaurants
func (h *RestaurantHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateRestaurantRequest
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

	restaurant, err := h.service.CreateRestaurant(r.Context(), &service.CreateRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: restaurant})
}

// UpdateRestaurant handles PUT /api/v1/admin/restaurants/{id}
func (h *RestaurantHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateRestaurantRequest
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

	restaurant, err := h.service.UpdateRestaurant(r.Context(), id, &service.UpdateRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: restaurant})
}

// DeactivateRestaurant handles DELETE /api/v1/admin/restaurants/{id}
func (h *RestaurantHandler) DeactivateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeactivateRestaurant(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
