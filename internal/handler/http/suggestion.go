package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/identity"
	"github.com/Aneezakiran07/foodmaps/internal/repository"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	"github.com/Aneezakiran07/foodmaps/pkg/httputil"
	"github.com/Aneezakiran07/foodmaps/pkg/validator"
)

// SuggestionHandler handles HTTP requests for suggestion endpoints.
type SuggestionHandler struct {
	service *service.SuggestionService
	logger  *slog.Logger
}

// NewSuggestionHandler creates a new suggestion HTTP handler.
func NewSuggestionHandler(svc *service.SuggestionService, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateSuggestionRequest is the JSON request body for creating a suggestion.
type CreateSuggestionRequest struct {
	Title          string   `json:"title" validate:"required,min=1,max=255"`
	Content        string   `json:"content" validate:"required,min=1,max=5000"`
	Type           string   `json:"type" validate:"required,oneof=suggestion complaint request"`
	RestaurantName string   `json:"restaurant_name" validate:"max=255"`
	FoodItem       string   `json:"food_item" validate:"max=255"`
	Images         []string `json:"images" validate:"max=5,dive,url"`
	UserName       string   `json:"user_name" validate:"max=100"`
	UserEmail      string   `json:"user_email" validate:"omitempty,email"`
}

// UpdateSuggestionRequest is the JSON request body for updating a suggestion.
type UpdateSuggestionRequest struct {
	Title          string   `json:"title" validate:"required,min=1,max=255"`
	Content        string   `json:"content" validate:"required,min=1,max=5000"`
	Type           string   `json:"type" validate:"required,oneof=suggestion complaint request"`
	RestaurantName string   `json:"restaurant_name" validate:"max=255"`
	FoodItem       string   `json:"food_item" validate:"max=255"`
	Images         []string `json:"images" validate:"omitempty,max=5,dive,url"`
}

// ToggleReactionRequest is the JSON request body for a reaction toggle.
type ToggleReactionRequest struct {
	ReactionType string `json:"reaction_type" validate:"required,oneof=like dislike"`
}

// ListSuggestions handles GET /api/v1/suggestions
// @Summary List suggestions
// @Description Returns a filtered page of suggestions annotated with the caller's reaction
// @Tags suggestions
// @Produce json
// @Param type query string false "Filter by type" Enums(suggestion,complaint,request)
// @Param search query string false "Search in title, content, restaurant name, and food item"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/suggestions [get]
func (h *SuggestionHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	filter := repository.SuggestionFilter{
		Page:    1,
		PerPage: 20,
	}

	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid positive integer"},
			})
			return
		}
		filter.Page = page
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "per_page must be a valid integer between 1 and 100"},
			})
			return
		}
		filter.PerPage = perPage
	}
	if v := r.URL.Query().Get("type"); v != "" {
		if !domain.ValidSuggestionType(domain.SuggestionType(v)) {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "type must be one of: suggestion, complaint, request"},
			})
			return
		}
		filter.Type = domain.SuggestionType(v)
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filter.Search = v
	}

	result, err := h.service.ListSuggestions(r.Context(), filter, identity.FromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(result.Suggestions, result.TotalCount, result.Page, result.PerPage))
}

// ListMine handles GET /api/v1/suggestions/mine
// @Summary List the caller's own suggestions
// @Tags suggestions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/suggestions/mine [get]
func (h *SuggestionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.ListMine(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suggestions})
}

// CreateSuggestion handles POST /api/v1/suggestions
// @Summary Create a suggestion
// @Tags suggestions
// @Accept json
// @Produce json
// @Param request body CreateSuggestionRequest true "Suggestion to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/suggestions [post]
func (h *SuggestionHandler) CreateSuggestion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateSuggestionRequest
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

	suggestion, err := h.service.CreateSuggestion(r.Context(), &service.CreateSuggestionInput{
		Title:          req.Title,
		Content:        req.Content,
		Type:           domain.SuggestionType(req.Type),
		RestaurantName: req.RestaurantName,
		FoodItem:       req.FoodItem,
		Images:         req.Images,
		UserIdentifier: identity.FromContext(r.Context()),
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: suggestion})
}

// UpdateSuggestion handles PUT /api/v1/suggestions/{id}
// Only the identity that created a suggestion may update it.
func (h *SuggestionHandler) UpdateSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateSuggestionRequest
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

	suggestion, err := h.service.UpdateSuggestion(r.Context(), id.String(), identity.FromContext(r.Context()), &service.UpdateSuggestionInput{
		Title:          req.Title,
		Content:        req.Content,
		Type:           domain.SuggestionType(req.Type),
		RestaurantName: req.RestaurantName,
		FoodItem:       req.FoodItem,
		Images:         req.Images,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suggestion})
}

// DeleteSuggestion handles DELETE /api/v1/suggestions/{id}
// Only the identity that created a suggestion may delete it.
func (h *SuggestionHandler) DeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteSuggestion(r.Context(), id.String(), identity.FromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleReaction handles POST /api/v1/suggestions/{id}/reactions
// Sending the same reaction again removes it; sending the other one flips it.
// @Summary Toggle a like or dislike
// @Description Applies the reaction toggle and returns the authoritative counters
// @Tags suggestions
// @Accept json
// @Produce json
// @Param id path string true "Suggestion UUID"
// @Param request body ToggleReactionRequest true "Reaction to toggle"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/suggestions/{id}/reactions [post]
func (h *SuggestionHandler) ToggleReaction(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ToggleReactionRequest
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

	result, err := h.service.ToggleReaction(r.Context(), id.String(), identity.FromContext(r.Context()), domain.ReactionType(req.ReactionType))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
