package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	"github.com/Aneezakiran07/foodmaps/pkg/httputil"
	"github.com/Aneezakiran07/foodmaps/pkg/validator"
)

// PostHandler handles HTTP requests for "what's hot" post endpoints.
type PostHandler struct {
	service *service.PostService
	logger  *slog.Logger
}

// NewPostHandler creates a new post HTTP handler.
func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		service: svc,
		logger:  logger,
	}
}

// PostRequest is the JSON request body for creating or updating a post.
type PostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"required,min=1,max=5000"`
	Type        string   `json:"type" validate:"required,oneof=deal new_opening discount event"`
	Images      []string `json:"images" validate:"omitempty,max=5,dive,url"`
}

// ListPosts handles GET /api/v1/posts
// @Summary List what's hot posts
// @Tags posts
// @Produce json
// @Param type query string false "Filter by type" Enums(deal,new_opening,discount,event)
// @Param recent query bool false "Only posts from the last 7 days"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/posts [get]
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	var postType domain.PostType
	if v := r.URL.Query().Get("type"); v != "" {
		if !domain.ValidPostType(domain.PostType(v)) {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "type must be one of: deal, new_opening, discount, event"},
			})
			return
		}
		postType = domain.PostType(v)
	}

	recentOnly := r.URL.Query().Get("recent") == "true"

	posts, err := h.service.ListPosts(r.Context(), postType, recentOnly)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: posts})
}

// PostCounts handles GET /api/v1/posts/counts
// Returns per-type tallies for the listing filter badges.
func (h *PostHandler) PostCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CountsByType(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counts})
}

// GetPost handles GET /api/v1/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	post, err := h.service.GetPost(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: post})
}

// CreatePost handles POST /api/v1/admin/posts
// @Summary Create a what's hot post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body PostRequest true "Post to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/posts [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req PostRequest
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

	post, err := h.service.CreatePost(r.Context(), &service.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.PostType(req.Type),
		Images:      req.Images,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: post})
}

// UpdatePost handles PUT /api/v1/admin/posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req PostRequest
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

	post, err := h.service.UpdatePost(r.Context(), id.String(), &service.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.PostType(req.Type),
		Images:      req.Images,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: post})
}

// DeletePost handles DELETE /api/v1/admin/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeletePost(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
