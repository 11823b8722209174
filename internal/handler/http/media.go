package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	"github.com/Aneezakiran07/foodmaps/pkg/httputil"
)

// MediaHandler handles HTTP requests for media endpoints.
type MediaHandler struct {
	service *service.MediaService
	logger  *slog.Logger
}

// NewMediaHandler creates a new media HTTP handler.
func NewMediaHandler(svc *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		service: svc,
		logger:  logger,
	}
}

// UploadMedia handles POST /api/v1/media
// Expects multipart/form-data with fields: file, owner_id, owner_type.
// @Summary Upload an image
// @Description Validates and stores an image, returning its ledger entry with the public URL
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (jpeg, png, or webp, max 5MB)"
// @Param owner_id formData string true "ID of the owning review, suggestion, or restaurant"
// @Param owner_type formData string true "Owner type" Enums(review,suggestion,restaurant)
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/media [post]
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	// Leave headroom for the multipart framing on top of the file itself.
	maxSize := domain.MaxFileSize + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(domain.MaxFileSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid multipart form: " + err.Error()},
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "file is required: " + err.Error()},
		})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	media, err := h.service.Upload(r.Context(), &service.UploadMediaInput{
		OwnerID:      r.FormValue("owner_id"),
		OwnerType:    r.FormValue("owner_type"),
		OriginalName: header.Filename,
		ContentType:  contentType,
		Size:         header.Size,
		Data:         file,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: media})
}

// GetMedia handles GET /api/v1/media/{id}
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	media, err := h.service.GetMedia(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: media})
}

// DeleteMedia handles DELETE /api/v1/admin/media/{id}
// Removes both the stored asset and its ledger entry.
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
