package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/repository"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

const testPostID = "550e8400-e29b-41d4-a716-446655440002"

func setupPostRouter() (*chi.Mux, *mockPostRepository) {
	posts := new(mockPostRepository)
	svc := service.NewPostService(posts, nil, testLogger())
	handler := NewPostHandler(svc, testLogger())

	router := withIdentity(func(r chi.Router) {
		r.Get("/posts", handler.ListPosts)
		r.Get("/posts/counts", handler.PostCounts)
		r.Get("/posts/{id}", handler.GetPost)
		r.Post("/admin/posts", handler.CreatePost)
		r.Put("/admin/posts/{id}", handler.UpdatePost)
		r.Delete("/admin/posts/{id}", handler.DeletePost)
	})
	return router, posts
}

func TestListPosts_Success(t *testing.T) {
	router, posts := setupPostRouter()

	posts.On("List", mock.Anything, repository.PostFilter{Type: domain.PostTypeDeal}).
		Return([]domain.Post{{ID: testPostID, Title: "BOGO chai", Type: domain.PostTypeDeal}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts?type=deal", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	items := resp.Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "BOGO chai", items[0].(map[string]any)["title"])
}

func TestListPosts_UnknownTypeRejected(t *testing.T) {
	router, _ := setupPostRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts?type=gossip", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestListPosts_RecentFlagNarrowsWindow(t *testing.T) {
	router, posts := setupPostRouter()

	posts.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostFilter) bool {
		return !f.Since.IsZero()
	})).Return([]domain.Post{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts?recent=true", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	posts.AssertExpectations(t)
}

func TestPostCounts_Success(t *testing.T) {
	router, posts := setupPostRouter()

	posts.On("CountByType", mock.Anything).
		Return(&domain.PostTypeCounts{All: 5, Deal: 2, Event: 3}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/counts", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(5), data["all"])
	assert.Equal(t, float64(3), data["event"])
}

func TestGetPost_NotFound(t *testing.T) {
	router, posts := setupPostRouter()

	posts.On("GetByID", mock.Anything, testPostID).
		Return(nil, apperrors.NotFound("post", testPostID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+testPostID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePost_Success(t *testing.T) {
	router, posts := setupPostRouter()

	posts.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Post) bool {
		return p.Title == "Grand opening" && p.Type == domain.PostTypeNewOpening
	})).Return(nil)

	body := `{"title": "Grand opening", "description": "New branch in Clifton.", "type": "new_opening"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	posts.AssertExpectations(t)
}

func TestCreatePost_UnknownTypeRejected(t *testing.T) {
	router, posts := setupPostRouter()

	body := `{"title": "T", "description": "D", "type": "gossip"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdatePost_BadUUID(t *testing.T) {
	router, _ := setupPostRouter()

	body := `{"title": "T", "description": "D", "type": "deal"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/posts/not-a-uuid", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestDeletePost_Success(t *testing.T) {
	router, posts := setupPostRouter()

	posts.On("Delete", mock.Anything, testPostID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/"+testPostID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	posts.AssertExpectations(t)
}
