package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminOnly_MatchingToken(t *testing.T) {
	handler := AdminOnly("sekrit")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/restaurants", nil)
	req.Header.Set("X-Admin-Token", "sekrit")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOnly_WrongToken(t *testing.T) {
	handler := AdminOnly("sekrit")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/restaurants", nil)
	req.Header.Set("X-Admin-Token", "guess")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestAdminOnly_MissingToken(t *testing.T) {
	handler := AdminOnly("sekrit")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/restaurants", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnly_EmptyConfiguredTokenDisablesAdmin(t *testing.T) {
	handler := AdminOnly("")(okHandler())

	// Even a blank presented token must not match a blank configured token.
	req := httptest.NewRequest(http.MethodPost, "/admin/restaurants", nil)
	req.Header.Set("X-Admin-Token", "")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestContentTypeJSON_RejectsFormEncoded(t *testing.T) {
	handler := ContentTypeJSON(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/suggestions", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestContentTypeJSON_AllowsJSON(t *testing.T) {
	handler := ContentTypeJSON(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/suggestions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentTypeJSON_AllowsMultipart(t *testing.T) {
	handler := ContentTypeJSON(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", strings.NewReader("body"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
