package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *DeviceProvider {
	p := NewDeviceProvider(false)
	p.nowFunc = func() time.Time { return time.UnixMilli(1700000000000) }
	p.randFunc = func() string { return "abc123xyz" }
	return p
}

func TestResolve_HeaderWins(t *testing.T) {
	p := newTestProvider()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderName, "device_123_aaaaaaaaa")
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "device_456_bbbbbbbbb"})
	w := httptest.NewRecorder()

	got := p.Resolve(w, r)

	assert.Equal(t, "device_123_aaaaaaaaa", got)
	assert.Empty(t, w.Result().Cookies(), "no cookie should be set when a token was presented")
}

func TestResolve_CookieFallback(t *testing.T) {
	p := newTestProvider()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "device_456_bbbbbbbbb"})
	w := httptest.NewRecorder()

	got := p.Resolve(w, r)

	assert.Equal(t, "device_456_bbbbbbbbb", got)
}

func TestResolve_SynthesizesAndSetsCookie(t *testing.T) {
	p := newTestProvider()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	// An unrelated cookie shows the client stores cookies, so a fresh token
	// is minted rather than fingerprinted.
	r.AddCookie(&http.Cookie{Name: "session_hint", Value: "1"})
	w := httptest.NewRecorder()

	got := p.Resolve(w, r)

	assert.Equal(t, "device_1700000000000_abc123xyz", got)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, got, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookieMaxAge, cookies[0].MaxAge)
}

func TestResolve_CookielessClientGetsFingerprint(t *testing.T) {
	p := newTestProvider()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "curl/8.5.0")
	w := httptest.NewRecorder()

	got := p.Resolve(w, r)

	assert.Equal(t, Fingerprint(r), got)

	// Repeat calls from the same client resolve to the same identity.
	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.Header.Set("User-Agent", "curl/8.5.0")
	assert.Equal(t, got, p.Resolve(httptest.NewRecorder(), again))
}

// Two requests carrying the minted cookie resolve to the same identity.
func TestResolve_StableAcrossRequests(t *testing.T) {
	p := NewDeviceProvider(false)
	first := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	token := p.Resolve(w, first)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	assert.Equal(t, token, p.Resolve(httptest.NewRecorder(), second))
}

func TestFingerprint_Deterministic(t *testing.T) {
	r1 := httptest.NewRequest(http.MethodGet, "/", nil)
	r1.Header.Set("User-Agent", "agent-a")
	r1.Header.Set("Accept-Language", "en-US")

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.Header.Set("User-Agent", "agent-a")
	r2.Header.Set("Accept-Language", "en-US")

	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	r3.Header.Set("User-Agent", "agent-b")
	r3.Header.Set("Accept-Language", "en-US")

	assert.Equal(t, Fingerprint(r1), Fingerprint(r2))
	assert.NotEqual(t, Fingerprint(r1), Fingerprint(r3))
	assert.Len(t, Fingerprint(r1), len("user_")+20)
}

func TestMiddleware_StoresTokenInContext(t *testing.T) {
	p := newTestProvider()

	var seen string
	h := Middleware(p)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderName, "device_789_ccccccccc")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, "device_789_ccccccccc", seen)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestFromContext_MissingReturnsEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, FromContext(r.Context()))
}
