package identity

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

// CookieName is the cookie carrying the device token.
const CookieName = "fm_device_id"

// HeaderName is the request header carrying the device token. Clients that
// hold a token send it here; the cookie is the browser fallback.
const HeaderName = "X-Device-ID"

const cookieMaxAge = 365 * 24 * 60 * 60 // one year

// Provider resolves a stable anonymous identity token for a request.
// Resolution never fails: when no token is presented, one is synthesized.
type Provider interface {
	Resolve(w http.ResponseWriter, r *http.Request) string
}

// DeviceProvider resolves identity from the device token header, then the
// device cookie, then synthesizes a new token and sets the cookie. When the
// request looks like a header-less API client (no cookie support signal), a
// deterministic fingerprint of the client is used instead so repeat calls
// from the same client map to the same identity.
type DeviceProvider struct {
	// Secure controls the Secure attribute on the device cookie.
	Secure bool

	// nowFunc and randFunc are injectable for tests.
	nowFunc  func() time.Time
	randFunc func() string
}

// NewDeviceProvider creates a DeviceProvider.
func NewDeviceProvider(secure bool) *DeviceProvider {
	return &DeviceProvider{
		Secure:   secure,
		nowFunc:  time.Now,
		randFunc: randomSuffix,
	}
}

// Resolve returns the device token for this request, minting and persisting
// one when absent.
func (p *DeviceProvider) Resolve(w http.ResponseWriter, r *http.Request) string {
	if token := r.Header.Get(HeaderName); token != "" {
		return token
	}

	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	// A request with no cookies at all is likely a client that will not
	// store one, so a minted token would change on every call. Fall back to
	// the fingerprint, which is stable for such clients.
	token := p.newToken()
	if r.Header.Get("Cookie") == "" {
		token = Fingerprint(r)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// newToken synthesizes a fresh device token: device_<unix-ms>_<9-char-suffix>.
func (p *DeviceProvider) newToken() string {
	return fmt.Sprintf("device_%d_%s", p.nowFunc().UnixMilli(), p.randFunc())
}

// Fingerprint derives a stable identifier from request attributes for clients
// that cannot hold a cookie. It is a best-effort fallback, not authentication.
func Fingerprint(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.UserAgent() + "|" + r.Header.Get("Accept-Language")))
	return "user_" + base64.RawURLEncoding.EncodeToString(sum[:])[:20]
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// randomSuffix returns 9 characters of base-36 randomness.
func randomSuffix() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}
