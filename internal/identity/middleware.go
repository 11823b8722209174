package identity

import (
	"context"
	"net/http"

	"github.com/Aneezakiran07/foodmaps/pkg/logger"
)

type contextKey struct{}

// Middleware resolves the device identity for every request and stores the
// token in the request context. It also records the token on the logging
// context so request-scoped log lines carry device_id.
func Middleware(p Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := p.Resolve(w, r)

			ctx := context.WithValue(r.Context(), contextKey{}, token)
			ctx = logger.WithDeviceID(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the device token stored by Middleware, or the empty
// string when the middleware did not run.
func FromContext(ctx context.Context) string {
	if token, ok := ctx.Value(contextKey{}).(string); ok {
		return token
	}
	return ""
}
