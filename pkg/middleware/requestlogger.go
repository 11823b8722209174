package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Aneezakiran07/foodmaps/pkg/logger"
)

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, device_id, trace_id, and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// This middleware should be mounted AFTER RequestLogging (which sets
// correlation_id) and the identity middleware (which sets the device ID).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// The identity middleware stores the resolved device ID via
			// logger.WithDeviceID; fall back to the raw header for routes
			// mounted outside it.
			if logger.DeviceIDFromContext(ctx) == "" {
				if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
					ctx = logger.WithDeviceID(ctx, deviceID)
				}
			}

			// Build enriched logger with all available context fields
			// (correlation_id, device_id, trace_id, span_id).
			enriched := logger.WithContext(ctx, base)

			// Store the enriched logger in context for downstream handlers.
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
