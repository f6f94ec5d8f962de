package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/promptgate/promptgate-go/internal/metrics"
)

// HitRecorder counts one request against an endpoint and method.
type HitRecorder interface {
	RecordHit(ctx context.Context, endpoint, method string) error
}

// TrackUsage returns middleware that counts every request by URL path and
// method before the handler runs. When the counter cannot be updated the
// request is rejected and the handler is not called.
func TrackUsage(recorder HitRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := recorder.RecordHit(r.Context(), r.URL.Path, r.Method); err != nil {
				metrics.UsageTrackingFailuresTotal.Inc()
				slog.Error("tracking request count failed",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
				)
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"message": "Error tracking request count.",
					"error":   err.Error(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
