package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/AmineOzil/user-registration/pkg/platform/middleware/metadata"
	"github.com/AmineOzil/user-registration/pkg/requestcontext"
)

// APILogging logs one ApiCall line per request and marks the context as an
// HTTP call so services skip their own ServiceCall lines.
func APILogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := requestcontext.WithHTTPCall(r.Context())
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", requestcontext.ClientIP(ctx),
				"client", metadata.DescribeUserAgent(requestcontext.UserAgent(ctx)),
			}
			if id := requestcontext.CorrelationID(ctx); id != "" {
				args = append(args, "correlation_id", id)
			}
			if status >= http.StatusBadRequest {
				logger.WarnContext(ctx, "ApiCall FAIL", args...)
				return
			}
			logger.InfoContext(ctx, "ApiCall SUCCESS", args...)
		})
	}
}
