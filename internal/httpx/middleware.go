package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/netutil"
	"storefront/internal/observability/middleware"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// LogRequests logs method, path, status and latency for every request.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		ip, _ := netutil.NormalizeIP(r.RemoteAddr)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", ip,
			"user_agent", netutil.TruncateUserAgent(r.UserAgent()),
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"trace_id", middleware.TraceIDFromContext(r.Context()),
		)
	})
}
