package httpapi

import (
	"net/http"
	"time"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/philipbrowne/messagely/internal/logging"
)

// requestLogger logs one line per request with a generated request id.
// Bodies are never logged, so credentials cannot leak into the log stream.
func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			start := time.Now()
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info(r.Context(), "request",
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
