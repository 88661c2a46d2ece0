package api

import (
	"github.com/google/uuid"
	"log/slog"
	"net/http"
	"time"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLog tags each request with an ID, logs it when done and reports
// it to the request observer.
func (h *Handler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		if h.observer != nil {
			h.observer.ObserveRequest(routeLabel(r.URL.Path), rec.status)
		}
		h.logger.InfoContext(r.Context(), "request",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}

func routeLabel(path string) string {
	switch path {
	case "/api/categories", "/api/contents", "/api/figure", "/healthz", "/metrics":
		return path
	}
	return "/"
}
