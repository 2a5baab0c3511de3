package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/magdock/pkg/observability"
)

// logRequests logs each request at debug level, failures at warn, and
// reports both ends to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)

		kv := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"dur", dur.Round(time.Microsecond),
			"req", middleware.GetReqID(r.Context()),
		}
		if status >= 500 {
			s.logger.Error("request", kv...)
		} else if status >= 400 {
			s.logger.Warn("request", kv...)
		} else {
			s.logger.Debug("request", kv...)
		}
	})
}
