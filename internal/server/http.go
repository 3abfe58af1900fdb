package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/logger"
)

// NewHTTPServer wraps the router in an HTTP server with sane timeouts and
// request logging
func NewHTTPServer(config Config, router *chi.Mux, log logger.Logger) *http.Server {
	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      withObservability(router, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// withObservability adds request logging
func withObservability(handler http.Handler, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Use chi's response writer wrapper to capture status code and bytes written
		wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		// Process the request
		handler.ServeHTTP(wrr, r)

		// Log request details
		duration := time.Since(start)

		// Extract the caller for better tracing; anonymous requests log empty
		var subject string
		if p, ok := identity.FromContext(r.Context()); ok {
			subject = p.Name
		}

		log.Info(r.Context(), "HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrr.Status(),
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"request_id", chimw.GetReqID(r.Context()),
			"subject", subject,
		)
	})
}
