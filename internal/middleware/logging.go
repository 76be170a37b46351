// Package middleware contains HTTP middleware shared by all routes.
//
// MIDDLEWARE SHAPE:
// A middleware is a function that wraps an http.Handler and returns a new
// one, adding behaviour before and/or after the wrapped handler runs:
//
//	func MyMiddleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // before
//	        next.ServeHTTP(w, r)
//	        // after
//	    })
//	}
//
// chi composes these with r.Use(...), outermost first.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
)

// requestIDHeader carries the per-request ID back to the client so a user
// report can be matched against the server log.
const requestIDHeader = "X-Request-Id"

// responseWriter wraps http.ResponseWriter to capture the status code and
// body size — the standard interface doesn't expose either after the fact.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger logs one structured line per completed request.
//
// Each request gets a fresh ID that appears in the log line and in the
// response headers. Fields: id, method, path, status, duration, bytes.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := xid.New().String()
			w.Header().Set(requestIDHeader, id)

			// Default to 200: WriteHeader is never called when a handler
			// writes the body directly.
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("request completed",
				slog.String("id", id),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
			)
		})
	}
}
