package studyserver

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// MiddlewareConfig holds the CORS and inbound rate-limit settings.
type MiddlewareConfig struct {
	CORSAllowedOrigins []string // empty = "*"
	CORSMaxAge         int      // seconds

	RateLimitRequests int // per window per IP; 0 disables
	RateLimitWindow   time.Duration
}

// DefaultMiddlewareConfig returns permissive CORS and 30 requests per minute.
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		CORSMaxAge:        86400,
		RateLimitRequests: 30,
		RateLimitWindow:   time.Minute,
	}
}

func corsMiddleware(c MiddlewareConfig) func(http.Handler) http.Handler {
	origins := c.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         c.CORSMaxAge,
	})
}

func rateLimitMiddleware(c MiddlewareConfig) func(http.Handler) http.Handler {
	if c.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	window := c.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(c.RateLimitRequests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, apiResponse{Message: "Too many requests, slow down"})
		}),
	)
}

// requestLogger logs one line per request with chi's request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}
