package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/wildcards/internal/app"
	"github.com/vytor/wildcards/internal/logger"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const (
	controllerContextKey contextKey = "controller"
	visitorCookieName               = "wildcards_visitor"
	visitorCookieMaxAge             = 365 * 24 * time.Hour
)

func controllerFromContext(ctx context.Context) *app.Controller {
	if v := ctx.Value(controllerContextKey); v != nil {
		if c, ok := v.(*app.Controller); ok {
			return c
		}
	}
	return nil
}

// visitorMiddleware identifies the visitor by cookie, issuing a new id when
// the cookie is missing or malformed, and binds the visitor's controller to
// the request context.
func (s *Server) visitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var visitorID string
		if cookie, err := r.Cookie(visitorCookieName); err == nil {
			if id, err := uuid.Parse(cookie.Value); err == nil {
				visitorID = id.String()
			} else {
				log.Warn("invalid visitor cookie, issuing a new one")
			}
		}
		if visitorID == "" {
			visitorID = uuid.NewString()
			s.setVisitorCookie(w, visitorID)
			log.Debug("new visitor %s", visitorID)
		}

		log = log.WithField("visitor", visitorID)
		ctx := logger.NewContext(r.Context(), log)
		ctx = context.WithValue(ctx, controllerContextKey, s.Visitors.Get(ctx, visitorID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) setVisitorCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		Expires:  s.now().Add(visitorCookieMaxAge),
		MaxAge:   int(visitorCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.SecureCookies,
	})
}

// generateRequestID creates a random request ID.
func generateRequestID() string {
	return uuid.NewString()
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		ctx := logger.NewContext(r.Context(), log)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": duration.Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// timeoutMiddleware wraps a handler with a timeout.
func timeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Request timeout")
	}
}
