package middleware

import (
	"net/http"
	"strings"
	"time"

	handlers "communityAPI/internal/handler"
	"communityAPI/internal/logging"
	"communityAPI/internal/service"

	"github.com/google/uuid"
)

type Middleware func(http.Handler) http.Handler

type route struct {
	method string
	path   string
}

// publicRoutes are served without a bearer token.
var publicRoutes = []route{
	{http.MethodPost, "/api/auth/login"},
	{http.MethodPost, "/api/auth/admin"},
	{http.MethodPost, "/api/auth/refresh"},
	{http.MethodPost, "/api/users"},
	{http.MethodGet, "/health"},
}

func isPublic(r *http.Request) bool {
	for _, p := range publicRoutes {
		if r.Method == p.method && r.URL.Path == p.path {
			return true
		}
	}
	return false
}

// AuthMiddleware verifies the access token and stores the caller in the
// request context.
func AuthMiddleware(auth service.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
				return
			}

			// Checking the "Bearer <token>" format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				handlers.WriteError(w, "Неверный формат токена", http.StatusUnauthorized)
				return
			}

			identity, err := auth.Authenticate(r.Context(), parts[1])
			if err != nil {
				status := handlers.StatusFor(err)
				if status == http.StatusUnauthorized {
					handlers.WriteError(w, "Недействительный токен", status)
					return
				}
				logging.ExtractLogger(r.Context()).Error().Err(err).Msg("authentication failed")
				handlers.WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), *identity)))
		})
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware attaches a request-scoped logger to the context and logs
// every finished request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logging.With().
			Str("request_id", uuid.NewString()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logging.AttachLoggerToContext(&logger, r.Context())))

		logger.Info().
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Chain wraps h so that the last middleware runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
