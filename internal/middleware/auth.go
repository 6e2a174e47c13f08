package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/silentpianist/portfolio-videos-go/internal/service"
)

const (
	headerAuth        = "Authorization"
	bearerPrefix      = "Bearer "
	unauthorizedError = "Unauthorized"
)

type contextKey string

// ClaimsKey is the request-context key holding the validated session claims.
const ClaimsKey contextKey = "session_claims"

// TokenVerifier validates a session token string.
type TokenVerifier interface {
	ParseToken(tokenString string) (*service.SessionClaims, error)
}

// SessionAuth provides bearer-token session authentication middleware.
type SessionAuth struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewSessionAuth creates a new session authentication middleware.
func NewSessionAuth(verifier TokenVerifier, logger *slog.Logger) *SessionAuth {
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionAuth{
		verifier: verifier,
		logger:   logger,
	}
}

// Middleware returns an HTTP middleware that validates session tokens from the
// Authorization: Bearer header. Requests without a valid token get 401.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			a.logger.Warn("unauthorized request - missing session token",
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
			)
			a.sendUnauthorized(w)
			return
		}

		claims, err := a.verifier.ParseToken(token)
		if err != nil {
			a.logger.Warn("unauthorized request - invalid session token",
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
			)
			a.sendUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the session claims stored by Middleware, if any.
func ClaimsFromContext(ctx context.Context) (*service.SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*service.SessionClaims)
	return claims, ok
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get(headerAuth)
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}

	return ""
}

// sendUnauthorized sends a 401 Unauthorized response.
func (a *SessionAuth) sendUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := map[string]string{
		"error": unauthorizedError,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		a.logger.Error("failed to encode unauthorized response", "error", err)
	}
}
