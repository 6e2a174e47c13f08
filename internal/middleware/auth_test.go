package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/silentpianist/portfolio-videos-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier accepts a single token string and returns fixed claims for it.
type stubVerifier struct {
	validToken string
	claims     *service.SessionClaims
}

func (s *stubVerifier) ParseToken(tokenString string) (*service.SessionClaims, error) {
	if tokenString == s.validToken {
		return s.claims, nil
	}
	return nil, errors.New("invalid or expired session token")
}

func TestNewSessionAuth(t *testing.T) {
	t.Parallel()

	t.Run("uses default logger when nil", func(t *testing.T) {
		t.Parallel()

		auth := NewSessionAuth(&stubVerifier{}, nil)

		require.NotNil(t, auth)
		require.NotNil(t, auth.logger)
	})

	t.Run("uses provided logger", func(t *testing.T) {
		t.Parallel()

		logger := slog.Default()
		auth := NewSessionAuth(&stubVerifier{}, logger)

		require.NotNil(t, auth)
		assert.Equal(t, logger, auth.logger)
	})
}

func TestSessionAuth_Middleware_Success(t *testing.T) {
	t.Parallel()

	claims := &service.SessionClaims{UserID: "u-1", Email: "admin@example.com"}
	auth := NewSessionAuth(&stubVerifier{validToken: "good-token", claims: claims}, nil)

	var gotClaims *service.SessionClaims
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "admin@example.com", gotClaims.Email)
}

func TestSessionAuth_Middleware_Unauthorized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		authHeader string
	}{
		{
			name:       "missing header",
			authHeader: "",
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic Zm9vOmJhcg==",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
		},
		{
			name:       "bearer with empty token",
			authHeader: "Bearer ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			auth := NewSessionAuth(&stubVerifier{validToken: "good-token"}, nil)

			called := false
			handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler should not be reached")

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, unauthorizedError, body["error"])
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"no header", "", ""},
		{"basic auth", "Basic abc123", ""},
		{"bare token without scheme", "abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, extractBearerToken(req))
		})
	}
}
