package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/silentpianist/portfolio-videos-go/internal/service"
)

// AuthHandler handles sign-up, sign-in, and session lookups for admins.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token,omitempty"`
	User  interface{} `json:"user"`
}

// ServeHTTP routes auth requests under /api/v1/auth/.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/auth/")

	switch path {
	case "signup":
		if r.Method != http.MethodPost {
			sendError(w, http.StatusMethodNotAllowed, "method not allowed", "", nil)
			return
		}
		h.handleSignUp(w, r)
	case "login":
		if r.Method != http.MethodPost {
			sendError(w, http.StatusMethodNotAllowed, "method not allowed", "", nil)
			return
		}
		h.handleSignIn(w, r)
	case "session":
		if r.Method != http.MethodGet {
			sendError(w, http.StatusMethodNotAllowed, "method not allowed", "", nil)
			return
		}
		h.handleSession(w, r)
	default:
		sendError(w, http.StatusNotFound, "not found", "", nil)
	}
}

func (h *AuthHandler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		sendError(w, http.StatusBadRequest, "validation failed", "a valid email address is required", nil)
		return
	}

	user, err := h.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			sendError(w, http.StatusConflict, "email taken", err.Error(), nil)
			return
		}
		if errors.Is(err, service.ErrPasswordTooShort) {
			sendError(w, http.StatusBadRequest, "validation failed", err.Error(), nil)
			return
		}
		h.logger.Error("failed to sign up user", "error", err)
		sendError(w, http.StatusInternalServerError, "internal server error", "failed to create account", nil)
		return
	}

	h.logger.Info("admin account created", "email", user.Email, "is_admin", user.IsAdmin)
	sendJSON(w, http.StatusCreated, sessionResponse{User: user})
}

func (h *AuthHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	token, user, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			sendError(w, http.StatusUnauthorized, "invalid credentials", err.Error(), nil)
			return
		}
		h.logger.Error("failed to sign in user", "error", err)
		sendError(w, http.StatusInternalServerError, "internal server error", "failed to sign in", nil)
		return
	}

	sendJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// handleSession resolves the account behind the presented bearer token.
func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		sendError(w, http.StatusUnauthorized, "unauthorized", "missing session token", nil)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			sendError(w, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
			return
		}
		h.logger.Error("failed to resolve session", "error", err)
		sendError(w, http.StatusInternalServerError, "internal server error", "failed to resolve session", nil)
		return
	}

	sendJSON(w, http.StatusOK, sessionResponse{User: user})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
