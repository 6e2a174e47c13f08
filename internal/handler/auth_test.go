package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/silentpianist/portfolio-videos-go/internal/db"
	"github.com/silentpianist/portfolio-videos-go/internal/db/models"
	"github.com/silentpianist/portfolio-videos-go/internal/service"

	"github.com/google/uuid"
)

// Mock admin user repository
type mockAdminUserRepo struct {
	users map[string]*models.AdminUser
}

func newMockAdminUserRepo() *mockAdminUserRepo {
	return &mockAdminUserRepo{
		users: make(map[string]*models.AdminUser),
	}
}

func (m *mockAdminUserRepo) Create(ctx context.Context, user *models.AdminUser) error {
	if _, ok := m.users[user.Email]; ok {
		return db.ErrDuplicateKey
	}
	user.ID = uuid.New()
	m.users[user.Email] = user
	return nil
}

func (m *mockAdminUserRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	return user, nil
}

func (m *mockAdminUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockAdminUserRepo) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func newTestAuthHandler() (*AuthHandler, *mockAdminUserRepo) {
	repo := newMockAdminUserRepo()
	auth := service.NewAuthService(repo, "test-secret", time.Hour)
	return NewAuthHandler(auth, nil), repo
}

func postJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_SignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid signup",
			body:       `{"email":"admin@example.com","password":"secret1"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing email",
			body:       `{"password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "password too short",
			body:       `{"email":"admin@example.com","password":"abc"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{oops`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestAuthHandler()
			rec := postJSON(handler, "/api/v1/auth/signup", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_FirstAccountIsAdmin(t *testing.T) {
	handler, repo := newTestAuthHandler()

	rec := postJSON(handler, "/api/v1/auth/signup", `{"email":"first@example.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %s", rec.Body.String())
	}

	rec = postJSON(handler, "/api/v1/auth/signup", `{"email":"second@example.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("second signup failed: %s", rec.Body.String())
	}

	if !repo.users["first@example.com"].IsAdmin {
		t.Error("first account should be admin")
	}
	if repo.users["second@example.com"].IsAdmin {
		t.Error("second account should not be admin")
	}
}

func TestAuthHandler_DuplicateEmail(t *testing.T) {
	handler, _ := newTestAuthHandler()

	if rec := postJSON(handler, "/api/v1/auth/signup", `{"email":"admin@example.com","password":"secret1"}`); rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %s", rec.Body.String())
	}

	rec := postJSON(handler, "/api/v1/auth/signup", `{"email":"admin@example.com","password":"secret1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestAuthHandler_SignInAndSession(t *testing.T) {
	handler, _ := newTestAuthHandler()

	if rec := postJSON(handler, "/api/v1/auth/signup", `{"email":"admin@example.com","password":"secret1"}`); rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %s", rec.Body.String())
	}

	t.Run("wrong password", func(t *testing.T) {
		rec := postJSON(handler, "/api/v1/auth/login", `{"email":"admin@example.com","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := postJSON(handler, "/api/v1/auth/login", `{"email":"nobody@example.com","password":"secret1"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	rec := postJSON(handler, "/api/v1/auth/login", `{"email":"admin@example.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %s", rec.Body.String())
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatal(err)
	}
	if loginResp.Token == "" {
		t.Fatal("login response missing token")
	}

	t.Run("session with valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
		req.Header.Set("Authorization", "Bearer "+loginResp.Token)
		sessionRec := httptest.NewRecorder()
		handler.ServeHTTP(sessionRec, req)

		if sessionRec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", sessionRec.Code, sessionRec.Body.String())
		}

		var sessionResp struct {
			User models.AdminUser `json:"user"`
		}
		if err := json.Unmarshal(sessionRec.Body.Bytes(), &sessionResp); err != nil {
			t.Fatal(err)
		}
		if sessionResp.User.Email != "admin@example.com" {
			t.Errorf("session email = %s", sessionResp.User.Email)
		}
	})

	t.Run("session with garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		sessionRec := httptest.NewRecorder()
		handler.ServeHTTP(sessionRec, req)

		if sessionRec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", sessionRec.Code)
		}
	})

	t.Run("session without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
		sessionRec := httptest.NewRecorder()
		handler.ServeHTTP(sessionRec, req)

		if sessionRec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", sessionRec.Code)
		}
	})
}

func TestAuthHandler_UnknownRouteAndMethods(t *testing.T) {
	handler, _ := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/signup", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET signup status = %d, want 405", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/whoami", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}
}
