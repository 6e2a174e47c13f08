package showcase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/silentpianist/portfolio-videos-go/internal/db"
	"github.com/silentpianist/portfolio-videos-go/internal/db/models"
	"github.com/silentpianist/portfolio-videos-go/internal/db/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Mock video entry repository serving a fixed visible set
type mockVideoEntryRepo struct {
	visible []*models.VideoEntry
	err     error
}

func (m *mockVideoEntryRepo) Create(ctx context.Context, entry *models.VideoEntry) error {
	return nil
}

func (m *mockVideoEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.VideoEntry, error) {
	return nil, db.ErrNotFound
}

func (m *mockVideoEntryRepo) List(ctx context.Context, filters *repository.VideoEntryFilters) ([]*models.VideoEntry, int, error) {
	return m.visible, len(m.visible), m.err
}

func (m *mockVideoEntryRepo) ListVisible(ctx context.Context) ([]*models.VideoEntry, error) {
	return m.visible, m.err
}

func (m *mockVideoEntryRepo) Update(ctx context.Context, entry *models.VideoEntry) error {
	return nil
}

func (m *mockVideoEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockVideoEntryRepo) CountBySection(ctx context.Context, section models.Section) (int, error) {
	return len(m.visible), nil
}

func (m *mockVideoEntryRepo) SetThumbnailURL(ctx context.Context, id uuid.UUID, thumbnailURL string) error {
	return nil
}

func TestCacheRefresh(t *testing.T) {
	repo := &mockVideoEntryRepo{
		visible: []*models.VideoEntry{
			musicEntry("Song", "abc123"),
		},
	}
	cache := NewCache(repo)

	// Before the first refresh the plan is empty, not nil
	plan, refreshedAt := cache.Plan()
	if len(plan.Entries) != 0 {
		t.Fatalf("expected empty plan before refresh, got %d entries", len(plan.Entries))
	}
	if !refreshedAt.IsZero() {
		t.Error("refreshedAt should be zero before first refresh")
	}

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	plan, refreshedAt = cache.Plan()
	if len(plan.Entries) != 1 {
		t.Fatalf("expected 1 entry after refresh, got %d", len(plan.Entries))
	}
	if refreshedAt.IsZero() {
		t.Error("refreshedAt not stamped after refresh")
	}

	// A later refresh replaces the plan wholesale
	repo.visible = nil
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	plan, _ = cache.Plan()
	if len(plan.Entries) != 0 {
		t.Errorf("expected 0 entries after refresh, got %d", len(plan.Entries))
	}
}

func TestCacheRefresh_RepoError(t *testing.T) {
	repo := &mockVideoEntryRepo{
		visible: []*models.VideoEntry{musicEntry("Song", "abc123")},
	}
	cache := NewCache(repo)

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// A failed refresh keeps the previous plan
	repo.err = errors.New("connection reset")
	if err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("expected error from failing repo")
	}

	plan, _ := cache.Plan()
	if len(plan.Entries) != 1 {
		t.Errorf("previous plan lost after failed refresh: %d entries", len(plan.Entries))
	}
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

type failPinger struct{}

func (failPinger) Ping(ctx context.Context) error { return errors.New("db down") }

func TestHandlerGetShowcase(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &mockVideoEntryRepo{
		visible: []*models.VideoEntry{musicEntry("Song", "abc123")},
	}
	cache := NewCache(repo)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	h := NewHandler(cache, okPinger{}, nil)
	router := h.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/showcase", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{`"sections":["music"]`, `"show_filter":false`, `"needs_embed_script":false`} {
		if !strings.Contains(body, want) {
			t.Errorf("response missing %s: %s", want, body)
		}
	}
}

func TestHandlerReadinessProbe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cache := NewCache(&mockVideoEntryRepo{})

	t.Run("healthy", func(t *testing.T) {
		h := NewHandler(cache, okPinger{}, nil)
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("database down", func(t *testing.T) {
		h := NewHandler(cache, failPinger{}, nil)
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}
