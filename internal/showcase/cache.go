package showcase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/silentpianist/portfolio-videos-go/internal/db/repository"
	"github.com/silentpianist/portfolio-videos-go/pkg/logger"

	"go.uber.org/zap"
)

// Cache holds the current render plan for visible entries. It is rebuilt on
// demand and whenever a content-change event arrives; reads never touch the
// database.
type Cache struct {
	repo repository.VideoEntryRepository
	log  *zap.Logger

	mu          sync.RWMutex
	plan        *Plan
	refreshedAt time.Time
}

// NewCache creates an empty cache. Call Refresh once before serving.
func NewCache(repo repository.VideoEntryRepository) *Cache {
	return &Cache{
		repo: repo,
		log:  logger.Named("showcase-cache"),
	}
}

// Refresh re-fetches visible entries ordered by section and display order and
// rebuilds the plan. Hidden entries never reach the public payload.
func (c *Cache) Refresh(ctx context.Context) error {
	entries, err := c.repo.ListVisible(ctx)
	if err != nil {
		return fmt.Errorf("failed to list visible entries: %w", err)
	}

	plan := BuildPlan(entries)

	c.mu.Lock()
	c.plan = plan
	c.refreshedAt = time.Now()
	c.mu.Unlock()

	c.log.Info("Showcase cache refreshed",
		zap.Int("entries", len(plan.Entries)),
		zap.Strings("sections", plan.Sections),
	)

	return nil
}

// Plan returns the cached plan and when it was built. Before the first
// successful Refresh it returns an empty plan.
func (c *Cache) Plan() (*Plan, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.plan == nil {
		return &Plan{Sections: []string{}, Entries: []EntryPlan{}}, time.Time{}
	}
	return c.plan, c.refreshedAt
}
