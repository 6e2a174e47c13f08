package showcase

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger checks database connectivity for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the public showcase API.
type Handler struct {
	cache    *Cache
	db       Pinger
	consumer *RefreshConsumer
}

// NewHandler creates a new Handler instance.
func NewHandler(cache *Cache, db Pinger, consumer *RefreshConsumer) *Handler {
	return &Handler{
		cache:    cache,
		db:       db,
		consumer: consumer,
	}
}

// GetShowcase returns the cached render plan.
func (h *Handler) GetShowcase(c *gin.Context) {
	plan, refreshedAt := h.cache.Plan()

	cacheEntries.Set(float64(len(plan.Entries)))

	c.JSON(http.StatusOK, gin.H{
		"sections":           plan.Sections,
		"show_filter":        plan.ShowFilter,
		"needs_embed_script": plan.NeedsEmbedScript,
		"entries":            plan.Entries,
		"refreshed_at":       refreshedAt,
	})
}

// LivenessProbe checks if the application is running.
func (h *Handler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks if the application is ready to serve traffic.
func (h *Handler) ReadinessProbe(c *gin.Context) {
	ctx := c.Request.Context()

	// Check database connectivity
	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"database": "unhealthy",
			"error":    err.Error(),
			"time":     time.Now(),
		})
		return
	}

	// Check RabbitMQ connectivity
	if h.consumer != nil && !h.consumer.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"rabbitmq": "unhealthy",
			"time":     time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "UP",
		"database": "healthy",
		"rabbitmq": "healthy",
		"time":     time.Now(),
	})
}

// Router builds the gin engine with all showcase routes.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(MetricsMiddleware())

	router.GET("/api/v1/showcase", h.GetShowcase)
	router.GET("/healthz", h.LivenessProbe)
	router.GET("/readyz", h.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
