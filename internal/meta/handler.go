package meta

import (
	"context"
	"net/http"
	"time"

	"github.com/lavictoria/club-api/internal/config"
	"github.com/lavictoria/club-api/internal/shared/database"
	"github.com/lavictoria/club-api/internal/shared/logger"
	sharedRedis "github.com/lavictoria/club-api/internal/shared/redis"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 5 * time.Second

// Handler serves operational endpoints that live outside /api/v1.
type Handler struct {
	cfg   *config.Config
	db    *database.DB
	redis *sharedRedis.Client
}

// NewHandler creates a new meta handler. redis may be nil.
func NewHandler(cfg *config.Config, db *database.DB, redis *sharedRedis.Client) *Handler {
	return &Handler{
		cfg:   cfg,
		db:    db,
		redis: redis,
	}
}

type check struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Health pings the database and, when configured, Redis.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := gin.H{
		"database": probe(ctx, "database", h.db.HealthCheck),
	}
	if h.redis != nil {
		checks["redis"] = probe(ctx, "redis", h.redis.Health)
	}

	status, code := "healthy", http.StatusOK
	for _, v := range checks {
		if v.(check).Status != "up" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status": status,
		"service": gin.H{
			"name":        h.cfg.App.Name,
			"environment": h.cfg.App.Env,
			"port":        h.cfg.App.Port,
		},
		"checks": checks,
	})
}

func probe(ctx context.Context, name string, ping func(context.Context) error) check {
	start := time.Now()
	if err := ping(ctx); err != nil {
		logger.FromContext(ctx).Error("Health check failed", "dependency", name, "error", err)
		return check{Status: "down", LatencyMs: time.Since(start).Milliseconds(), Error: err.Error()}
	}
	return check{Status: "up", LatencyMs: time.Since(start).Milliseconds()}
}
