package bootstrap

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/lavictoria/club-api/internal/config"
	"github.com/lavictoria/club-api/internal/shared/metrics"
	"github.com/lavictoria/club-api/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Bootstrap builds the gin engine and its global middleware chain.
type Bootstrap struct {
	cfg     *config.Config
	metrics *metrics.Metrics
}

func NewBootstrap(cfg *config.Config, m *metrics.Metrics) *Bootstrap {
	return &Bootstrap{
		cfg:     cfg,
		metrics: m,
	}
}

// SetupEngine creates a gin engine with recovery, request id, CORS, timeout, logging and metrics.
func (b *Bootstrap) SetupEngine() *gin.Engine {
	if b.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Request logging goes through slog
	gin.DefaultWriter = io.Discard
	gin.DefaultErrorWriter = io.Discard

	engine := gin.New()

	engine.Use(gin.CustomRecovery(b.recoveryHandler))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(b.cfg))
	engine.Use(middleware.Timeout(middleware.DefaultTimeout))
	engine.Use(middleware.LoggerMiddleware())
	engine.Use(middleware.Metrics(b.metrics))

	return engine
}

func (b *Bootstrap) recoveryHandler(c *gin.Context, recovered any) {
	slog.Error("Panic recovered",
		"error", recovered,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", middleware.GetRequestID(c),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error", "request_id": middleware.GetRequestID(c),
	})
}
