package middleware

import (
	"slices"
	"time"

	"github.com/lavictoria/club-api/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS applies the configured allow-list. The websocket hub checks Origin against the same list.
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		ExposeHeaders:    []string{RequestIDHeader, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}

	if slices.Contains(corsConfig.AllowOrigins, "*") {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
		// wildcard origins cannot carry credentials
		corsConfig.AllowCredentials = false
	}

	return cors.New(corsConfig)
}
