package router

import (
	"fmt"

	"github.com/lavictoria/club-api/internal/auth"
	"github.com/lavictoria/club-api/internal/config"
	"github.com/lavictoria/club-api/internal/entry"
	"github.com/lavictoria/club-api/internal/member"
	"github.com/lavictoria/club-api/internal/meta"
	"github.com/lavictoria/club-api/internal/photo"
	"github.com/lavictoria/club-api/internal/realtime"
	"github.com/lavictoria/club-api/internal/season"
	"github.com/lavictoria/club-api/internal/shared/clock"
	"github.com/lavictoria/club-api/internal/shared/database"
	"github.com/lavictoria/club-api/internal/shared/metrics"
	"github.com/lavictoria/club-api/internal/shared/middleware"
	"github.com/lavictoria/club-api/internal/shared/ratelimit"
	sharedRedis "github.com/lavictoria/club-api/internal/shared/redis"
	"github.com/lavictoria/club-api/internal/shared/token"
	"github.com/lavictoria/club-api/internal/statistics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Infra is the infrastructure built by main before routes are registered.
type Infra struct {
	DB       *database.DB
	Redis    *sharedRedis.Client // nil when REDIS_URL is empty
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Photos   photo.Store
	Clock    clock.Clock
}

// App exposes the services main needs after startup (admin seeding, shutdown).
type App struct {
	Auth    *auth.AuthService
	Entries *entry.EntryService
	Hub     *realtime.Hub
}

// Setup configures all application-specific routes using dependency injection
func Setup(router *gin.Engine, cfg *config.Config, infra Infra) (*App, error) {
	resolver, err := clock.NewResolver(infra.Clock, cfg.Club.Timezone)
	if err != nil {
		return nil, fmt.Errorf("club clock: %w", err)
	}

	// Meta handler (health check, metrics)
	metaHandler := meta.NewHandler(cfg, infra.DB, infra.Redis)
	router.GET("/health", metaHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{Registry: infra.Registry})))

	// repository
	userRepository := auth.NewUserRepository()
	memberRepository := member.NewMemberRepository()
	seasonRepository := season.NewSeasonRepository()
	enrollmentRepository := season.NewEnrollmentRepository()
	entryRepository := entry.NewEntryRepository()

	// shared services
	tokenManager := token.NewJWTManager(cfg)
	limitStore := newLimitStore(infra.Redis)

	// service
	authService := auth.NewAuthService(infra.DB.DB, userRepository, tokenManager, !cfg.IsProduction())
	memberService := member.NewMemberService(infra.DB.DB, memberRepository, infra.Photos, resolver)
	seasonService := season.NewSeasonService(infra.DB.DB, seasonRepository, enrollmentRepository, memberRepository, resolver)
	classifier := member.NewClassifier(infra.DB.DB, memberRepository, seasonService, resolver)
	entryService := entry.NewEntryService(infra.DB.DB, entryRepository, memberRepository, resolver, infra.Metrics)
	statisticsService := statistics.NewStatisticsService(entryService, resolver)

	hub := realtime.NewHub(entryService, tokenManager, realtime.Config{
		RequireAuth:    cfg.Realtime.RequireAuth,
		WriteTimeout:   cfg.Realtime.WriteTimeout,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, infra.Metrics)
	entryService.SetNotifier(hub)

	// handler
	authHandler := auth.NewAuthHandler(authService)
	memberHandler := member.NewMemberHandler(memberService, classifier, cfg.Photo.MaxBytes)
	seasonHandler := season.NewSeasonHandler(seasonService)
	entryHandler := entry.NewEntryHandler(entryService)
	statisticsHandler := statistics.NewStatisticsHandler(statisticsService)

	router.GET("/ws/pool-entries", gin.WrapH(hub))

	// API v1 routes
	authV1 := router.Group("/api/v1/auth")
	{
		authV1.POST("/login",
			middleware.RateLimit(limitStore, "login", cfg.RateLimit.LoginMax, cfg.RateLimit.LoginWindow, infra.Metrics),
			authHandler.Login)
		authV1.POST("/password-hash", middleware.JWT(tokenManager), authHandler.PasswordHash)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWT(tokenManager))

	memberV1 := v1.Group("/members")
	{
		memberV1.GET("", memberHandler.List)
		memberV1.POST("", memberHandler.Create)
		memberV1.GET("/registration/:dni", memberHandler.Registration)
		memberV1.GET("/:id", memberHandler.Get)
		memberV1.PUT("/:id", memberHandler.Update)
		memberV1.DELETE("/:id", memberHandler.Delete)
	}

	seasonV1 := v1.Group("/seasons")
	{
		seasonV1.POST("", seasonHandler.Create)
		seasonV1.GET("", seasonHandler.List)
		seasonV1.GET("/:id", seasonHandler.Get)
		seasonV1.PATCH("/:id", seasonHandler.Update)
		seasonV1.DELETE("/:id", seasonHandler.Delete)
		seasonV1.GET("/:id/members", seasonHandler.Members)
		seasonV1.POST("/:id/members", seasonHandler.Enroll)
		seasonV1.DELETE("/:id/members/:memberId", seasonHandler.Unenroll)
		seasonV1.GET("/:id/available-members", seasonHandler.AvailableMembers)
	}

	entryV1 := v1.Group("/entries")
	{
		entryV1.POST("", entryHandler.Create)
		entryV1.GET("", entryHandler.List)
		entryV1.GET("/:id", entryHandler.Get)
		entryV1.GET("/dni/:dni", entryHandler.ByDNI)
		entryV1.GET("/range/:from/:to", entryHandler.ByDateRange)
	}

	v1.GET("/statistics", statisticsHandler.Daily)

	return &App{
		Auth:    authService,
		Entries: entryService,
		Hub:     hub,
	}, nil
}

// newLimitStore shares login counters across instances when Redis is configured.
func newLimitStore(client *sharedRedis.Client) ratelimit.Store {
	if client == nil {
		return ratelimit.NewMemoryStore()
	}
	return ratelimit.NewRedisStore(client)
}
