package testutil

import (
	"time"

	"github.com/lavictoria/club-api/internal/config"
)

// NewTestConfig creates a test configuration
// This removes the need for environment variables during testing
func NewTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "club-api-test",
			Env:  "test",
			Port: 3001,
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            1521,
			Service:         "test",
			User:            "test",
			Password:        "test",
			MaxIdleConns:    1,
			MaxOpenConns:    1,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
			IsAutoMigrate:   true,
		},
		JWT: config.JWTConfig{
			Secret: "test-jwt-secret-key-must-be-at-least-32-characters-long",
			Expiry: 24 * time.Hour,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Server: config.ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 30 * time.Second,
		},
		Club: config.ClubConfig{
			Timezone: "America/Argentina/Buenos_Aires",
		},
		Cloudinary: config.CloudinaryConfig{
			Folder: "members-test",
		},
		Photo: config.PhotoConfig{
			MaxBytes:    5 * 1024 * 1024,
			MaxAttempts: 3,
			RetryDelay:  time.Millisecond,
		},
		Realtime: config.RealtimeConfig{
			RequireAuth:  false,
			WriteTimeout: time.Second,
		},
		RateLimit: config.RateLimitConfig{
			LoginMax:    5,
			LoginWindow: time.Minute,
		},
	}
}
