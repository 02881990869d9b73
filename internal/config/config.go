package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Server     ServerConfig
	Club       ClubConfig
	Cloudinary CloudinaryConfig
	Photo      PhotoConfig
	Realtime   RealtimeConfig
	RateLimit  RateLimitConfig
	Redis      RedisConfig
	Admin      AdminConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Service         string
	User            string
	Password        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	IsAutoMigrate   bool // true: drop and recreate tables, false: migration disabled
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

// ClubConfig holds the civil timezone every "today" is evaluated in.
type ClubConfig struct {
	Timezone string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c CloudinaryConfig) IsConfigured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type PhotoConfig struct {
	MaxBytes    int64
	MaxAttempts int
	RetryDelay  time.Duration
}

type RealtimeConfig struct {
	RequireAuth  bool
	WriteTimeout time.Duration
}

type RateLimitConfig struct {
	LoginMax    int
	LoginWindow time.Duration
}

// RedisConfig is optional. An empty URL keeps rate limiting in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
}

// AdminConfig seeds the first operator account on startup when both fields are set.
type AdminConfig struct {
	Username string
	Password string
}

func Load(env string) (*Config, error) {
	if err := loadEnvFile(env); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "club-api"),
			Env:  env,
			Port: getEnvAsInt("APP_PORT", 3001),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnvAsInt("DB_PORT", 1521),
			Service:         getEnv("DB_SERVICE", ""),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "1h"),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", "10m"),
			IsAutoMigrate:   getEnvAsBool("DB_AUTO_MIGRATE", false), // default false (safe)
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: getEnvAsDuration("JWT_EXPIRY", "1h"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Requested-With", "Accept"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},
		Server: ServerConfig{
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
			GracefulTimeout: getEnvAsDuration("GRACEFUL_TIMEOUT", "30s"),
		},
		Club: ClubConfig{
			Timezone: getEnv("CLUB_TIMEZONE", "America/Argentina/Buenos_Aires"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "members"),
		},
		Photo: PhotoConfig{
			MaxBytes:    int64(getEnvAsInt("PHOTO_MAX_BYTES", 5*1024*1024)),
			MaxAttempts: getEnvAsInt("PHOTO_UPLOAD_ATTEMPTS", 3),
			RetryDelay:  getEnvAsDuration("PHOTO_UPLOAD_RETRY_DELAY", "1s"),
		},
		Realtime: RealtimeConfig{
			RequireAuth:  getEnvAsBool("REALTIME_REQUIRE_AUTH", false),
			WriteTimeout: getEnvAsDuration("REALTIME_WRITE_TIMEOUT", "5s"),
		},
		RateLimit: RateLimitConfig{
			LoginMax:    getEnvAsInt("RATE_LIMIT_LOGIN_MAX", 5),
			LoginWindow: getEnvAsDuration("RATE_LIMIT_LOGIN_WINDOW", "1m"),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", "5s"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate environment: %w", err)
	}

	return cfg, nil
}

func loadEnvFile(env string) error {
	envFile := fmt.Sprintf(".env.%s", env)

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Warn("Environment file not found, using system environment",
			"file", envFile)
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}

	absPath, _ := filepath.Abs(envFile)
	slog.Info("Environment file loaded", "file", absPath)
	return nil
}

func (c *Config) Validate() error {
	var errors []string

	// App validation
	if c.App.Port < 1 || c.App.Port > 65535 {
		errors = append(errors, "invalid port number")
	}

	// Database validation
	if c.Database.Host == "" {
		errors = append(errors, "database host is required")
	}
	if c.Database.Service == "" {
		errors = append(errors, "database service is required")
	}
	if c.Database.User == "" {
		errors = append(errors, "database user is required")
	}
	if c.Database.Password == "" {
		errors = append(errors, "database password is required")
	}

	// JWT validation
	if len(c.JWT.Secret) < 32 {
		errors = append(errors, "JWT secret must be at least 32 characters")
	}
	if c.JWT.Expiry < 5*time.Minute {
		errors = append(errors, "JWT expiry must be at least 5m")
	}

	if _, err := time.LoadLocation(c.Club.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("unknown club timezone %q", c.Club.Timezone))
	}

	// Photos are mandatory in production; elsewhere uploads fail until credentials are set
	if c.IsProduction() && !c.Cloudinary.IsConfigured() {
		errors = append(errors, "cloudinary credentials are required in production")
	}
	if c.Photo.MaxAttempts < 1 {
		errors = append(errors, "photo upload attempts must be at least 1")
	}

	if c.RateLimit.LoginMax < 1 {
		errors = append(errors, "login rate limit must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, ", "))
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "local" || c.App.Env == "dev"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "prod" || c.App.Env == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if defaultDuration, err := time.ParseDuration(defaultValue); err == nil {
		return defaultDuration
	}
	return 0
}
