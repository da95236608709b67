// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	OAuth       OAuthConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Pagination  PaginationConfig
	AWS         AWSConfig
	Storage     StorageConfig
	Admin       AdminConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Driver       string // postgres | sqlite
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	Path         string // sqlite file or URI
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey  string
	SessionTTL int // in hours
	Issuer     string
	CookieName string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	GeneralPerSecond float64
	GeneralBurst     int
	AuthPerMinute    int
	AuthBurst        int
}

type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type StorageConfig struct {
	LocalPath     string
	PublicBaseURL string
}

type AdminConfig struct {
	Email    string
	Name     string
	Password string
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "4000"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "product_inventory"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			Path:         getEnv("DB_PATH", "inventory.db"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET", defaultJWTSecret),
			SessionTTL: getEnvAsInt("JWT_SESSION_TTL", 168), // 7 days
			Issuer:     getEnv("JWT_ISSUER", "product-inventory"),
			CookieName: getEnv("SESSION_COOKIE_NAME", "token"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:4000/auth/google/callback"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		RateLimit: RateLimitConfig{
			GeneralPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
			GeneralBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
			AuthPerMinute:    getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 10),
			AuthBurst:        getEnvAsInt("AUTH_RATE_LIMIT_BURST", 5),
		},
		Pagination: PaginationConfig{
			DefaultPageSize: getEnvAsInt("PAGINATION_DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:     getEnvAsInt("PAGINATION_MAX_PAGE_SIZE", 100),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "product-inventory-images"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Storage: StorageConfig{
			LocalPath:     getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:4000/uploads"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@example.com"),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.IsProduction() {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Driver == "postgres" && c.Database.Password == "" && c.IsProduction() {
		return fmt.Errorf("database password is required in production")
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Pagination.DefaultPageSize < 1 || c.Pagination.MaxPageSize < c.Pagination.DefaultPageSize {
		return fmt.Errorf("invalid pagination settings: default=%d max=%d",
			c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GoogleOAuthEnabled reports whether both Google client credentials are set.
func (c *Config) GoogleOAuthEnabled() bool {
	return c.OAuth.GoogleClientID != "" && c.OAuth.GoogleClientSecret != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
