package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	HTTP      HTTPConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Alerts    AlertsConfig
	Reporting ReportingConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// HTTPConfig holds transport-level policies applied by the router.
type HTTPConfig struct {
	CORSAllowedOrigins []string
	RateLimitWindow    time.Duration
	RateLimitMax       int64
	MaxBodyBytes       int64
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// RedisConfig holds the optional Redis backend for rate limiting.
type RedisConfig struct {
	Addr string
}

// AlertsConfig holds the optional low-stock alert webhook endpoint.
type AlertsConfig struct {
	WebhookURL string
}

// ReportingConfig holds scheduler-related settings. An empty cron schedule
// disables the scheduled report.
type ReportingConfig struct {
	CronSchedule string
}

// LoggingConfig holds logger options.
type LoggingConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	rateLimitWindow, err := getenvDuration("RATE_LIMIT_WINDOW", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	rateLimitMax, err := getenvInt64("RATE_LIMIT_MAX", 100)
	if err != nil {
		return nil, err
	}

	maxBodyBytes, err := getenvInt64("MAX_BODY_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		HTTP: HTTPConfig{
			CORSAllowedOrigins: []string{getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")},
			RateLimitWindow:    rateLimitWindow,
			RateLimitMax:       rateLimitMax,
			MaxBodyBytes:       maxBodyBytes,
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockroom"),
		},
		Redis: RedisConfig{
			Addr: os.Getenv("REDIS_ADDR"),
		},
		Alerts: AlertsConfig{
			WebhookURL: os.Getenv("LOW_STOCK_WEBHOOK_URL"),
		},
		Reporting: ReportingConfig{
			CronSchedule: os.Getenv("REPORT_CRON_SCHEDULE"),
		},
		Logging: LoggingConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.HTTP.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be a positive duration")
	}

	if c.HTTP.RateLimitMax <= 0 {
		return errors.New("RATE_LIMIT_MAX must be positive")
	}

	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 15m): %w", key, err)
	}
	return parsed, nil
}

func getenvInt64(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}
