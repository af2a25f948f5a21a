package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("testdata/absent.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "stockroom", cfg.MongoDB.DBName)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.HTTP.RateLimitWindow)
	assert.Equal(t, int64(100), cfg.HTTP.RateLimitMax)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodyBytes)
	assert.Empty(t, cfg.Reporting.CronSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("RATE_LIMIT_MAX", "25")
	t.Setenv("REPORT_CRON_SCHEDULE", "0 8 * * *")

	cfg, err := Load("testdata/absent.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.HTTP.RateLimitWindow)
	assert.Equal(t, int64(25), cfg.HTTP.RateLimitMax)
	assert.Equal(t, "0 8 * * *", cfg.Reporting.CronSchedule)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	_, err := Load("testdata/absent.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_WINDOW")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: "8080"},
		MongoDB: MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "stockroom"},
		HTTP: HTTPConfig{
			RateLimitWindow: time.Minute,
			RateLimitMax:    10,
			MaxBodyBytes:    1024,
		},
	}
	require.NoError(t, cfg.Validate())

	cfg.MongoDB.URI = ""
	assert.EqualError(t, cfg.Validate(), "MONGODB_URI must be provided")

	cfg.MongoDB.URI = "mongodb://localhost:27017"
	cfg.HTTP.RateLimitMax = 0
	assert.EqualError(t, cfg.Validate(), "RATE_LIMIT_MAX must be positive")
}
