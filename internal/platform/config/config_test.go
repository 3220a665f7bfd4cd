package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HIRELINE_ADDR", "")
	t.Setenv("HIRELINE_ENV", "")
	t.Setenv("SUBMIT_RATE_LIMIT", "")
	t.Setenv("SUBMIT_RATE_WINDOW", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10, cfg.SubmitRateLimit)
	assert.Equal(t, time.Minute, cfg.SubmitRateWindow)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HIRELINE_ADDR", ":9000")
	t.Setenv("HIRELINE_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/hireline")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("SUBMIT_RATE_LIMIT", "25")
	t.Setenv("SUBMIT_RATE_WINDOW", "30s")

	cfg := FromEnv()

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "postgres://localhost/hireline", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 25, cfg.SubmitRateLimit)
	assert.Equal(t, 30*time.Second, cfg.SubmitRateWindow)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SUBMIT_RATE_LIMIT", "lots")
	t.Setenv("SUBMIT_RATE_WINDOW", "soon")

	cfg := FromEnv()

	assert.Equal(t, 10, cfg.SubmitRateLimit)
	assert.Equal(t, time.Minute, cfg.SubmitRateWindow)
}
