package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr        string
	Env         string
	DatabaseURL string
	RedisURL    string

	// SubmitRateLimit caps submissions per client IP per window. Zero
	// disables rate limiting entirely (tests, local dev).
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:             getEnv("HIRELINE_ADDR", ":8080"),
		Env:              getEnv("HIRELINE_ENV", "development"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		SubmitRateLimit:  getEnvInt("SUBMIT_RATE_LIMIT", 10),
		SubmitRateWindow: getEnvDuration("SUBMIT_RATE_WINDOW", time.Minute),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
