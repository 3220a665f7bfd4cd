package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"hireline/internal/platform/config"
	"hireline/internal/platform/logger"
	"hireline/internal/platform/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Env)
	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")
}
