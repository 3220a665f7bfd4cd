package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"hireline/internal/audit"
	"hireline/internal/insights"
	"hireline/internal/platform/config"
	"hireline/internal/platform/httpserver"
	"hireline/internal/platform/logger"
	"hireline/internal/platform/metrics"
	"hireline/internal/platform/postgres"
	platformredis "hireline/internal/platform/redis"
	"hireline/internal/ratelimit"
	reporthandler "hireline/internal/report/handler"
	reportservice "hireline/internal/report/service"
	"hireline/internal/report/store"
	httptransport "hireline/internal/transport/http"
	"hireline/pkg/platform/tx"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
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

	m := metrics.New()

	submitService := reportservice.New(
		store.NewPostgresEmployerRefStore(db),
		store.NewPostgresReportStore(db),
		store.NewPostgresContactStore(db),
		audit.NewPostgresStore(db),
		tx.SQLRunner{DB: db},
		log,
		reportservice.WithMetrics(m),
	)
	insightsService := insights.NewService(insights.NewPostgresStore(db))

	// Redis is optional: without it the limiter falls back to a
	// process-local window.
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, using in-memory rate limiting", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient.Client, cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	}
	limitMW := ratelimit.NewMiddleware(limiter, log,
		ratelimit.WithDisabled(cfg.SubmitRateLimit <= 0),
	)

	reports := reporthandler.New(
		submitService,
		insightsService,
		store.NewPostgresExperienceStore(db),
		log,
		reporthandler.WithMetrics(m),
		reporthandler.WithRateLimit(limitMW.Limit),
	)

	router := httptransport.NewRouter(log, reports)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting hireline", "addr", cfg.Addr, "env", cfg.Env)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
