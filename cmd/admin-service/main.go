// The admin service owns courses. Its course read endpoint doubles as the
// existence-check target for the teacher service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus/internal/course/handler"
	"campus/internal/course/store"
	"campus/internal/platform/config"
	"campus/internal/platform/database"
	"campus/internal/platform/health"
	"campus/internal/platform/logger"
	"campus/internal/platform/metrics"
	"campus/internal/platform/middleware"
	"campus/internal/platform/server"
	"campus/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.FromEnv("admin-service")
	log := logger.New(cfg.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close() //nolint:errcheck // process is exiting

	m := metrics.New("campus_admin")
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	courses := handler.New(store.NewPostgres(pool.DB()), log, m)

	healthHandler := health.New(cfg.Name, cfg.Environment)
	healthHandler.RegisterCheck("database", pool.Health)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	courses.Register(r, tokens)

	if err := server.Run(ctx, cfg.Addr, r, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
