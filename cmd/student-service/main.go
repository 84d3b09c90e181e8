// The student service owns submissions. Submitting verifies the referenced
// assignment with the teacher service before the local insert.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus/internal/platform/config"
	"campus/internal/platform/database"
	"campus/internal/platform/health"
	"campus/internal/platform/logger"
	"campus/internal/platform/metrics"
	"campus/internal/platform/middleware"
	"campus/internal/platform/outbound"
	"campus/internal/platform/server"
	"campus/internal/submission/handler"
	"campus/internal/submission/store"
	"campus/internal/token"
	"campus/internal/verify"
	"campus/pkg/platform/circuit"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.FromEnv("student-service")
	log := logger.New(cfg.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close() //nolint:errcheck // process is exiting

	m := metrics.New("campus_student")
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	// One breaker per target for the process lifetime; every request shares it.
	client := outbound.New(log,
		outbound.WithTarget(outbound.TargetTeacher, cfg.TeacherBaseURL, circuit.New(outbound.TargetTeacher)),
		outbound.WithMetrics(m),
	)
	verifier := verify.New(client, log, m)
	submissions := handler.New(store.NewPostgres(pool.DB()), verifier, log, m)

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
	submissions.Register(r, tokens)

	if err := server.Run(ctx, cfg.Addr, r, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
