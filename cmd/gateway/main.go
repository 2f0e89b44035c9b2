package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"content-assistant/internal/app"
	"content-assistant/internal/httputil"
	"content-assistant/internal/logger"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("failed to load config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	deps, err := app.BuildServer(cfg, log)
	if err != nil {
		log.Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	log.Info("gateway listening", "addr", srv.Addr, "jobs_enabled", deps.JobsEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) *chi.Mux {
	v := httputil.NewValidator()
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/process", processHandler(deps, v))
	r.Post("/api/process/upload", uploadHandler(deps, v))
	r.Post("/api/jobs", createJobHandler(deps, v))
	r.Get("/api/jobs/{id}", getJobHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	return r
}
