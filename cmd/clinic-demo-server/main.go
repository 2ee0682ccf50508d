package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pegaso-health/clinicctl/internal/config"
	"github.com/pegaso-health/clinicctl/internal/demoserver"
	"github.com/pegaso-health/clinicctl/pkg/logging"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting clinic demo server", "port", cfg.DemoServerPort)

	store := demoserver.NewStore()
	if cfg.DemoSeed {
		demoserver.Seed(store, time.Now())
		logger.Info("seed data loaded")
	}

	srv := demoserver.New(store,
		demoserver.WithLogger(logger),
		demoserver.WithMetrics(demoserver.NewRequestMetrics(nil)),
	)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.DemoServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
