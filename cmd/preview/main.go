package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/use-agent/preview/api"
	"github.com/use-agent/preview/config"
	"github.com/use-agent/preview/engine"
	"github.com/use-agent/preview/logging"
	"github.com/use-agent/preview/metrics"
	"github.com/use-agent/preview/scraper"
	"github.com/use-agent/preview/service"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("preview starting",
		"addr", cfg.Server.Addr(),
		"mode", cfg.Server.Mode,
		"fetchTimeout", cfg.Fetch.Timeout,
		"chromeTLS", cfg.Fetch.ChromeTLS,
	)

	// ── 3. Metrics registry ─────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// ── 4. Fetch engines and scraper ────────────────────────────────
	dispatcher := engine.NewFromConfig(cfg.Fetch)
	defer dispatcher.Close()

	sc := scraper.New(dispatcher,
		scraper.WithTimeout(cfg.Fetch.Timeout),
		scraper.WithMetrics(m),
	)
	svc := service.New(sc)

	// ── 5. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(svc, cfg, reg, time.Now())

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// In-flight requests get one fetch timeout to finish.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Fetch.Timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("preview stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	slog.SetDefault(slog.New(logging.NewHandler(cfg, os.Stdout)))
}
