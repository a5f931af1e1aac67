package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/punsnhoses-dot/my-event-map/internal/adapter/csvsource"
	"github.com/punsnhoses-dot/my-event-map/internal/adapter/httpapi"
	"github.com/punsnhoses-dot/my-event-map/internal/config"
	"github.com/punsnhoses-dot/my-event-map/internal/icon"
	"github.com/punsnhoses-dot/my-event-map/internal/ingest"
	"github.com/punsnhoses-dot/my-event-map/internal/observability"
)

func main() {
	// Best-effort .env loading for local runs.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := csvsource.NewReader(cfg.CSVURL, cfg.CSVFile, logger)
	prober := icon.NewHTTPProber(cfg.IconBaseURL, cfg.IconProbeTimeout)
	newResolver := func() ingest.Resolver {
		return icon.NewResolver(prober, cfg.IconProbeTimeout, logger, metrics)
	}

	svc := ingest.New(source, newResolver, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial ingestion. A failure here is not fatal: the service stays up,
	// unready, and can be refreshed once the source recovers.
	if _, err := svc.Ingest(ctx); err != nil {
		logger.Warn("initial ingestion failed", "error", err)
	}

	var scheduler *cron.Cron
	if cfg.RefreshCron != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.RefreshCron, func() {
			if _, err := svc.Ingest(ctx); err != nil {
				logger.Warn("scheduled ingestion failed", "error", err)
			}
		}); err != nil {
			logger.Error("invalid REFRESH_CRON", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		logger.Info("refresh schedule active", "cron", cfg.RefreshCron)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
