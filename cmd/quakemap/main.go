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

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/quake-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/mapview"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// warmUpRetry spaces warm-up attempts while both feeds are failing.
const warmUpRetry = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Marker publication is feature-flagged via KAFKA_ENABLED.
	var publisher mapview.MarkerPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.PublishEnabled.Set(1)
		logger.Info("marker publication enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("marker publication disabled")
	}

	client := feed.NewClient(cfg.FeedTimeout, logger)
	loader := mapview.NewLoader(client, cfg.EarthquakeFeedURL, cfg.PlateFeedURL, publisher, logger, metrics)

	srv, err := httpadapter.NewServer(cfg.HTTPAddr, loader, cfg.LoadOrder, logger)
	if err != nil {
		logger.Error("failed to create http server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Readiness must not wait for traffic that only arrives once /readyz passes.
	go func() {
		if err := mapview.WarmUp(ctx, loader, cfg.LoadOrder, warmUpRetry); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("warm-up stopped", "error", err)
		}
	}()

	logger.Info("quake map serving",
		"load_order", cfg.LoadOrder,
		"earthquake_feed", cfg.EarthquakeFeedURL,
		"plate_feed", cfg.PlateFeedURL,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
