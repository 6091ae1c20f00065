// Command snapshot loads one map session against the configured feeds and writes
// the result as JSON.
//
// Usage:
//
//	go run ./cmd/snapshot -out snapshot.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/mapview"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

func main() {
	out := flag.String("out", "snapshot.json", "output file path, or - for stdout")
	order := flag.String("order", "", "load order override: concurrent or sequential")
	flag.Parse()

	if err := run(*out, *order); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(out, order string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if order != "" {
		if err := config.ValidateLoadOrder(order); err != nil {
			return fmt.Errorf("-order: %w", err)
		}
		cfg.LoadOrder = order
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := feed.NewClient(cfg.FeedTimeout, logger)
	loader := mapview.NewLoader(client, cfg.EarthquakeFeedURL, cfg.PlateFeedURL, nil, logger, metrics)

	session, err := mapview.NewSession(loader, cfg.LoadOrder)
	if err != nil {
		return err
	}
	session.Load(ctx)
	snap := session.Snapshot()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if out == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // snapshot is not sensitive
		return fmt.Errorf("write %s: %w", out, err)
	}

	for _, l := range snap.Layers {
		logger.Info("layer", "layer", l.Name, "status", l.State, "count", l.Count, "skipped", l.Skipped)
	}
	logger.Info("snapshot written", "path", out)
	return nil
}
