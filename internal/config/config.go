package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Default upstream feeds.
const (
	DefaultEarthquakeFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/2.5_week.geojson"
	DefaultPlateFeedURL      = "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_boundaries.json"
)

// Layer load orderings accepted by LOAD_ORDER.
const (
	// LoadOrderConcurrent fetches both feeds independently; either may fail alone.
	LoadOrderConcurrent = "concurrent"
	// LoadOrderSequential fetches plates only after earthquakes load. A failed
	// earthquake fetch leaves the plate layer pending and never requests it.
	LoadOrderSequential = "sequential"
)

// ValidateLoadOrder rejects anything but the two known orderings.
func ValidateLoadOrder(order string) error {
	if order != LoadOrderConcurrent && order != LoadOrderSequential {
		return fmt.Errorf("invalid load order %q: want %q or %q", order, LoadOrderConcurrent, LoadOrderSequential)
	}
	return nil
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream feeds.
	EarthquakeFeedURL string
	PlateFeedURL      string
	FeedTimeout       time.Duration
	LoadOrder         string

	// Optional Kafka publication of loaded earthquake markers.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FEED_TIMEOUT", "10s"))
	if err != nil || feedTimeout <= 0 {
		return nil, errors.New("invalid FEED_TIMEOUT")
	}

	brokers := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled := brokers != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		EarthquakeFeedURL: sharedcfg.EnvOrDefault("EARTHQUAKE_FEED_URL", DefaultEarthquakeFeedURL),
		PlateFeedURL:      sharedcfg.EnvOrDefault("PLATE_FEED_URL", DefaultPlateFeedURL),
		FeedTimeout:       feedTimeout,
		LoadOrder:         sharedcfg.EnvOrDefault("LOAD_ORDER", LoadOrderConcurrent),

		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-markers"),
		KafkaEnabled: kafkaEnabled,
	}
	if brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if err := ValidateLoadOrder(cfg.LoadOrder); err != nil {
		return nil, fmt.Errorf("LOAD_ORDER: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}
