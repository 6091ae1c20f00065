package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultEarthquakeFeedURL, cfg.EarthquakeFeedURL)
	assert.Equal(t, DefaultPlateFeedURL, cfg.PlateFeedURL)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, LoadOrderConcurrent, cfg.LoadOrder)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "earthquake-markers", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("EARTHQUAKE_FEED_URL", "http://localhost:1/quakes.geojson")
	t.Setenv("PLATE_FEED_URL", "http://localhost:1/plates.json")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("LOAD_ORDER", "sequential")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-markers")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:1/quakes.geojson", cfg.EarthquakeFeedURL)
	assert.Equal(t, "http://localhost:1/plates.json", cfg.PlateFeedURL)
	assert.Equal(t, 3*time.Second, cfg.FeedTimeout)
	assert.Equal(t, LoadOrderSequential, cfg.LoadOrder)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-markers", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFeedTimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-5s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("FEED_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "FEED_TIMEOUT")
		})
	}
}

func TestLoad_InvalidLoadOrder(t *testing.T) {
	t.Setenv("LOAD_ORDER", "random")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOAD_ORDER")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaBrokersImplyEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBroker)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBroker)
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestValidateLoadOrder(t *testing.T) {
	assert.NoError(t, ValidateLoadOrder(LoadOrderConcurrent))
	assert.NoError(t, ValidateLoadOrder(LoadOrderSequential))

	for _, order := range []string{"", "Concurrent", "parallel"} {
		err := ValidateLoadOrder(order)
		require.Error(t, err, order)
		assert.Contains(t, err.Error(), "invalid load order")
	}
}
