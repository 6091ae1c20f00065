package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for layer loading.
type Metrics struct {
	// Feed metrics.
	FeedRequests *prometheus.CounterVec   // labels: layer={earthquakes,plates}, outcome={success,fetch_error,parse_error}
	FeedDuration *prometheus.HistogramVec // labels: layer

	// Rendering metrics.
	FeaturesRendered  *prometheus.CounterVec // labels: layer
	MalformedFeatures prometheus.Counter
	SessionsLoaded    *prometheus.CounterVec // labels: order={concurrent,sequential}

	// Publishing metrics.
	MarkersPublished prometheus.Counter
	PublishErrors    prometheus.Counter
	PublishEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "feed_requests_total",
			Help:      "Upstream feed loads by layer and outcome.",
		}, []string{"layer", "outcome"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "feed_duration_seconds",
			Help:      "Upstream feed fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"layer"}),
		FeaturesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "features_rendered_total",
			Help:      "Features added to a layer group, by layer.",
		}, []string{"layer"}),
		MalformedFeatures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "malformed_features_total",
			Help:      "Earthquake features skipped because they could not be placed or sized.",
		}),
		SessionsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "sessions_loaded_total",
			Help:      "Full map sessions loaded, by load order.",
		}, []string{"order"}),
		MarkersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "markers_published_total",
			Help:      "Earthquake markers written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "publish_errors_total",
			Help:      "Failed marker publication batches.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "publish_enabled",
			Help:      "1 when marker publication to Kafka is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedDuration,
		m.FeaturesRendered,
		m.MalformedFeatures,
		m.SessionsLoaded,
		m.MarkersPublished,
		m.PublishErrors,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FeedRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "feed_requests_total"}, []string{"layer", "outcome"}),
		FeedDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "quake_map", Name: "feed_duration_seconds"}, []string{"layer"}),
		FeaturesRendered:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "features_rendered_total"}, []string{"layer"}),
		MalformedFeatures: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "malformed_features_total"}),
		SessionsLoaded:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "sessions_loaded_total"}, []string{"order"}),
		MarkersPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "markers_published_total"}),
		PublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "publish_errors_total"}),
		PublishEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "publish_enabled"}),
	}
}
