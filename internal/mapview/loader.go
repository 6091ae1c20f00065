package mapview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/paulmach/orb/geojson"
)

// MarkerPublisher receives the markers of every successful earthquake load.
type MarkerPublisher interface {
	PublishMarkers(ctx context.Context, markers []domain.Marker) error
}

// Loader fetches the two feeds and renders them into layer groups. It holds no
// per-load state, so one Loader serves every session.
type Loader struct {
	fetcher   domain.FeedFetcher
	quakeURL  string
	plateURL  string
	publisher MarkerPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// NewLoader creates a Loader. Pass a nil publisher to disable marker publication.
func NewLoader(fetcher domain.FeedFetcher, quakeURL, plateURL string, publisher MarkerPublisher, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher:   fetcher,
		quakeURL:  quakeURL,
		plateURL:  plateURL,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once any layer has loaded successfully.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if !l.ready.Load() {
		return errors.New("no feed has loaded successfully yet")
	}
	return nil
}

// LoadEarthquakes fetches the earthquake feed and fills group with one styled circle
// marker per placeable quake. On failure the group is marked unavailable and the
// error is returned.
func (l *Loader) LoadEarthquakes(ctx context.Context, group *LayerGroup) error {
	body, err := l.fetch(ctx, domain.LayerEarthquakes, l.quakeURL)
	if err != nil {
		return l.fail(group, err)
	}

	quakes, skipped, err := domain.ParseQuakes(body)
	if err != nil {
		l.metrics.FeedRequests.WithLabelValues(domain.LayerEarthquakes, "parse_error").Inc()
		l.logger.Warn("earthquake feed unreadable", "url", l.quakeURL, "error", err)
		return l.fail(group, err)
	}
	if skipped > 0 {
		l.metrics.MalformedFeatures.Add(float64(skipped))
		l.logger.Warn("skipped malformed earthquake features", "skipped", skipped)
	}

	markers := make([]domain.Marker, 0, len(quakes))
	features := make([]*geojson.Feature, 0, len(quakes))
	for _, q := range quakes {
		m := domain.NewMarker(q)
		markers = append(markers, m)
		features = append(features, markerFeature(m))
	}

	if err := group.Fill(features, skipped); err != nil {
		return err
	}
	l.loaded(domain.LayerEarthquakes, len(features))
	l.publish(ctx, markers)
	return nil
}

// LoadPlates fetches the plate boundary feed and fills group with uniformly styled
// polylines. On failure the group is marked unavailable and the error is returned.
func (l *Loader) LoadPlates(ctx context.Context, group *LayerGroup) error {
	body, err := l.fetch(ctx, domain.LayerPlates, l.plateURL)
	if err != nil {
		return l.fail(group, err)
	}

	fc, err := domain.ParsePlates(body)
	if err != nil {
		l.metrics.FeedRequests.WithLabelValues(domain.LayerPlates, "parse_error").Inc()
		l.logger.Warn("plate feed unreadable", "url", l.plateURL, "error", err)
		return l.fail(group, err)
	}

	for _, f := range fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		f.Properties["style"] = domain.PlateLineStyle
	}

	if err := group.Fill(fc.Features, 0); err != nil {
		return err
	}
	l.loaded(domain.LayerPlates, len(fc.Features))
	return nil
}

func (l *Loader) fetch(ctx context.Context, layer, url string) ([]byte, error) {
	start := time.Now()
	body, err := l.fetcher.FetchFeed(ctx, url)
	l.metrics.FeedDuration.WithLabelValues(layer).Observe(time.Since(start).Seconds())
	if err != nil {
		l.metrics.FeedRequests.WithLabelValues(layer, "fetch_error").Inc()
		l.logger.Warn("feed fetch failed", "layer", layer, "url", url, "error", err)
		return nil, fmt.Errorf("fetch %s: %w", layer, err)
	}
	return body, nil
}

func (l *Loader) fail(group *LayerGroup, err error) error {
	if ferr := group.Fail(err); ferr != nil {
		return errors.Join(err, ferr)
	}
	return err
}

func (l *Loader) loaded(layer string, n int) {
	l.metrics.FeedRequests.WithLabelValues(layer, "success").Inc()
	l.metrics.FeaturesRendered.WithLabelValues(layer).Add(float64(n))
	l.ready.Store(true)
	l.logger.Info("layer loaded", "layer", layer, "features", n)
}

// publish hands markers to the publisher. Failures are logged and counted but never
// fail the load: the map does not depend on the topic.
func (l *Loader) publish(ctx context.Context, markers []domain.Marker) {
	if l.publisher == nil || len(markers) == 0 {
		return
	}
	if err := l.publisher.PublishMarkers(ctx, markers); err != nil {
		l.metrics.PublishErrors.Inc()
		l.logger.Warn("publish markers failed", "markers", len(markers), "error", err)
		return
	}
	l.metrics.MarkersPublished.Add(float64(len(markers)))
}

// markerFeature converts a marker into a GeoJSON point whose properties carry the
// popup and path style the page script binds to the circle marker.
func markerFeature(m domain.Marker) *geojson.Feature {
	f := geojson.NewFeature(m.Quake.Point())
	f.ID = m.Quake.ID
	f.Properties["id"] = m.Quake.ID
	f.Properties["mag"] = m.Quake.Magnitude
	f.Properties["depth"] = m.Quake.Depth
	f.Properties["place"] = m.Quake.Place
	if !m.Quake.Time.IsZero() {
		f.Properties["time"] = m.Quake.Time.UnixMilli()
	}
	if m.Quake.URL != "" {
		f.Properties["url"] = m.Quake.URL
	}
	f.Properties["popup"] = m.Popup
	f.Properties["style"] = m.Style
	return f
}
