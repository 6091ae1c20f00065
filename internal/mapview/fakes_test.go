package mapview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

const (
	testQuakeURL = "https://feeds.test/quakes.geojson"
	testPlateURL = "https://feeds.test/plates.json"
)

const quakeFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type":"Feature","id":"ci1","geometry":{"type":"Point","coordinates":[-117.5,34.1,8.2]},
     "properties":{"mag":3.1,"place":"10 km SE of Ontario, CA","time":1709294400000,"url":"https://earthquake.usgs.gov/ci1"}},
    {"type":"Feature","id":"us2","geometry":{"type":"Point","coordinates":[142.3,38.2,95]},
     "properties":{"mag":6.0,"place":"off the east coast of Honshu, Japan","time":1709298000000}},
    {"type":"Feature","id":"bad","geometry":null,"properties":{"mag":2.7,"place":"nowhere"}}
  ]
}`

const plateFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type":"Feature","properties":{"Name":"AF-AN","PlateA":"AF","PlateB":"AN"},
     "geometry":{"type":"LineString","coordinates":[[-0.4,-54.8],[0.1,-54.5],[1.2,-54.0]]}},
    {"type":"Feature","properties":null,
     "geometry":{"type":"LineString","coordinates":[[140.0,35.0],[141.0,37.0]]}}
  ]
}`

// fakeFetcher serves canned bodies per URL and counts requests.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: map[string]string{testQuakeURL: quakeFixture, testPlateURL: plateFixture},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeFetcher) FetchFeed(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[url]++
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("feed error: status 404: not found")
	}
	return []byte(body), nil
}

func (f *fakeFetcher) fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

type fakePublisher struct {
	mu      sync.Mutex
	err     error
	batches [][]domain.Marker
}

func (p *fakePublisher) PublishMarkers(_ context.Context, markers []domain.Marker) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, markers)
	return nil
}

func newTestLoader(f domain.FeedFetcher, pub MarkerPublisher) (*Loader, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(f, testQuakeURL, testPlateURL, pub, logger, m), m
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
