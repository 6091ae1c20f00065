package domain

import "context"

// Layer names used in routes, metrics labels, and published message headers.
const (
	LayerEarthquakes = "earthquakes"
	LayerPlates      = "plates"
)

// FeedFetcher retrieves a remote GeoJSON document.
type FeedFetcher interface {
	// FetchFeed issues a GET for url and returns the response body.
	FetchFeed(ctx context.Context, url string) ([]byte, error)
}
