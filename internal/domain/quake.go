package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Quake is one earthquake event parsed from the USGS feed.
type Quake struct {
	ID        string    `json:"id"`
	Lon       float64   `json:"lon"`
	Lat       float64   `json:"lat"`
	Depth     float64   `json:"depth"`
	Magnitude float64   `json:"mag"`
	Place     string    `json:"place"`
	Time      time.Time `json:"time,omitzero"`
	URL       string    `json:"url,omitempty"`
}

// Point returns the quake epicenter in [lon, lat] order.
func (q Quake) Point() orb.Point {
	return orb.Point{q.Lon, q.Lat}
}

// USGS feed wire types. Coordinates stay raw because non-Point geometries carry
// nested arrays that would fail to decode into []float64.
type rawFeatureCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	ID         string             `json:"id"`
	Geometry   *rawGeometry       `json:"geometry"`
	Properties rawQuakeProperties `json:"properties"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type rawQuakeProperties struct {
	Mag   *float64 `json:"mag"`
	Place string   `json:"place"`
	Time  *int64   `json:"time"` // milliseconds since epoch
	URL   string   `json:"url"`
}

// ParseQuakes decodes a USGS FeatureCollection. It returns the quakes that could be
// placed and sized, and the number of features skipped as malformed.
func ParseQuakes(data []byte) ([]Quake, int, error) {
	var fc rawFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, 0, fmt.Errorf("parse earthquake feed: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, 0, fmt.Errorf("parse earthquake feed: unexpected type %q", fc.Type)
	}

	quakes := make([]Quake, 0, len(fc.Features))
	skipped := 0
	for _, f := range fc.Features {
		q, ok := quakeFromFeature(f)
		if !ok {
			skipped++
			continue
		}
		quakes = append(quakes, q)
	}
	return quakes, skipped, nil
}

func quakeFromFeature(f rawFeature) (Quake, bool) {
	if f.Geometry == nil || f.Geometry.Type != "Point" || f.Properties.Mag == nil {
		return Quake{}, false
	}

	var coords []float64
	if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil || len(coords) < 3 {
		return Quake{}, false
	}

	q := Quake{
		ID:        f.ID,
		Lon:       coords[0],
		Lat:       coords[1],
		Depth:     coords[2],
		Magnitude: *f.Properties.Mag,
		Place:     f.Properties.Place,
		URL:       f.Properties.URL,
	}
	if f.Properties.Time != nil {
		q.Time = time.UnixMilli(*f.Properties.Time).UTC()
	}
	return q, true
}
