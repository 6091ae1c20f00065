package domain

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// ParsePlates decodes the plate boundary FeatureCollection. Geometry is kept as-is;
// every feature is drawn with PlateLineStyle regardless of its properties.
func ParsePlates(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse plate feed: %w", err)
	}
	return fc, nil
}
