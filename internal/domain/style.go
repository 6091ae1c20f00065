package domain

// DepthBand is one step of the depth color scale. Lower is exclusive except for the
// first band, which catches everything at or below the second band's bound.
type DepthBand struct {
	Lower float64
	Color string
}

// DepthBands is the single source of truth for depth colors, ordered shallow to deep.
// Both ColorForDepth and the legend read from it.
var DepthBands = []DepthBand{
	{Lower: -10, Color: "#98ee00"},
	{Lower: 10, Color: "#d4ee00"},
	{Lower: 30, Color: "#eecc00"},
	{Lower: 50, Color: "#ee9c00"},
	{Lower: 70, Color: "#ea822c"},
	{Lower: 90, Color: "#ea2c2c"},
}

const (
	markerStrokeColor  = "#000000"
	markerStrokeWeight = 0.5
	minimumRadius      = 1
	radiusPerMagnitude = 4
)

// MarkerStyle is the Leaflet path style for one earthquake circle marker.
type MarkerStyle struct {
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Radius      float64 `json:"radius"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
	Stroke      bool    `json:"stroke"`
	Weight      float64 `json:"weight"`
}

// LineStyle is the Leaflet path style for plate boundary polylines.
type LineStyle struct {
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
}

// PlateLineStyle is applied uniformly to every plate boundary feature.
var PlateLineStyle = LineStyle{Color: "orange", Weight: 2}

// ColorForDepth maps a depth in kilometers to its band color. Comparisons are strict,
// so a depth exactly on a bound belongs to the shallower band. NaN compares false
// against every bound and lands in the shallowest band.
func ColorForDepth(depth float64) string {
	for i := len(DepthBands) - 1; i >= 1; i-- {
		if depth > DepthBands[i].Lower {
			return DepthBands[i].Color
		}
	}
	return DepthBands[0].Color
}

// RadiusForMagnitude returns the marker radius in pixels.
func RadiusForMagnitude(magnitude float64) float64 {
	if magnitude == 0 {
		return minimumRadius
	}
	return magnitude * radiusPerMagnitude
}

// StyleFor computes the marker style of a quake.
func StyleFor(q Quake) MarkerStyle {
	return MarkerStyle{
		FillColor:   ColorForDepth(q.Depth),
		Color:       markerStrokeColor,
		Radius:      RadiusForMagnitude(q.Magnitude),
		Opacity:     1,
		FillOpacity: 1,
		Stroke:      true,
		Weight:      markerStrokeWeight,
	}
}
