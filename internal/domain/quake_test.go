package domain

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQuakeFeed = `{
  "type": "FeatureCollection",
  "metadata": {"generated": 1714150000000, "title": "USGS Magnitude 2.5+ Earthquakes, Past Week"},
  "features": [
    {"type": "Feature", "id": "ci40789071",
     "properties": {"mag": 4.2, "place": "10 km SW of Searles Valley, CA", "time": 1714147200000, "url": "https://earthquake.usgs.gov/earthquakes/eventpage/ci40789071"},
     "geometry": {"type": "Point", "coordinates": [-117.59, 35.77, 8.41]}},
    {"type": "Feature", "id": "us7000m0xl",
     "properties": {"mag": 0, "place": "Offshore", "time": null},
     "geometry": {"type": "Point", "coordinates": [142.1, 38.2, -1.5]}},
    {"type": "Feature", "id": "nullmag",
     "properties": {"mag": null, "place": "Nowhere"},
     "geometry": {"type": "Point", "coordinates": [0, 0, 10]}},
    {"type": "Feature", "id": "nogeom",
     "properties": {"mag": 3.1, "place": "Nowhere"},
     "geometry": null},
    {"type": "Feature", "id": "flat",
     "properties": {"mag": 3.1, "place": "Nowhere"},
     "geometry": {"type": "Point", "coordinates": [0, 0]}},
    {"type": "Feature", "id": "line",
     "properties": {"mag": 3.1, "place": "Nowhere"},
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}
  ]
}`

func TestParseQuakes(t *testing.T) {
	quakes, skipped, err := ParseQuakes([]byte(testQuakeFeed))
	require.NoError(t, err)

	require.Len(t, quakes, 2)
	assert.Equal(t, 4, skipped)

	first := quakes[0]
	assert.Equal(t, "ci40789071", first.ID)
	assert.Equal(t, -117.59, first.Lon)
	assert.Equal(t, 35.77, first.Lat)
	assert.Equal(t, 8.41, first.Depth)
	assert.Equal(t, 4.2, first.Magnitude)
	assert.Equal(t, "10 km SW of Searles Valley, CA", first.Place)
	assert.Equal(t, time.UnixMilli(1714147200000).UTC(), first.Time)
	assert.Equal(t, orb.Point{-117.59, 35.77}, first.Point())

	second := quakes[1]
	assert.Equal(t, 0.0, second.Magnitude)
	assert.Equal(t, -1.5, second.Depth)
	assert.True(t, second.Time.IsZero())
}

func TestParseQuakes_Errors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, _, err := ParseQuakes([]byte("{not json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse earthquake feed")
	})

	t.Run("not a feature collection", func(t *testing.T) {
		_, _, err := ParseQuakes([]byte(`{"type":"Feature"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"Feature"`)
	})

	t.Run("empty collection", func(t *testing.T) {
		quakes, skipped, err := ParseQuakes([]byte(`{"type":"FeatureCollection","features":[]}`))
		require.NoError(t, err)
		assert.Empty(t, quakes)
		assert.Zero(t, skipped)
	})
}

func TestPopupText(t *testing.T) {
	quakes, _, err := ParseQuakes([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"t1","properties":{"mag":5,"place":"Test"},"geometry":{"type":"Point","coordinates":[0,0,45]}}
	]}`))
	require.NoError(t, err)
	require.Len(t, quakes, 1)

	assert.Equal(t, "Magnitude: 5<br>Depth: 45<br>Location: Test", PopupText(quakes[0]))
}

func TestPopupText_Formatting(t *testing.T) {
	tests := []struct {
		name     string
		quake    Quake
		expected string
	}{
		{
			name:     "fractional values",
			quake:    Quake{Magnitude: 2.37, Depth: 10.123, Place: "5 km N of Ridgecrest, CA"},
			expected: "Magnitude: 2.37<br>Depth: 10.123<br>Location: 5 km N of Ridgecrest, CA",
		},
		{
			name:     "negative depth",
			quake:    Quake{Magnitude: 3, Depth: -1.2, Place: "Hawaii"},
			expected: "Magnitude: 3<br>Depth: -1.2<br>Location: Hawaii",
		},
		{
			name:     "missing place",
			quake:    Quake{Magnitude: 2.5, Depth: 7},
			expected: "Magnitude: 2.5<br>Depth: 7<br>Location: ",
		},
		{
			name:     "negative zero depth",
			quake:    Quake{Magnitude: 1, Depth: math.Copysign(0, -1), Place: "Oklahoma"},
			expected: "Magnitude: 1<br>Depth: 0<br>Location: Oklahoma",
		},
		{
			name:     "markup in place is escaped",
			quake:    Quake{Magnitude: 2.5, Depth: 7, Place: "<b>x</b>"},
			expected: "Magnitude: 2.5<br>Depth: 7<br>Location: &lt;b&gt;x&lt;/b&gt;",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PopupText(tc.quake))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{5, "5"},
		{4.2, "4.2"},
		{-1.2, "-1.2"},
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-0.25, "-0.25"},
		{690.5, "690.5"},
	}
	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatNumber(tc.in))
		})
	}
}

func TestParsePlates(t *testing.T) {
	data := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"Name":"AF-AN"},"geometry":{"type":"LineString","coordinates":[[-0.4379,-54.8518],[-0.038826,-54.6772]]}},
		{"type":"Feature","properties":{"Name":"AF-SA"},"geometry":{"type":"LineString","coordinates":[[-16.7,-0.5],[-15.9,-1.1],[-14.2,-2.6]]}}
	]}`)

	fc, err := ParsePlates(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, ls, 2)
	assert.Equal(t, "AF-AN", fc.Features[0].Properties.MustString("Name"))
}

func TestParsePlates_Invalid(t *testing.T) {
	_, err := ParsePlates([]byte("<html>rate limited</html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse plate feed")
}
