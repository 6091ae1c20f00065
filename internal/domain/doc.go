// Package domain models the earthquake and plate boundary data drawn on the map.
//
// # Data Sources
//
// Earthquakes come from the USGS real-time summary feed, a GeoJSON FeatureCollection
// published at https://earthquake.usgs.gov/earthquakes/feed/v1.0/. The default feed
// is "2.5_week": every event of magnitude 2.5 or greater in the past seven days.
//
// Plate boundaries come from the PB2002 model (Bird, 2003) as republished in GeoJSON
// by https://github.com/fraxen/tectonicplates. Each feature is one boundary segment
// (LineString) between two named plates.
//
// # USGS Feed Conventions
//
// Coordinates:
//
//	[longitude, latitude, depth]  →  e.g. [-117.59, 35.77, 8.41]
//	Depth is in kilometers below the WGS-84 ellipsoid and may be negative for
//	shallow events located above sea level.
//
// Properties consumed:
//
//	mag    magnitude; may be exactly 0 and, for some reviewed events, null
//	place  free-text region description, e.g. "10 km SW of Searles Valley, CA"
//	time   event origin time in milliseconds since the Unix epoch
//	url    event page on earthquake.usgs.gov
//
// # Styling
//
// Depth is mapped to one of six colors by [ColorForDepth] using the shared
// [DepthBands] table, which also backs the legend built by [LegendRows]:
//
//	≤10 km #98ee00 | >10 #d4ee00 | >30 #eecc00 | >50 #ee9c00 | >70 #ea822c | >90 #ea2c2c
//
// Magnitude is mapped to a circle radius by [RadiusForMagnitude]: four pixels per
// unit of magnitude, with a one pixel radius for magnitude exactly 0. Negative
// magnitudes (microquakes) yield a negative radius, passed through unchanged.
//
// # Malformed Features
//
// A feature without a Point geometry, with fewer than three coordinates, or with a
// null magnitude cannot be placed or sized and is skipped by [ParseQuakes]. The
// number of skipped features is reported alongside the parsed quakes.
package domain
