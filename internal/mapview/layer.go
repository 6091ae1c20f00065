package mapview

import (
	"errors"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/rtree"
)

// LayerState is the load state of a layer group. The only transitions are
// pending → loaded and pending → unavailable.
type LayerState string

const (
	StatePending     LayerState = "pending"
	StateLoaded      LayerState = "loaded"
	StateUnavailable LayerState = "unavailable"
)

// ErrLayerSettled is returned when a layer group that already left the pending
// state is filled or failed again.
var ErrLayerSettled = errors.New("layer group already settled")

// LayerGroup holds the rendered features of one overlay. It is written once by
// the load that owns it and read any number of times afterwards.
type LayerGroup struct {
	mu       sync.RWMutex
	name     string
	state    LayerState
	err      error
	features []*geojson.Feature
	index    rtree.RTreeG[int]
	skipped  int
	loadedAt time.Time
}

// NewLayerGroup creates an empty pending group.
func NewLayerGroup(name string) *LayerGroup {
	return &LayerGroup{name: name, state: StatePending}
}

// Name returns the layer name, e.g. "earthquakes".
func (g *LayerGroup) Name() string { return g.name }

// Fill adds the rendered features and marks the group loaded.
func (g *LayerGroup) Fill(features []*geojson.Feature, skipped int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePending {
		return ErrLayerSettled
	}
	for i, f := range features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		g.index.Insert([2]float64{b.Min.Lon(), b.Min.Lat()}, [2]float64{b.Max.Lon(), b.Max.Lat()}, i)
	}
	g.features = features
	g.skipped = skipped
	g.state = StateLoaded
	g.loadedAt = domain.Now()
	return nil
}

// Fail marks the group unavailable with the load error.
func (g *LayerGroup) Fail(err error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePending {
		return ErrLayerSettled
	}
	g.err = err
	g.state = StateUnavailable
	g.loadedAt = domain.Now()
	return nil
}

// State returns the current load state.
func (g *LayerGroup) State() LayerState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Err returns the load error of an unavailable group.
func (g *LayerGroup) Err() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}

// Len returns the number of rendered features.
func (g *LayerGroup) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.features)
}

// Features returns the rendered features in feed order.
func (g *LayerGroup) Features() []*geojson.Feature {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*geojson.Feature, len(g.features))
	copy(out, g.features)
	return out
}

// Search returns the features whose bounds intersect b, in feed order.
func (g *LayerGroup) Search(b orb.Bound) []*geojson.Feature {
	g.mu.RLock()
	defer g.mu.RUnlock()

	hits := make([]bool, len(g.features))
	g.index.Search(
		[2]float64{b.Min.Lon(), b.Min.Lat()},
		[2]float64{b.Max.Lon(), b.Max.Lat()},
		func(_, _ [2]float64, i int) bool {
			hits[i] = true
			return true
		},
	)

	out := make([]*geojson.Feature, 0)
	for i, hit := range hits {
		if hit {
			out = append(out, g.features[i])
		}
	}
	return out
}

// FeatureCollection returns the group as GeoJSON, restricted to bound when non-nil.
func (g *LayerGroup) FeatureCollection(bound *orb.Bound) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if bound != nil {
		fc.Features = g.Search(*bound)
	} else {
		fc.Features = g.Features()
	}
	return fc
}

// LayerSnapshot is the serializable status of a layer group.
type LayerSnapshot struct {
	Name     string                     `json:"layer"`
	State    LayerState                 `json:"status"`
	Error    string                     `json:"error,omitempty"`
	Count    int                        `json:"count"`
	Skipped  int                        `json:"skipped,omitempty"`
	LoadedAt time.Time                  `json:"loaded_at,omitzero"`
	Features *geojson.FeatureCollection `json:"features,omitempty"`
}

// Snapshot captures the group's status, including its features when withFeatures is set.
func (g *LayerGroup) Snapshot(withFeatures bool) LayerSnapshot {
	g.mu.RLock()
	s := LayerSnapshot{
		Name:     g.name,
		State:    g.state,
		Count:    len(g.features),
		Skipped:  g.skipped,
		LoadedAt: g.loadedAt,
	}
	if g.err != nil {
		s.Error = g.err.Error()
	}
	g.mu.RUnlock()

	if withFeatures && s.State == StateLoaded {
		s.Features = g.FeatureCollection(nil)
	}
	return s
}
