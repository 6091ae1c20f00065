// Package mapview models the interactive map: its base layers, its toggleable
// overlay groups, the legend control, and the sessions that load them.
package mapview

import (
	"fmt"
	"sync"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Overlay display names, as shown in the layer control.
const (
	OverlayPlates      = "Tectonic Plates"
	OverlayEarthquakes = "Earthquakes"
)

// Initial viewport: the contiguous United States at continental zoom.
var (
	DefaultCenter = orb.Point{-96.00, 38.50}
	DefaultZoom   = 3
)

// BaseLayer is a named background tile source. Exactly one is active at a time.
type BaseLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// DefaultBaseLayers are the street and topographic tile sets; the first is active.
var DefaultBaseLayers = []BaseLayer{
	{
		Name:        "Basic Map",
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
	},
	{
		Name: "Topography",
		URL:  "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: `Map data: &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors, ` +
			`<a href="http://viewfinderpanoramas.org">SRTM</a> | Map style: &copy; <a href="https://opentopomap.org">OpenTopoMap</a> ` +
			`(<a href="https://creativecommons.org/licenses/by-sa/3.0/">CC-BY-SA</a>)`,
	},
}

type overlay struct {
	name    string
	group   *LayerGroup
	visible bool
}

// MapView owns the widget state of one map: viewport, base layer selection,
// overlay groups and their visibility, and the legend control.
type MapView struct {
	mu         sync.RWMutex
	center     orb.Point
	zoom       int
	baseLayers []BaseLayer
	activeBase string
	overlays   []*overlay
	legend     string
}

// New creates a map with the default viewport and layers. Overlay groups start
// pending and visible; the legend is attached once earthquakes load.
func New() *MapView {
	return &MapView{
		center:     DefaultCenter,
		zoom:       DefaultZoom,
		baseLayers: DefaultBaseLayers,
		activeBase: DefaultBaseLayers[0].Name,
		overlays: []*overlay{
			{name: OverlayPlates, group: NewLayerGroup(domain.LayerPlates), visible: true},
			{name: OverlayEarthquakes, group: NewLayerGroup(domain.LayerEarthquakes), visible: true},
		},
	}
}

// SelectBaseLayer makes name the active base layer, deactivating the previous one.
func (m *MapView) SelectBaseLayer(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.baseLayers {
		if b.Name == name {
			m.activeBase = name
			return nil
		}
	}
	return fmt.Errorf("unknown base layer %q", name)
}

// ActiveBaseLayer returns the name of the active base layer.
func (m *MapView) ActiveBaseLayer() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeBase
}

// SetOverlayVisible shows or hides one overlay without touching the others.
func (m *MapView) SetOverlayVisible(name string, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o := m.findOverlay(name)
	if o == nil {
		return fmt.Errorf("unknown overlay %q", name)
	}
	o.visible = visible
	return nil
}

// OverlayVisible reports whether the named overlay is checked in the layer control.
func (m *MapView) OverlayVisible(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o := m.findOverlay(name)
	return o != nil && o.visible
}

// Overlay returns the layer group behind an overlay, or nil for an unknown name.
func (m *MapView) Overlay(name string) *LayerGroup {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if o := m.findOverlay(name); o != nil {
		return o.group
	}
	return nil
}

// VisibleFeatures returns the features currently drawn: those of loaded groups whose
// overlay is visible, in overlay order.
func (m *MapView) VisibleFeatures() []*geojson.Feature {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*geojson.Feature
	for _, o := range m.overlays {
		if !o.visible || o.group.State() != StateLoaded {
			continue
		}
		out = append(out, o.group.Features()...)
	}
	return out
}

// AttachLegend adds the legend control to the map.
func (m *MapView) AttachLegend(html string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.legend = html
}

// Legend returns the attached legend HTML and whether one is attached.
func (m *MapView) Legend() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.legend, m.legend != ""
}

func (m *MapView) findOverlay(name string) *overlay {
	for _, o := range m.overlays {
		if o.name == name {
			return o
		}
	}
	return nil
}

// Config is the widget configuration handed to the page script.
type Config struct {
	Center     [2]float64       `json:"center"` // [lat, lon], Leaflet order
	Zoom       int              `json:"zoom"`
	BaseLayers []BaseLayerView  `json:"baseLayers"`
	Overlays   []OverlayView    `json:"overlays"`
	Legend     LegendView       `json:"legend"`
	PlateStyle domain.LineStyle `json:"plateStyle"`
	LoadOrder  string           `json:"loadOrder,omitempty"` // set by the server
}

// BaseLayerView is a base layer with its selection state.
type BaseLayerView struct {
	BaseLayer
	Active bool `json:"active"`
}

// OverlayView describes an overlay and the API route that serves its features.
type OverlayView struct {
	Name     string     `json:"name"`
	Layer    string     `json:"layer"`
	Endpoint string     `json:"endpoint"`
	Visible  bool       `json:"visible"`
	State    LayerState `json:"status"`
}

// LegendView is the legend control: its corner, rows, and pre-rendered HTML.
type LegendView struct {
	Position string             `json:"position"`
	Rows     []domain.LegendRow `json:"rows"`
	HTML     string             `json:"html"`
}

// Config snapshots the map for the page. The legend is always described so the
// page can attach it when the earthquake layer arrives.
func (m *MapView) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := Config{
		Center:     [2]float64{m.center.Lat(), m.center.Lon()},
		Zoom:       m.zoom,
		PlateStyle: domain.PlateLineStyle,
		Legend: LegendView{
			Position: domain.LegendPosition,
			Rows:     domain.LegendRows(),
			HTML:     domain.RenderLegend(),
		},
	}
	for _, b := range m.baseLayers {
		cfg.BaseLayers = append(cfg.BaseLayers, BaseLayerView{BaseLayer: b, Active: b.Name == m.activeBase})
	}
	for _, o := range m.overlays {
		cfg.Overlays = append(cfg.Overlays, OverlayView{
			Name:     o.name,
			Layer:    o.group.Name(),
			Endpoint: "/api/layers/" + o.group.Name(),
			Visible:  o.visible,
			State:    o.group.State(),
		})
	}
	return cfg
}
