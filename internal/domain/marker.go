package domain

// Marker is a styled earthquake ready to be drawn as a Leaflet circle marker.
type Marker struct {
	Quake Quake       `json:"quake"`
	Style MarkerStyle `json:"style"`
	Popup string      `json:"popup"`
}

// NewMarker styles a quake and renders its popup.
func NewMarker(q Quake) Marker {
	return Marker{
		Quake: q,
		Style: StyleFor(q),
		Popup: PopupText(q),
	}
}
