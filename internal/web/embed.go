// Package web provides the embedded Leaflet page, script, and stylesheet.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/couchcryptid/quake-map-service/internal/mapview"
)

//go:embed templates/*.html static
var content embed.FS

var pageTemplate = template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))

// Static returns the embedded filesystem rooted at static/, served under /static/.
func Static() (fs.FS, error) {
	return fs.Sub(content, "static")
}

type pageData struct {
	Title      string
	ConfigJSON template.JS
}

// RenderPage writes the map page with cfg inlined for the page script. The page is
// rendered to a buffer first so a template error never yields a partial response.
func RenderPage(w io.Writer, cfg mapview.Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode map config: %w", err)
	}

	var buf bytes.Buffer
	data := pageData{
		Title:      "Earthquakes and Tectonic Plates",
		ConfigJSON: template.JS(payload), //nolint:gosec // json.Marshal escapes <, >, and &
	}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
