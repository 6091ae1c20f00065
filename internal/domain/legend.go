package domain

import (
	"fmt"
	"strings"
)

// LegendPosition is the Leaflet control corner the legend is attached to.
const LegendPosition = "bottomright"

// LegendRow is one swatch and label of the depth legend.
type LegendRow struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// LegendRows builds one row per depth band. Rows are labeled "{lower}–{next}" and the
// deepest band, which has no upper bound, is labeled "{lower}+".
func LegendRows() []LegendRow {
	rows := make([]LegendRow, 0, len(DepthBands))
	for i, band := range DepthBands {
		label := FormatNumber(band.Lower) + "+"
		if i+1 < len(DepthBands) {
			label = FormatNumber(band.Lower) + "–" + FormatNumber(DepthBands[i+1].Lower)
		}
		rows = append(rows, LegendRow{Color: band.Color, Label: label})
	}
	return rows
}

// RenderLegend returns the legend as an HTML fragment for a Leaflet control.
func RenderLegend() string {
	var b strings.Builder
	b.WriteString(`<div class="infoLegend">`)
	for _, row := range LegendRows() {
		fmt.Fprintf(&b, "<div><i style='background: %s'></i> %s</div>", row.Color, row.Label)
	}
	b.WriteString(`</div>`)
	return b.String()
}
