package domain

import (
	"fmt"
	"html"
	"strconv"
)

// PopupText renders the marker popup. Place is HTML-escaped because the popup is
// inserted into the page as markup.
func PopupText(q Quake) string {
	return fmt.Sprintf("Magnitude: %s<br>Depth: %s<br>Location: %s",
		FormatNumber(q.Magnitude),
		FormatNumber(q.Depth),
		html.EscapeString(q.Place),
	)
}

// FormatNumber prints a float the way a browser prints a number, for values in the
// range of magnitudes and depths: no trailing zeros and no exponent ("5", "45",
// "2.37", "-1.2"). Negative zero prints as "0". Values of 1e21 or more, or below
// 1e-6, print in full rather than in the browser's exponent form.
func FormatNumber(v float64) string {
	if v == 0 {
		v = 0 // drops the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
