package table

import (
	"strconv"
	"strings"
)

// Unit and separator glyphs IRBank prints inside value cells. Stripping
// them never rescales the magnitude: "12,345円" parses as 12345.
var decorationReplacer = strings.NewReplacer(
	",", "",
	"円", "",
	"億", "",
	"万", "",
	"百", "",
	"千", "",
	"%", "",
	"％", "",
)

// Dash variants the site uses for "no data". These are absent, not zero.
var absentTokens = map[string]bool{
	"":  true,
	"-": true,
	"−": true, // full-width minus
	"―": true, // horizontal bar
	"—": true, // em dash
	"–": true, // en dash
}

// ParseNumber converts a raw cell text into a numeric value, or nil when
// the cell carries no number. Malformed input is data, not a fault: this
// function never returns an error and never panics.
func ParseNumber(text string) *float64 {
	cleaned := strings.TrimSpace(decorationReplacer.Replace(text))

	if absentTokens[cleaned] {
		return nil
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &val
}
