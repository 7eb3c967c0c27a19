package extract

import (
	"strings"

	"kabuscore/pkg/core/table"
)

// maxSeriesLen caps every extracted series at the most recent fiscal
// years the site publishes per table.
const maxSeriesLen = 5

// Extract scans tables in order for the first row whose label contains
// any of the given aliases, and returns its parsed values, newest last,
// trimmed to the last maxSeriesLen successfully parsed cells.
//
// First match wins: when a page carries the same label twice (e.g.
// consolidated and non-consolidated sections), the first occurrence is
// authoritative. A missing row or a row with no parseable cells yields
// an empty series - "metric unavailable", not an error.
func Extract(tables []table.Table, aliases []string) table.Series {
	row, ok := findRow(tables, aliases)
	if !ok {
		return nil
	}

	values := make(table.Series, 0, len(row.Values))
	for _, cell := range row.Values {
		// Parse failures are dropped, not recorded as placeholders:
		// IRBank pads value rows with dashes for years it has no data
		// for, and those cells carry no ordering information.
		if v := table.ParseNumber(cell); v != nil {
			values = append(values, v)
		}
	}

	if len(values) > maxSeriesLen {
		values = values[len(values)-maxSeriesLen:]
	}
	return values
}

// findRow returns the first row across all tables whose label cell
// contains one of the aliases.
func findRow(tables []table.Table, aliases []string) (table.Row, bool) {
	for _, t := range tables {
		for _, row := range t {
			label := strings.TrimSpace(row.Label)
			if label == "" {
				continue
			}
			for _, alias := range aliases {
				if alias != "" && strings.Contains(label, alias) {
					return row, true
				}
			}
		}
	}
	return table.Row{}, false
}
