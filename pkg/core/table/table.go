// Package table defines the tokenized-table data model shared by the
// scrape and extraction layers: rows of label + value cells, and the
// optional-value series produced from them.
package table

// Row is one tokenized table row. The first cell is the label, the
// remaining cells are candidate values in textual column order. The
// producing page lays columns out oldest to newest; consumers must not
// assume anything beyond that.
type Row struct {
	Label  string
	Values []string
}

// Table is an ordered sequence of rows as they appeared in the source.
type Table []Row

// RowFromCells builds a Row from a flat cell slice, applying the
// ordering contract: cell 0 is the label, the rest are values.
func RowFromCells(cells []string) Row {
	if len(cells) == 0 {
		return Row{}
	}
	return Row{Label: cells[0], Values: cells[1:]}
}

// Series is an ordered sequence of optional numeric values, oldest
// first. A nil entry means "absent": the cell was missing or did not
// parse. Absent entries are preserved until a caller filters them.
type Series []*float64

// Present returns the non-absent values in order.
func (s Series) Present() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// SeriesOf builds a fully-present series from plain values. Test and
// presentation helper.
func SeriesOf(values ...float64) Series {
	s := make(Series, len(values))
	for i := range values {
		v := values[i]
		s[i] = &v
	}
	return s
}
