package analysis

import (
	"strings"

	"github.com/KaramelBytes/tabstat/internal/table"
)

// Style is a CSS-like display directive. The zero value means no highlight.
type Style string

const (
	StyleNone   Style = ""
	StyleRed    Style = "background-color: #fb9a99"
	StyleYellow Style = "background-color: #fdbf6f"
	StyleBlue   Style = "color: #1f78b4"
)

// DefaultNaNPerc is the missing fraction above which a row turns red.
const DefaultNaNPerc = 0.01

// RowStyler maps one report row to a style for all of its cells.
type RowStyler func(StatsRow) Style

// HighlightNaN is red when missing values exceed perc of all rows, yellow
// when any value is missing, and none otherwise.
func HighlightNaN(row StatsRow, perc float64) Style {
	switch {
	case float64(row.NaN) > perc*float64(row.Rows):
		return StyleRed
	case row.Count != row.Rows:
		return StyleYellow
	default:
		return StyleNone
	}
}

// HighlightDType is blue when the row's dtype equals dtype.
func HighlightDType(row StatsRow, dtype table.DType) Style {
	if row.DType == dtype {
		return StyleBlue
	}
	return StyleNone
}

// NaNStyler binds HighlightNaN to a threshold.
func NaNStyler(perc float64) RowStyler {
	return func(r StatsRow) Style { return HighlightNaN(r, perc) }
}

// DTypeStyler binds HighlightDType to a target dtype.
func DTypeStyler(dtype table.DType) RowStyler {
	return func(r StatsRow) Style { return HighlightDType(r, dtype) }
}

// Styles returns one style per cell: Styles()[row][field]. Each styler's
// result is broadcast across the row; non-empty results are joined with "; ".
func (r *StatsReport) Styles(stylers ...RowStyler) [][]Style {
	n := len(r.Fields())
	out := make([][]Style, len(r.Cols))
	for i, row := range r.Cols {
		var parts []string
		for _, fn := range stylers {
			if s := fn(row); s != StyleNone {
				parts = append(parts, string(s))
			}
		}
		s := Style(strings.Join(parts, "; "))
		cells := make([]Style, n)
		for j := range cells {
			cells[j] = s
		}
		out[i] = cells
	}
	return out
}
