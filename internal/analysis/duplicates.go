package analysis

import "github.com/KaramelBytes/tabstat/internal/table"

// ColumnPair names two columns; A precedes B in table order.
type ColumnPair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// DuplicateColumns returns every pair of columns whose values are identical,
// including the positions of missing values. Quadratic in the column count.
func DuplicateColumns(t *table.Table) []ColumnPair {
	cols := t.Columns()
	var out []ColumnPair
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			if cols[i].Equal(cols[j]) {
				out = append(out, ColumnPair{A: cols[i].Name(), B: cols[j].Name()})
			}
		}
	}
	return out
}
