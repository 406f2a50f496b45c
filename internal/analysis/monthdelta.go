package analysis

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/tabstat/internal/table"
)

// EpochYear is the year whose January maps to month delta 0.
const EpochYear = 1970

// MonthDeltaOf returns whole calendar months elapsed since January 1970.
func MonthDeltaOf(t time.Time) int64 {
	return int64(t.Year()-EpochYear)*12 + int64(t.Month()-1)
}

// MonthDelta converts the named columns to month deltas and returns them side
// by side as Integer columns with the same names. Temporal columns are used
// as is; Text columns are parsed with layouts (table.DefaultDateLayouts when
// empty). Missing values stay missing.
func MonthDelta(t *table.Table, columns []string, layouts []string) (*table.Table, error) {
	out := make([]*table.Column, 0, len(columns))
	for _, name := range columns {
		c, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("month delta: %w", err)
		}
		d, err := monthDeltaColumn(c, layouts)
		if err != nil {
			return nil, fmt.Errorf("month delta: %w", err)
		}
		out = append(out, d)
	}
	return table.New(out...)
}

func monthDeltaColumn(c *table.Column, layouts []string) (*table.Column, error) {
	switch c.DType() {
	case table.Temporal, table.Text:
	default:
		return nil, fmt.Errorf("column %q: %w: %s", c.Name(), table.ErrUnsupportedType, c.DType())
	}
	d := table.NewColumn(c.Name(), table.Integer)
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			d.AppendNull()
			continue
		}
		ts, ok := c.Time(i)
		if !ok {
			s, _ := c.Text(i)
			ts, ok = table.ParseTime(s, layouts)
			if !ok {
				return nil, &table.ParseError{Column: c.Name(), Row: i, Value: s, Want: table.Temporal}
			}
		}
		d.AppendInt(MonthDeltaOf(ts))
	}
	return d, nil
}
