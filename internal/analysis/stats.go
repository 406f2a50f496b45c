// Package analysis computes exploratory summaries over a table.Table: a
// per-column statistics report, duplicate-column detection, month-delta
// encoding of dates and display highlighting rules.
package analysis

import (
	"errors"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/tabstat/internal/table"
)

// StatsOptions controls report generation.
type StatsOptions struct {
	// NUnique adds the distinct-value count. Slow on high-cardinality columns.
	NUnique bool
}

// StatsReport has one row per input column, in input column order.
type StatsReport struct {
	ID      string
	Rows    int
	NUnique bool
	Cols    []StatsRow
}

// StatsRow holds the statistics of one column. Fields that do not apply to
// the column's dtype are nil.
type StatsRow struct {
	Column string
	DType  table.DType
	Rows   int
	Count  int
	NaN    int
	Inf    *int
	Mean   *float64
	Std    *float64
	Min    *float64
	P25    *float64
	P50    *float64
	P75    *float64
	Max    *float64
	// First three raw values; rows past the end of the table are null.
	First   table.Value
	Second  table.Value
	Third   table.Value
	NUnique *int
}

var baseFields = []string{
	"dtype", "rows", "count", "nan", "inf", "mean", "std",
	"min", "25%", "50%", "75%", "max", "1st", "2nd", "3rd",
}

// Fields lists the report's field names in display order.
func (r *StatsReport) Fields() []string {
	out := append([]string(nil), baseFields...)
	if r.NUnique {
		out = append(out, "nuniq")
	}
	return out
}

// GenerateStats builds the per-column summary of t.
func GenerateStats(t *table.Table, opt StatsOptions) (*StatsReport, error) {
	if t == nil {
		return nil, errors.New("generate stats: nil table")
	}
	rep := &StatsReport{
		ID:      uuid.NewString(),
		Rows:    t.NumRows(),
		NUnique: opt.NUnique,
		Cols:    make([]StatsRow, 0, t.NumCols()),
	}
	for _, c := range t.Columns() {
		row := StatsRow{
			Column: c.Name(),
			DType:  c.DType(),
			Rows:   rep.Rows,
			Count:  c.Count(),
		}
		row.NaN = row.Rows - row.Count
		if c.DType().IsNumeric() {
			numericStats(&row, c.Floats())
		}
		row.First = sampleAt(c, 0)
		row.Second = sampleAt(c, 1)
		row.Third = sampleAt(c, 2)
		if opt.NUnique {
			n := distinct(c)
			row.NUnique = &n
		}
		rep.Cols = append(rep.Cols, row)
	}
	return rep, nil
}

func numericStats(row *StatsRow, vals []float64) {
	inf := 0
	for _, v := range vals {
		if math.IsInf(v, 0) {
			inf++
		}
	}
	row.Inf = &inf
	if len(vals) == 0 {
		return
	}
	mean, std := stat.MeanStdDev(vals, nil)
	row.Mean = optional(mean)
	if len(vals) > 1 {
		row.Std = optional(std)
	}
	data := stats.Float64Data(vals)
	if lo, err := stats.Min(data); err == nil {
		row.Min = optional(lo)
	}
	if hi, err := stats.Max(data); err == nil {
		row.Max = optional(hi)
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	row.P25 = optional(quantile(sorted, 0.25))
	row.P50 = optional(quantile(sorted, 0.5))
	row.P75 = optional(quantile(sorted, 0.75))
}

func optional(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

func sampleAt(c *table.Column, i int) table.Value {
	v, err := c.At(i)
	if err != nil {
		return table.Value{Type: c.DType(), Null: true}
	}
	return v
}

func distinct(c *table.Column) int {
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		v, _ := c.At(i)
		if v.Null {
			continue
		}
		var key string
		switch v.Type {
		case table.Integer:
			key = strconv.FormatInt(v.Int, 10)
		case table.Floating:
			if v.Float == 0 {
				v.Float = 0 // fold -0
			}
			key = strconv.FormatFloat(v.Float, 'g', -1, 64)
		case table.Temporal:
			key = strconv.FormatInt(v.Time.UnixNano(), 10)
		default:
			key = v.String()
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
