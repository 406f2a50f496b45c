package analysis

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabstat/internal/utils"
)

// Cell renders one field of the row for display. Unset values render as "".
func (r StatsRow) Cell(field string) string {
	switch field {
	case "column":
		return r.Column
	case "dtype":
		return r.DType.String()
	case "rows":
		return strconv.Itoa(r.Rows)
	case "count":
		return strconv.Itoa(r.Count)
	case "nan":
		return strconv.Itoa(r.NaN)
	case "inf":
		return fmtInt(r.Inf)
	case "mean":
		return fmtFloat(r.Mean)
	case "std":
		return fmtFloat(r.Std)
	case "min":
		return fmtFloat(r.Min)
	case "25%":
		return fmtFloat(r.P25)
	case "50%":
		return fmtFloat(r.P50)
	case "75%":
		return fmtFloat(r.P75)
	case "max":
		return fmtFloat(r.Max)
	case "1st":
		return r.First.String()
	case "2nd":
		return r.Second.String()
	case "3rd":
		return r.Third.String()
	case "nuniq":
		return fmtInt(r.NUnique)
	}
	return ""
}

func fmtInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func fmtFloat(p *float64) string {
	if p == nil {
		return ""
	}
	f := *p
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// Markdown renders the report as a Markdown table.
func (r *StatsReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[STATS REPORT]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))
	header := append([]string{"column"}, r.Fields()...)
	b.WriteString("| ")
	b.WriteString(strings.Join(header, " | "))
	b.WriteString(" |\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range r.Cols {
		b.WriteString("| ")
		for i, f := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := row.Cell(f)
			if f == "column" {
				val = safeName(val)
			}
			val = truncate(val, 80)
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// Terminal writes an aligned table, coloring rows per styles (as returned by
// Styles). Colors are dropped when w is not a color-capable terminal.
func (r *StatsReport) Terminal(w io.Writer, styles [][]Style, opts ...termenv.OutputOption) error {
	out := termenv.NewOutput(w, opts...)
	header := append([]string{"column"}, r.Fields()...)
	widths := make([]int, len(header))
	for j, h := range header {
		widths[j] = utf8.RuneCountInString(h)
	}
	cells := make([][]string, len(r.Cols))
	for i, row := range r.Cols {
		cells[i] = make([]string, len(header))
		for j, f := range header {
			v := truncate(safeVal(row.Cell(f)), 24)
			cells[i][j] = v
			if n := utf8.RuneCountInString(v); n > widths[j] {
				widths[j] = n
			}
		}
	}
	pad := func(s string, n int) string { return s + strings.Repeat(" ", n-utf8.RuneCountInString(s)) }
	var line []string
	for j, h := range header {
		line = append(line, pad(h, widths[j]))
	}
	if _, err := fmt.Fprintln(w, out.String(strings.Join(line, "  ")).Bold()); err != nil {
		return err
	}
	for i := range cells {
		line = line[:0]
		for j, v := range cells[i] {
			s := out.String(pad(v, widths[j]))
			// styles are per field; column name shares the first field's style
			k := j - 1
			if k < 0 {
				k = 0
			}
			if i < len(styles) && k < len(styles[i]) {
				s = applyStyle(out, s, styles[i][k])
			}
			line = append(line, s.String())
		}
		if _, err := fmt.Fprintln(w, strings.Join(line, "  ")); err != nil {
			return err
		}
	}
	return nil
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func applyStyle(out *termenv.Output, s termenv.Style, st Style) termenv.Style {
	for _, part := range strings.Split(string(st), ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		c := out.Color(strings.TrimSpace(v))
		switch strings.TrimSpace(k) {
		case "background-color":
			s = s.Background(c)
		case "color":
			s = s.Foreground(c)
		}
	}
	return s
}

type reportView struct {
	ID      string    `json:"id" yaml:"id"`
	Rows    int       `json:"rows" yaml:"rows"`
	Columns []rowView `json:"columns" yaml:"columns"`
}

type rowView struct {
	Column  string  `json:"column" yaml:"column"`
	DType   string  `json:"dtype" yaml:"dtype"`
	Rows    int     `json:"rows" yaml:"rows"`
	Count   int     `json:"count" yaml:"count"`
	NaN     int     `json:"nan" yaml:"nan"`
	Inf     *int    `json:"inf" yaml:"inf"`
	Mean    any     `json:"mean" yaml:"mean"`
	Std     any     `json:"std" yaml:"std"`
	Min     any     `json:"min" yaml:"min"`
	P25     any     `json:"25%" yaml:"25%"`
	P50     any     `json:"50%" yaml:"50%"`
	P75     any     `json:"75%" yaml:"75%"`
	Max     any     `json:"max" yaml:"max"`
	First   *string `json:"1st" yaml:"1st"`
	Second  *string `json:"2nd" yaml:"2nd"`
	Third   *string `json:"3rd" yaml:"3rd"`
	NUnique *int    `json:"nuniq,omitempty" yaml:"nuniq,omitempty"`
}

func (r *StatsReport) view() reportView {
	v := reportView{ID: r.ID, Rows: r.Rows, Columns: make([]rowView, len(r.Cols))}
	for i, c := range r.Cols {
		v.Columns[i] = rowView{
			Column:  c.Column,
			DType:   c.DType.String(),
			Rows:    c.Rows,
			Count:   c.Count,
			NaN:     c.NaN,
			Inf:     c.Inf,
			Mean:    viewFloat(c.Mean),
			Std:     viewFloat(c.Std),
			Min:     viewFloat(c.Min),
			P25:     viewFloat(c.P25),
			P50:     viewFloat(c.P50),
			P75:     viewFloat(c.P75),
			Max:     viewFloat(c.Max),
			First:   viewSample(c.First.Null, c.First.String()),
			Second:  viewSample(c.Second.Null, c.Second.String()),
			Third:   viewSample(c.Third.Null, c.Third.String()),
			NUnique: c.NUnique,
		}
	}
	return v
}

// viewFloat keeps infinities encodable: JSON has no literal for them.
func viewFloat(p *float64) any {
	if p == nil {
		return nil
	}
	if math.IsInf(*p, 1) {
		return "+Inf"
	}
	if math.IsInf(*p, -1) {
		return "-Inf"
	}
	return *p
}

func viewSample(null bool, s string) *string {
	if null {
		return nil
	}
	return &s
}

// JSON encodes the report with unset fields as null.
func (r *StatsReport) JSON() ([]byte, error) {
	return utils.PrettyJSON(r.view())
}

// YAML encodes the report with unset fields as null.
func (r *StatsReport) YAML() ([]byte, error) {
	b, err := yaml.Marshal(r.view())
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
