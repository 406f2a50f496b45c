package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LoadOptions controls how files are turned into tables.
type LoadOptions struct {
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// NullTokens are cell contents treated as missing (after trimming).
	NullTokens []string
	// DateLayouts are tried in order when inferring Temporal columns.
	DateLayouts []string
	// XLSX sheet selection. SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultDateLayouts are tried when LoadOptions.DateLayouts is empty.
var DefaultDateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"2006-01",
}

// DefaultLoadOptions returns reasonable defaults for loading.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		NullTokens:  []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None"},
		DateLayouts: DefaultDateLayouts,
	}
}

// Load reads a table, choosing the reader by file extension.
func Load(path string, opt LoadOptions) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return ReadCSV(path, opt)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, opt)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// ReadCSV reads a delimited file with a header row.
func ReadCSV(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New()
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			break
		}
		rows = append(rows, rec)
	}
	return FromRecords(header, rows, opt)
}

// FromRecords infers a dtype per column and builds a table from string cells.
// Short records are padded with missing values; extra cells are ignored.
func FromRecords(header []string, rows [][]string, opt LoadOptions) (*Table, error) {
	layouts := opt.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	nulls := make(map[string]bool, len(opt.NullTokens)+1)
	nulls[""] = true
	for _, tok := range opt.NullTokens {
		nulls[tok] = true
	}
	cols := make([]*Column, len(header))
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				cells[i] = strings.TrimSpace(rec[j])
			}
		}
		cols[j] = inferColumn(strings.TrimSpace(name), cells, nulls, layouts, opt)
	}
	return New(cols...)
}

func inferColumn(name string, cells []string, nulls map[string]bool, layouts []string, opt LoadOptions) *Column {
	present := 0
	isInt, isNum, isTime := true, true, true
	for _, v := range cells {
		if nulls[v] {
			continue
		}
		present++
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isNum && !isInt {
			if _, ok := parseNumeric(v, opt); !ok {
				isNum = false
			}
		}
		if isTime {
			if _, ok := parseTime(v, layouts); !ok {
				isTime = false
			}
		}
		if !isInt && !isNum && !isTime {
			break
		}
	}
	dtype := Text
	switch {
	case present == 0:
	case isInt:
		dtype = Integer
	case isNum:
		dtype = Floating
	case isTime:
		dtype = Temporal
	}
	c := NewColumn(name, dtype)
	for _, v := range cells {
		if nulls[v] {
			c.AppendNull()
			continue
		}
		switch dtype {
		case Integer:
			n, _ := strconv.ParseInt(v, 10, 64)
			c.AppendInt(n)
		case Floating:
			x, _ := parseNumeric(v, opt)
			c.AppendFloat(x)
		case Temporal:
			t, _ := parseTime(v, layouts)
			c.AppendTime(t)
		default:
			c.AppendText(v)
		}
	}
	return c
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ParseTime tries each layout in order.
func ParseTime(s string, layouts []string) (time.Time, bool) {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return parseTime(strings.TrimSpace(s), layouts)
}

func parseTime(s string, layouts []string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNumeric(s string, opt LoadOptions) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	// inf, -Inf, Infinity
	if f, err := strconv.ParseFloat(raw, 64); err == nil && math.IsInf(f, 0) {
		return f, true
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
