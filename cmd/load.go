package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tabstat/internal/table"
)

// loadFlags are the input flags shared by every command that reads a table.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	sheetName  string
	sheetIndex int
}

func (lf *loadFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	c.Flags().StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to read (0 = unlimited, overrides config)")
	c.Flags().StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// options merges flags over the loaded config.
func (lf *loadFlags) options(c *cobra.Command) (table.LoadOptions, error) {
	opt := table.DefaultLoadOptions()
	decimal, thousands := lf.decimal, lf.thousands
	if cfg != nil {
		opt.MaxRows = cfg.MaxRows
		if len(cfg.NullTokens) > 0 {
			opt.NullTokens = cfg.NullTokens
		}
		if len(cfg.DateLayouts) > 0 {
			opt.DateLayouts = cfg.DateLayouts
		}
		if !c.Flags().Changed("decimal") {
			decimal = cfg.Decimal
		}
		if !c.Flags().Changed("thousands") {
			thousands = cfg.Thousands
		}
	}
	if c.Flags().Changed("max-rows") {
		opt.MaxRows = lf.maxRows
	}
	opt.SheetName = lf.sheetName
	opt.SheetIndex = lf.sheetIndex
	if lf.delimiter != "" {
		switch lf.delimiter {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		case "|":
			opt.Delimiter = '|'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
		}
	}
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(strings.TrimSpace(thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thousands)
	}
	return opt, nil
}

// loadTable reads path with the merged options and logs the resulting shape.
func loadTable(c *cobra.Command, lf *loadFlags, path string) (*table.Table, table.LoadOptions, error) {
	opt, err := lf.options(c)
	if err != nil {
		return nil, opt, err
	}
	start := time.Now()
	t, err := table.Load(path, opt)
	if err != nil {
		return nil, opt, err
	}
	log.Debug("loaded table",
		zap.String("path", path),
		zap.Int("rows", t.NumRows()),
		zap.Int("cols", t.NumCols()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return t, opt, nil
}
