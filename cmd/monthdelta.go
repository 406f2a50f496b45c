package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabstat/internal/analysis"
	"github.com/KaramelBytes/tabstat/internal/table"
	"github.com/KaramelBytes/tabstat/internal/utils"
)

var (
	mdLoad       loadFlags
	mdColumns    []string
	mdOutputPath string
)

var monthDeltaCmd = &cobra.Command{
	Use:   "month-delta <file>",
	Short: "Encode date columns as months since January 1970 (CSV output)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(mdColumns) == 0 {
			return fmt.Errorf("--columns is required")
		}
		t, opt, err := loadTable(cmd, &mdLoad, args[0])
		if err != nil {
			return err
		}
		out, err := analysis.MonthDelta(t, mdColumns, opt.DateLayouts)
		if err != nil {
			return err
		}
		b, err := encodeCSV(out)
		if err != nil {
			return err
		}
		if mdOutputPath != "" {
			if err := utils.SafeWriteFile(mdOutputPath, b); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(os.Stderr, "✓ Wrote month deltas to %s\n", mdOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

// missingToken marks a missing cell so single-column rows never become blank
// lines, which CSV readers skip. table.Load reads it back as missing.
const missingToken = "NA"

func encodeCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Names()); err != nil {
		return nil, err
	}
	rec := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.Columns() {
			v, err := c.At(i)
			if err != nil {
				return nil, err
			}
			if v.Null {
				rec[j] = missingToken
				continue
			}
			rec[j] = v.String()
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func init() {
	rootCmd.AddCommand(monthDeltaCmd)
	mdLoad.register(monthDeltaCmd)
	monthDeltaCmd.Flags().StringSliceVarP(&mdColumns, "columns", "c", nil, "comma-separated date columns to convert")
	monthDeltaCmd.Flags().StringVarP(&mdOutputPath, "output", "o", "", "optional path to write the CSV")
}
