package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tabstat/internal/analysis"
	"github.com/KaramelBytes/tabstat/internal/table"
	"github.com/KaramelBytes/tabstat/internal/utils"
)

var (
	statsLoad         loadFlags
	statsNUnique      bool
	statsFormat       string
	statsOutputPath   string
	statsNaNThreshold float64
	statsHighlight    string
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print per-column summary statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		t, _, err := loadTable(cmd, &statsLoad, path)
		if err != nil {
			return err
		}

		nunique := statsNUnique
		if !cmd.Flags().Changed("nunique") && cfg != nil {
			nunique = cfg.NUnique
		}
		start := time.Now()
		rep, err := analysis.GenerateStats(t, analysis.StatsOptions{NUnique: nunique})
		if err != nil {
			return err
		}
		log.Debug("generated stats",
			zap.String("report", rep.ID),
			zap.Bool("nunique", nunique),
			zap.Duration("elapsed", time.Since(start)),
		)

		format := statsFormat
		if !cmd.Flags().Changed("format") && cfg != nil && cfg.OutputFormat != "" {
			format = cfg.OutputFormat
		}

		var out []byte
		switch strings.ToLower(format) {
		case "markdown", "md":
			out = []byte(rep.Markdown())
		case "json":
			out, err = rep.JSON()
		case "yaml", "yml":
			out, err = rep.YAML()
		case "terminal", "term":
			if statsOutputPath != "" {
				return fmt.Errorf("--format terminal cannot be written to --output")
			}
			stylers, err := highlightStylers(cmd)
			if err != nil {
				return err
			}
			styles := rep.Styles(stylers...)
			return rep.Terminal(cmd.OutOrStdout(), styles)
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|terminal|json|yaml)", format)
		}
		if err != nil {
			return err
		}

		if statsOutputPath != "" {
			if err := utils.SafeWriteFile(statsOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(os.Stderr, "✓ Wrote stats to %s\n", statsOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// highlightStylers resolves the terminal highlighting from flags, then config,
// then defaults. A configured threshold of 0 is honored.
func highlightStylers(cmd *cobra.Command) ([]analysis.RowStyler, error) {
	perc := analysis.DefaultNaNPerc
	if cfg != nil {
		perc = cfg.NaNThreshold
	}
	if cmd.Flags().Changed("nan-threshold") {
		perc = statsNaNThreshold
	}
	target := "text"
	if cfg != nil && cfg.HighlightDType != "" {
		target = cfg.HighlightDType
	}
	if cmd.Flags().Changed("highlight-dtype") {
		target = statsHighlight
	}
	dtype, err := table.ParseDType(target)
	if err != nil {
		return nil, fmt.Errorf("invalid --highlight-dtype: %w", err)
	}
	return []analysis.RowStyler{analysis.NaNStyler(perc), analysis.DTypeStyler(dtype)}, nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsLoad.register(statsCmd)
	statsCmd.Flags().BoolVar(&statsNUnique, "nunique", false, "include distinct-value counts (slow on large inputs)")
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "markdown", "output format: markdown|terminal|json|yaml")
	statsCmd.Flags().StringVarP(&statsOutputPath, "output", "o", "", "optional path to write the report")
	statsCmd.Flags().Float64Var(&statsNaNThreshold, "nan-threshold", analysis.DefaultNaNPerc, "terminal: missing fraction above which a row is red")
	statsCmd.Flags().StringVar(&statsHighlight, "highlight-dtype", "text", "terminal: dtype to highlight in blue")
}
