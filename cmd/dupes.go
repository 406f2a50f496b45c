package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tabstat/internal/analysis"
	"github.com/KaramelBytes/tabstat/internal/utils"
)

var (
	dupesLoad loadFlags
	dupesJSON bool
)

var dupesCmd = &cobra.Command{
	Use:   "dupes <file>",
	Short: "List pairs of identical columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, _, err := loadTable(cmd, &dupesLoad, args[0])
		if err != nil {
			return err
		}
		pairs := analysis.DuplicateColumns(t)
		log.Debug("duplicate scan", zap.Int("cols", t.NumCols()), zap.Int("pairs", len(pairs)))
		w := cmd.OutOrStdout()
		if dupesJSON {
			if pairs == nil {
				pairs = []analysis.ColumnPair{}
			}
			b, err := utils.PrettyJSON(pairs)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
			return nil
		}
		if len(pairs) == 0 {
			fmt.Fprintln(w, "No duplicate columns")
			return nil
		}
		for _, p := range pairs {
			fmt.Fprintf(w, "%s = %s\n", p.A, p.B)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dupesCmd)
	dupesLoad.register(dupesCmd)
	dupesCmd.Flags().BoolVar(&dupesJSON, "json", false, "print pairs as JSON")
}
