package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabstat/internal/config"
	"github.com/KaramelBytes/tabstat/internal/table"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabstat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "nan_threshold: %.4f\n", cfg.NaNThreshold)
		fmt.Fprintf(w, "highlight_dtype: %s\n", cfg.HighlightDType)
		fmt.Fprintf(w, "nunique: %t\n", cfg.NUnique)
		fmt.Fprintf(w, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(w, "null_tokens: %q\n", cfg.NullTokens)
		if len(cfg.DateLayouts) > 0 {
			fmt.Fprintf(w, "date_layouts: %q\n", cfg.DateLayouts)
		}
		if cfg.Decimal != "" {
			fmt.Fprintf(w, "decimal: %s\n", cfg.Decimal)
		}
		if cfg.Thousands != "" {
			fmt.Fprintf(w, "thousands: %s\n", cfg.Thousands)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "nan_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid fraction for nan_threshold: %v", val)
			}
			cfg.NaNThreshold = f
		case "highlight_dtype":
			d, err := table.ParseDType(val)
			if err != nil {
				return err
			}
			cfg.HighlightDType = d.String()
		case "nunique":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for nunique: %w", err)
			}
			cfg.NUnique = b
		case "output_format":
			switch val {
			case "markdown", "terminal", "json", "yaml":
				cfg.OutputFormat = val
			default:
				return fmt.Errorf("invalid output_format: %s (use markdown|terminal|json|yaml)", val)
			}
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "null_tokens":
			cfg.NullTokens = splitList(val)
		case "date_layouts":
			cfg.DateLayouts = splitList(val)
		case "decimal":
			cfg.Decimal = val
		case "thousands":
			cfg.Thousands = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
