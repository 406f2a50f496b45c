package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Highlighting
	NaNThreshold   float64 `mapstructure:"nan_threshold" yaml:"nan_threshold"`
	HighlightDType string  `mapstructure:"highlight_dtype" yaml:"highlight_dtype"`

	// Report
	NUnique      bool   `mapstructure:"nunique" yaml:"nunique"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// Loading
	MaxRows     int      `mapstructure:"max_rows" yaml:"max_rows"`
	NullTokens  []string `mapstructure:"null_tokens" yaml:"null_tokens"`
	DateLayouts []string `mapstructure:"date_layouts" yaml:"date_layouts"`
	Decimal     string   `mapstructure:"decimal" yaml:"decimal"`
	Thousands   string   `mapstructure:"thousands" yaml:"thousands"`
}

// DefaultPath is ~/.tabstat/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabstat", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabstat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABSTAT")
	v.AutomaticEnv()

	v.SetDefault("nan_threshold", 0.01)
	v.SetDefault("highlight_dtype", "text")
	v.SetDefault("nunique", false)
	v.SetDefault("output_format", "markdown")
	v.SetDefault("max_rows", 0)
	v.SetDefault("null_tokens", []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None"})
	v.SetDefault("date_layouts", []string{})
	v.SetDefault("decimal", "")
	v.SetDefault("thousands", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
