package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hmasato/trader/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Mode     string                    `mapstructure:"mode"`
	Data     DataConfig                `mapstructure:"data"`
	Reports  ReportsConfig             `mapstructure:"reports"`
	Strategy StrategyConfig            `mapstructure:"strategy"`
	Gate     GateConfig                `mapstructure:"gate"`
	Metrics  MetricsConfig             `mapstructure:"metrics"`
	Symbols  map[string]SymbolConfig   `mapstructure:"symbols"`
}

// DataConfig locates the OHLCV candle data fed to strategies.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// ReportsConfig configures where signal and gate reports are archived.
type ReportsConfig struct {
	Type   string   `mapstructure:"type"` // "localfs" or "s3"
	Path   string   `mapstructure:"path"` // For localfs
	S3     S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// StrategyConfig selects the default and fallback strategies and carries
// per-strategy parameter overrides.
type StrategyConfig struct {
	Default  string                        `mapstructure:"default"`
	Fallback string                        `mapstructure:"fallback"`
	Params   map[string]map[string]float64 `mapstructure:"params"`
}

// GateConfig configures the go/no-go gate inputs.
type GateConfig struct {
	SummaryFile string `mapstructure:"summary_file"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// SymbolConfig pins a symbol to a strategy and data file.
type SymbolConfig struct {
	Strategy string `mapstructure:"strategy"`
	File     string `mapstructure:"file"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("TRADER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Mode: string(core.ModePaper),
		Data: DataConfig{
			Dir: "data",
		},
		Reports: ReportsConfig{
			Type: "localfs",
			Path: "reports",
		},
		Strategy: StrategyConfig{
			Default:  "bb_squeeze",
			Fallback: "bb_squeeze",
		},
		Gate: GateConfig{
			SummaryFile: "live_summary_latest.txt",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9108",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !core.Mode(c.Mode).IsValid() {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("mode must be paper, testnet or live, got %q", c.Mode))
	}

	switch c.Reports.Type {
	case "localfs":
		if c.Reports.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("reports path required for localfs archive"))
		}
	case "s3":
		if c.Reports.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when reports type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("reports type must be localfs or s3, got %q", c.Reports.Type))
	}

	if c.Strategy.Default == "" || c.Strategy.Fallback == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("strategy default and fallback ids are required"))
	}
	if c.Gate.SummaryFile == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("gate summary_file is required"))
	}

	return nil
}

// ParamsFor returns the configured parameter overrides for a strategy id,
// or nil when none are configured.
func (c *Config) ParamsFor(id string) map[string]float64 {
	if c.Strategy.Params == nil {
		return nil
	}
	return c.Strategy.Params[id]
}
