package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hmasato/trader/internal/app"
	"github.com/hmasato/trader/internal/config"
	"github.com/hmasato/trader/internal/logger"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "trader",
	Short: "trader - crypto strategy signals and go/no-go risk gating",
	Long: `trader computes trading signals from OHLCV candle data using a set of
registered strategies, and evaluates a mode-aware go/no-go risk gate before
any of them are acted on.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

// newService builds the application service from the config file, .env and
// defaults.
func newService() (*app.Service, *config.Config, *zap.Logger, error) {
	godotenv.Load()

	log := logger.Must(debug)

	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	svc, err := app.New(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
