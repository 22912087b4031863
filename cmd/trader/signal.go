package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hmasato/trader/internal/config"
	"github.com/hmasato/trader/internal/core"
	"github.com/hmasato/trader/internal/dataset"
)

var (
	signalStrategy string
	signalFile     string
)

var signalCmd = &cobra.Command{
	Use:   "signal [symbol]",
	Short: "Compute a trading signal for a symbol",
	Long: `Compute a trading signal from the symbol's OHLCV CSV data. The strategy
is resolved through the registry: without --strategy the configured default
runs, and a volume-requiring strategy falls back when the data has no volume.`,
	Args: cobra.ExactArgs(1),
	RunE: runSignal,
}

func init() {
	signalCmd.Flags().StringVarP(&signalStrategy, "strategy", "s", "", "strategy id (default: configured default)")
	signalCmd.Flags().StringVarP(&signalFile, "file", "f", "", "CSV file (default: <data.dir>/<symbol>.csv)")

	rootCmd.AddCommand(signalCmd)
}

func runSignal(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	svc, cfg, log, err := newService()
	if err != nil {
		return err
	}
	defer log.Sync()

	series, err := loadSeries(cfg, symbol, signalFile)
	if err != nil {
		return err
	}

	record, err := svc.ComputeSignal(context.Background(), symbol, signalStrategy, series)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// loadSeries reads the symbol's candles, honoring an explicit file, then a
// configured symbol mapping, then the data directory convention.
func loadSeries(cfg *config.Config, symbol, explicit string) (core.Series, error) {
	path := explicit
	if path == "" {
		if sym, ok := cfg.Symbols[symbol]; ok && sym.File != "" {
			path = filepath.Join(cfg.Data.Dir, sym.File)
		} else {
			path = filepath.Join(cfg.Data.Dir, symbol+".csv")
		}
	}
	return dataset.LoadFile(path)
}
