package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	backtestSymbol string
	backtestFile   string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy]",
	Short: "Run a strategy backtest",
	Long:  "Replay a strategy over a symbol's historical candles and show performance statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestFile, "file", "", "CSV file (default: <data.dir>/<symbol>.csv)")

	backtestCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	strategyID := args[0]

	svc, cfg, log, err := newService()
	if err != nil {
		return err
	}
	defer log.Sync()

	series, err := loadSeries(cfg, backtestSymbol, backtestFile)
	if err != nil {
		return err
	}

	result, err := svc.Backtest(context.Background(), backtestSymbol, strategyID, series)
	if err != nil {
		return err
	}

	fmt.Printf("strategy: %s\n", result.StrategyID)
	fmt.Printf("symbol:   %s\n", result.Symbol)
	fmt.Printf("period:   %s to %s\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	fmt.Printf("signals:  %d\n", len(result.Signals))
	fmt.Println()
	fmt.Printf("trades:        %d (%d won, %d lost)\n",
		result.Stats.TotalTrades, result.Stats.WinningTrades, result.Stats.LosingTrades)
	fmt.Printf("win rate:      %.1f%%\n", result.Stats.WinRate)
	fmt.Printf("total return:  %.2f%%\n", result.Stats.TotalReturn)
	fmt.Printf("max drawdown:  %.2f%%\n", result.Stats.MaxDrawdown)
	fmt.Printf("sharpe ratio:  %.2f\n", result.Stats.SharpeRatio)
	return nil
}
