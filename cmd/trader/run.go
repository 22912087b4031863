package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runInterval time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Periodically compute signals for configured symbols",
	Long: `Run the signal loop: every interval, compute a signal for each symbol in
the configured watchlist and persist the records. Serves Prometheus metrics
while running when metrics are enabled.`,
	RunE: runLoop,
}

func init() {
	runCmd.Flags().DurationVar(&runInterval, "interval", time.Hour, "time between signal passes")

	rootCmd.AddCommand(runCmd)
}

func runLoop(cmd *cobra.Command, args []string) error {
	svc, cfg, log, err := newService()
	if err != nil {
		return err
	}
	defer log.Sync()

	if len(cfg.Symbols) == 0 {
		log.Warn("no symbols configured, nothing to do")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, svc.Metrics().Handler())
		server := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			log.Info("serving metrics",
				zap.String("addr", cfg.Metrics.Addr), zap.String("path", cfg.Metrics.Path))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server error", zap.Error(err))
			}
		}()
		defer server.Shutdown(context.Background())
	}

	pass := func() {
		for symbol, sym := range cfg.Symbols {
			series, err := loadSeries(cfg, symbol, "")
			if err != nil {
				log.Warn("loading candles failed", zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			if _, err := svc.ComputeSignal(ctx, symbol, sym.Strategy, series); err != nil {
				log.Warn("computing signal failed", zap.String("symbol", symbol), zap.Error(err))
			}
		}
	}

	pass()

	ticker := time.NewTicker(runInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			pass()
		case <-quit:
			log.Info("shutting down signal loop")
			return nil
		}
	}
}
