// Package app wires configuration, storage, metrics and the strategy
// registry into the operations the CLI exposes.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hmasato/trader/internal/backtest"
	"github.com/hmasato/trader/internal/config"
	"github.com/hmasato/trader/internal/core"
	"github.com/hmasato/trader/internal/gate"
	"github.com/hmasato/trader/internal/metrics"
	"github.com/hmasato/trader/internal/storage/archive"
	"github.com/hmasato/trader/internal/storage/report"
	"github.com/hmasato/trader/internal/strategy"
	"github.com/hmasato/trader/internal/strategy/bbsqueeze"
	"github.com/hmasato/trader/internal/strategy/breakoutvol"
	"github.com/hmasato/trader/internal/strategy/macross"
)

// EnvStrategyParams is the environment variable carrying JSON parameter
// overrides, e.g. {"short_period": 10}.
const EnvStrategyParams = "TRADER_STRATEGY_PARAMS"

const signalStoreCapacity = 1000

// Service is the main application orchestrator.
type Service struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Registry
	registry *strategy.Registry
	signals  report.Store
	reports  archive.Store
	mode     core.Mode
}

// New creates a Service from validated configuration.
func New(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reports, err := newArchive(cfg)
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.NewRegistry(),
		registry: registry,
		signals:  report.NewMemoryStore(signalStoreCapacity),
		reports:  reports,
		mode:     core.Mode(cfg.Mode),
	}, nil
}

func newArchive(cfg *config.Config) (archive.Store, error) {
	switch cfg.Reports.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.Reports.S3.Bucket,
			Endpoint:  cfg.Reports.S3.Endpoint,
			Region:    cfg.Reports.S3.Region,
			AccessKey: cfg.Reports.S3.AccessKey,
			SecretKey: cfg.Reports.S3.SecretKey,
			Prefix:    cfg.Reports.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Reports.Path)
	}
}

func newRegistry(cfg *config.Config, logger *zap.Logger) (*strategy.Registry, error) {
	registry := strategy.NewRegistry(
		strategy.WithDefault(cfg.Strategy.Default),
		strategy.WithFallback(cfg.Strategy.Fallback),
		strategy.WithLogger(logger),
	)
	registry.Register(macross.New(), false)
	registry.Register(bbsqueeze.New(), true)
	registry.Register(breakoutvol.New(), false)

	if _, err := registry.Get(cfg.Strategy.Default); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("default strategy: %w", err))
	}
	if _, err := registry.Get(cfg.Strategy.Fallback); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("fallback strategy: %w", err))
	}
	return registry, nil
}

// Mode returns the configured trading mode.
func (s *Service) Mode() core.Mode { return s.mode }

// Metrics returns the Prometheus registry for exposition.
func (s *Service) Metrics() *metrics.Registry { return s.metrics }

// ListStrategies returns the registered strategy descriptors in
// registration order.
func (s *Service) ListStrategies() []strategy.Descriptor {
	return s.registry.List()
}

// ComputeSignal resolves a strategy for the series, computes its signal and
// persists the record. Parameter overrides come from configuration and from
// the TRADER_STRATEGY_PARAMS environment variable, with the environment
// winning per key. Malformed environment overrides are logged and ignored.
func (s *Service) ComputeSignal(ctx context.Context, symbol, strategyID string, series core.Series) (report.SignalRecord, error) {
	overrides := s.overridesFor(strategyID)

	start := time.Now()
	result, res, err := s.registry.ResolveAndCompute(strategyID, series, overrides)
	if err != nil {
		return report.SignalRecord{}, err
	}
	s.metrics.RecordComputeDuration(time.Since(start).Seconds())
	s.metrics.RecordSignal(res.EffectiveID, result.Signal.String())
	if res.FallbackApplied {
		s.metrics.RecordFallback(res.RequestedID, res.EffectiveID)
	}

	record := report.SignalRecord{
		Symbol:          symbol,
		StrategyID:      res.EffectiveID,
		RequestedID:     res.RequestedID,
		FallbackApplied: res.FallbackApplied,
		Mode:            s.mode,
		Timestamp:       time.Now().UTC(),
		Result:          result,
	}
	record, err = s.signals.Save(ctx, record)
	if err != nil {
		return report.SignalRecord{}, err
	}

	if err := s.archiveJSON(ctx, fmt.Sprintf("signals/%s_latest.json", symbol), record); err != nil {
		s.logger.Warn("archiving signal record failed",
			zap.String("symbol", symbol), zap.Error(err))
	}

	s.logger.Info("signal computed",
		zap.String("symbol", symbol),
		zap.String("strategy", res.EffectiveID),
		zap.String("signal", result.Signal.String()),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("fallback", res.FallbackApplied))

	return record, nil
}

// overridesFor merges configured per-strategy parameters with environment
// overrides. An unparseable environment value falls back to the configured
// parameters alone.
func (s *Service) overridesFor(strategyID string) strategy.Params {
	id := strategyID
	if id == "" {
		id = s.registry.DefaultID()
	}

	overrides := strategy.Params{}
	for name, v := range s.cfg.ParamsFor(id) {
		overrides[name] = v
	}

	if raw := os.Getenv(EnvStrategyParams); raw != "" {
		env, err := strategy.ParseOverrides(raw)
		if err != nil {
			s.logger.Warn("ignoring malformed strategy params from environment",
				zap.String("env", EnvStrategyParams), zap.Error(err))
		} else {
			for name, v := range env {
				overrides[name] = v
			}
		}
	}

	if len(overrides) == 0 {
		return nil
	}
	return overrides
}

// EvaluateGate reads the latest live summary from the report archive, runs
// the go/no-go policy for the configured mode and persists the report.
func (s *Service) EvaluateGate(ctx context.Context, extra []gate.CheckResult) (gate.Report, error) {
	var reading *gate.SummaryReading

	data, err := s.reports.Read(ctx, s.cfg.Gate.SummaryFile)
	if err == nil {
		r := gate.ParseSummary(string(data))
		reading = &r
	} else {
		s.logger.Warn("live summary unavailable",
			zap.String("file", s.cfg.Gate.SummaryFile), zap.Error(err))
	}

	result := gate.Evaluate(s.mode, reading, extra)
	s.metrics.RecordGateEvaluation(string(result.Mode), string(result.Aggregate))

	if err := s.archiveJSON(ctx, "go_nogo_latest.json", result); err != nil {
		s.logger.Warn("archiving gate report failed", zap.Error(err))
	}
	dated := fmt.Sprintf("go_nogo/%s.json", result.EvaluatedAt.Format("2006-01-02"))
	if err := s.archiveJSON(ctx, dated, result); err != nil {
		s.logger.Warn("archiving dated gate report failed", zap.Error(err))
	}

	s.logger.Info("gate evaluated",
		zap.String("mode", string(result.Mode)),
		zap.String("aggregate", string(result.Aggregate)))

	return result, nil
}

// Backtest resolves a strategy for the series (with volume fallback) and
// replays it bar by bar.
func (s *Service) Backtest(ctx context.Context, symbol, strategyID string, series core.Series) (*backtest.Result, error) {
	res, err := s.registry.Resolve(strategyID, series)
	if err != nil {
		return nil, err
	}

	overrides := s.overridesFor(strategyID)
	if res.FallbackApplied {
		overrides = nil
		s.logger.Warn("volume fallback applied for backtest",
			zap.String("requested", res.RequestedID),
			zap.String("effective", res.EffectiveID))
	}

	return backtest.New().Run(ctx, res.Strategy, overrides, symbol, series)
}

// Signals exposes the signal record store for inspection commands.
func (s *Service) Signals() report.Store { return s.signals }

func (s *Service) archiveJSON(ctx context.Context, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return s.reports.Write(ctx, path, data)
}
