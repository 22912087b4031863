// Package breakoutvol implements a range breakout strategy confirmed by
// above-average volume: price closing beyond the trailing range only counts
// when current volume is a configured multiple of its moving average.
package breakoutvol

import (
	"math"

	"github.com/hmasato/trader/internal/core"
	"github.com/hmasato/trader/internal/indicator"
	"github.com/hmasato/trader/internal/strategy"
)

// BreakoutVolume is the volume-confirmed breakout strategy.
type BreakoutVolume struct{}

// New creates a new Breakout-Volume strategy.
func New() *BreakoutVolume { return &BreakoutVolume{} }

func (b *BreakoutVolume) ID() string   { return "breakout_volume" }
func (b *BreakoutVolume) Name() string { return "Breakout Volume" }

// RequiresVolume is true: without volume the confirmation filter cannot run,
// and the registry substitutes the fallback strategy instead.
func (b *BreakoutVolume) RequiresVolume() bool { return true }

func (b *BreakoutVolume) ParamSchema() strategy.Schema {
	return strategy.Schema{
		{Name: "lookback_period", Type: strategy.ParamInt, Default: 20, Min: 5,
			Description: "Bars defining the trailing range and volume average"},
		{Name: "volume_threshold", Type: strategy.ParamNumber, Default: 1.5, Min: 1.0,
			Description: "Volume multiple of its moving average required to confirm"},
		{Name: "atr_period", Type: strategy.ParamInt, Default: 14, Min: 5,
			Description: "Average True Range period for stop placement"},
	}
}

func (b *BreakoutVolume) DefaultParams() strategy.Params {
	return b.ParamSchema().Defaults()
}

type params struct {
	lookback  int
	threshold float64
	atrPeriod int
}

func (b *BreakoutVolume) paramsFrom(p strategy.Params) params {
	return params{
		lookback:  p.Int("lookback_period"),
		threshold: p.Float("volume_threshold"),
		atrPeriod: p.Int("atr_period"),
	}
}

// Compute signals a buy when the close exceeds the highest high of the
// trailing lookback window (excluding the current bar) on confirmed volume,
// and the symmetric breakdown below the lowest low for a sell.
func (b *BreakoutVolume) Compute(series core.Series, p strategy.Params) (core.SignalResult, error) {
	cp := b.paramsFrom(p)

	need := cp.lookback
	if cp.atrPeriod > need {
		need = cp.atrPeriod
	}
	if series.Len() < need+1 {
		return core.Hold("insufficient_history"), nil
	}

	volumeMA, err := indicator.VolumeMA(series, cp.lookback)
	if err != nil {
		return core.SignalResult{}, err
	}

	highs := series.Highs()
	lows := series.Lows()
	closes := series.Closes()
	atr := indicator.ATR(series, cp.atrPeriod)

	n := len(closes) - 1
	resistance := math.Inf(-1)
	support := math.Inf(1)
	for i := n - cp.lookback; i < n; i++ {
		resistance = math.Max(resistance, highs[i])
		support = math.Min(support, lows[i])
	}

	price := closes[n]
	volumeRatio := series.Bars[n].Volume / volumeMA[n]
	confirmed := volumeRatio >= cp.threshold

	ind := map[string]float64{
		"resistance":   resistance,
		"support":      support,
		"volume_ratio": volumeRatio,
		"atr":          atr[n],
	}

	// Confidence grows with how far the volume multiple clears the threshold.
	confidence := clamp(volumeRatio/cp.threshold - 1)

	switch {
	case confirmed && price > resistance:
		stop := math.Max(support, price-2*atr[n])
		return core.SignalResult{
			Signal:     core.SignalBuy,
			Entry:      core.Float64Ptr(price),
			Stop:       core.Float64Ptr(stop),
			Confidence: confidence,
			Reasons:    []string{"breakout_volume_bullish"},
			Indicators: ind,
		}, nil
	case confirmed && price < support:
		stop := math.Min(resistance, price+2*atr[n])
		return core.SignalResult{
			Signal:     core.SignalSell,
			Entry:      core.Float64Ptr(price),
			Stop:       core.Float64Ptr(stop),
			Confidence: confidence,
			Reasons:    []string{"breakout_volume_bearish"},
			Indicators: ind,
		}, nil
	}

	hold := core.Hold("no_signal")
	hold.Indicators = ind
	return hold, nil
}

func clamp(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
