// Package bbsqueeze implements the Bollinger Band squeeze strategy: a period
// of abnormally narrow bands (low volatility) followed by a band-width
// expansion signals a breakout, with direction taken from the close relative
// to the middle band.
package bbsqueeze

import (
	"math"

	"github.com/hmasato/trader/internal/core"
	"github.com/hmasato/trader/internal/indicator"
	"github.com/hmasato/trader/internal/strategy"
)

// BBSqueeze is the Bollinger Band squeeze strategy.
type BBSqueeze struct{}

// New creates a new BB Squeeze strategy.
func New() *BBSqueeze { return &BBSqueeze{} }

func (b *BBSqueeze) ID() string   { return "bb_squeeze" }
func (b *BBSqueeze) Name() string { return "BB Squeeze" }

// RequiresVolume is false: the squeeze works with price data only, which is
// what makes it the fallback target for volume-requiring strategies.
func (b *BBSqueeze) RequiresVolume() bool { return false }

func (b *BBSqueeze) ParamSchema() strategy.Schema {
	return strategy.Schema{
		{Name: "bb_period", Type: strategy.ParamInt, Default: 20, Min: 5,
			Description: "Bollinger Band period"},
		{Name: "bb_std", Type: strategy.ParamNumber, Default: 2.0, Min: 0.5,
			Description: "Bollinger Band standard deviation multiplier"},
		{Name: "squeeze_threshold", Type: strategy.ParamNumber, Default: 0.1, Min: 0.01,
			Description: "Relative band width below which the market is squeezed"},
		{Name: "atr_period", Type: strategy.ParamInt, Default: 14, Min: 5,
			Description: "Average True Range period for stop placement"},
	}
}

func (b *BBSqueeze) DefaultParams() strategy.Params {
	return b.ParamSchema().Defaults()
}

type params struct {
	bbPeriod  int
	bbStd     float64
	threshold float64
	atrPeriod int
}

func (b *BBSqueeze) paramsFrom(p strategy.Params) params {
	return params{
		bbPeriod:  p.Int("bb_period"),
		bbStd:     p.Float("bb_std"),
		threshold: p.Float("squeeze_threshold"),
		atrPeriod: p.Int("atr_period"),
	}
}

// Compute fires when the prior bar was squeezed (relative band width below
// the threshold) and the current bar's width expands beyond it.
func (b *BBSqueeze) Compute(series core.Series, p strategy.Params) (core.SignalResult, error) {
	cp := b.paramsFrom(p)

	need := cp.bbPeriod
	if cp.atrPeriod > need {
		need = cp.atrPeriod
	}
	if series.Len() < need+1 {
		return core.Hold("insufficient_history"), nil
	}

	closes := series.Closes()
	middle, upper, lower := indicator.Bollinger(closes, cp.bbPeriod, cp.bbStd)
	atr := indicator.ATR(series, cp.atrPeriod)

	n := len(closes) - 1
	currWidth := (upper[n] - lower[n]) / middle[n]
	prevWidth := (upper[n-1] - lower[n-1]) / middle[n-1]
	price := closes[n]

	ind := map[string]float64{
		"bb_middle":     middle[n],
		"bb_upper":      upper[n],
		"bb_lower":      lower[n],
		"bb_width":      currWidth,
		"bb_width_prev": prevWidth,
		"atr":           atr[n],
	}

	wasSqueezed := prevWidth < cp.threshold
	expanded := currWidth >= cp.threshold

	if wasSqueezed && expanded {
		if price > middle[n] {
			confidence := clamp((price - middle[n]) / (upper[n] - middle[n]))
			stop := math.Max(lower[n], price-2*atr[n])
			return core.SignalResult{
				Signal:     core.SignalBuy,
				Entry:      core.Float64Ptr(price),
				Stop:       core.Float64Ptr(stop),
				Confidence: confidence,
				Reasons:    []string{"bb_squeeze_breakout_bullish"},
				Indicators: ind,
			}, nil
		}
		confidence := clamp((middle[n] - price) / (middle[n] - lower[n]))
		stop := math.Min(upper[n], price+2*atr[n])
		return core.SignalResult{
			Signal:     core.SignalSell,
			Entry:      core.Float64Ptr(price),
			Stop:       core.Float64Ptr(stop),
			Confidence: confidence,
			Reasons:    []string{"bb_squeeze_breakout_bearish"},
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
