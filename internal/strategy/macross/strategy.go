// Package macross implements a simple moving average crossover strategy.
// Buy when the short SMA crosses above the long SMA on the latest bar,
// sell on the inverse cross, hold otherwise.
package macross

import (
	"fmt"
	"math"

	"github.com/hmasato/trader/internal/core"
	"github.com/hmasato/trader/internal/indicator"
	"github.com/hmasato/trader/internal/strategy"
)

const stopDistance = 0.05 // 5% protective stop

// MACross is the moving average crossover strategy.
type MACross struct{}

// New creates a new MA Cross strategy.
func New() *MACross { return &MACross{} }

func (m *MACross) ID() string   { return "ma_cross" }
func (m *MACross) Name() string { return "MA Cross" }

// RequiresVolume is false: the strategy works on closes alone.
func (m *MACross) RequiresVolume() bool { return false }

func (m *MACross) ParamSchema() strategy.Schema {
	return strategy.Schema{
		{Name: "short_period", Type: strategy.ParamInt, Default: 20, Min: 2,
			Description: "Short moving average period"},
		{Name: "long_period", Type: strategy.ParamInt, Default: 100, Min: 3,
			Description: "Long moving average period, must exceed short_period"},
	}
}

func (m *MACross) DefaultParams() strategy.Params {
	return m.ParamSchema().Defaults()
}

type params struct {
	short int
	long  int
}

func (m *MACross) paramsFrom(p strategy.Params) (params, error) {
	cp := params{
		short: p.Int("short_period"),
		long:  p.Int("long_period"),
	}
	if cp.long <= cp.short {
		return params{}, &strategy.ParamError{
			Param:  "long_period",
			Reason: fmt.Sprintf("must exceed short_period (%d), got %d", cp.short, cp.long),
		}
	}
	return cp, nil
}

// Compute detects a crossover between the previous and the latest bar.
func (m *MACross) Compute(series core.Series, p strategy.Params) (core.SignalResult, error) {
	cp, err := m.paramsFrom(p)
	if err != nil {
		return core.SignalResult{}, err
	}

	// One extra bar so the previous long SMA is defined for cross detection.
	if series.Len() < cp.long+1 {
		return core.Hold("insufficient_history"), nil
	}

	closes := series.Closes()
	shortMA := indicator.SMA(closes, cp.short)
	longMA := indicator.SMA(closes, cp.long)

	n := len(closes) - 1
	currDiff := shortMA[n] - longMA[n]
	prevDiff := shortMA[n-1] - longMA[n-1]
	price := closes[n]

	ind := map[string]float64{
		"ma_short": shortMA[n],
		"ma_long":  longMA[n],
		"ma_diff":  currDiff,
	}

	confidence := math.Min(math.Abs(currDiff)/longMA[n], 1.0)

	switch {
	case prevDiff <= 0 && currDiff > 0:
		return core.SignalResult{
			Signal:     core.SignalBuy,
			Entry:      core.Float64Ptr(price),
			Stop:       core.Float64Ptr(price * (1 - stopDistance)),
			Confidence: confidence,
			Reasons:    []string{"ma_cross_up"},
			Indicators: ind,
		}, nil
	case prevDiff >= 0 && currDiff < 0:
		return core.SignalResult{
			Signal:     core.SignalSell,
			Entry:      core.Float64Ptr(price),
			Stop:       core.Float64Ptr(price * (1 + stopDistance)),
			Confidence: confidence,
			Reasons:    []string{"ma_cross_down"},
			Indicators: ind,
		}, nil
	}

	hold := core.Hold("no_signal")
	hold.Indicators = ind
	return hold, nil
}
