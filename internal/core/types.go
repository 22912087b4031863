package core

import (
	"fmt"
	"math"
	"time"
)

// Mode represents the trading mode the pipeline runs in.
type Mode string

const (
	ModePaper   Mode = "paper"
	ModeTestnet Mode = "testnet"
	ModeLive    Mode = "live"
)

// IsValid reports whether the mode is one of the known trading modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModePaper, ModeTestnet, ModeLive:
		return true
	}
	return false
}

// Bar represents a single OHLCV candlestick.
type Bar struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume,omitempty"`
}

// Series is an ordered sequence of bars. Volume may be entirely absent
// (HasVolume false); that is a first-class condition, not an error.
type Series struct {
	Bars      []Bar
	HasVolume bool
}

// Len returns the number of bars in the series.
func (s Series) Len() int { return len(s.Bars) }

// VolumeAvailable reports whether the series carries usable volume data:
// the volume column must exist and at least one bar must have positive volume.
func (s Series) VolumeAvailable() bool {
	if !s.HasVolume {
		return false
	}
	for _, b := range s.Bars {
		if b.Volume > 0 {
			return true
		}
	}
	return false
}

// Closes returns the close prices as a slice.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high prices as a slice.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low prices as a slice.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volumes as a slice.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Validate checks the series invariants: strictly increasing timestamps and
// positive finite prices on every bar.
func (s Series) Validate() error {
	for i, b := range s.Bars {
		for _, v := range [4]float64{b.Open, b.High, b.Low, b.Close} {
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return WrapError(ErrSeriesInvalid,
					fmt.Errorf("bar %d has non-positive or non-finite price", i))
			}
		}
		if i > 0 && !s.Bars[i-1].Time.Before(b.Time) {
			return WrapError(ErrSeriesInvalid,
				fmt.Errorf("timestamps not strictly increasing at bar %d", i))
		}
	}
	return nil
}

// Signal is the direction of a trading decision.
type Signal int

const (
	SignalSell Signal = -1
	SignalHold Signal = 0
	SignalBuy  Signal = 1
)

// String returns the human-readable action name.
func (s Signal) String() string {
	switch s {
	case SignalSell:
		return "sell"
	case SignalBuy:
		return "buy"
	default:
		return "hold"
	}
}

// SignalResult is the output of a strategy evaluation.
type SignalResult struct {
	Signal     Signal             `json:"signal"`
	Entry      *float64           `json:"entry,omitempty"`
	Stop       *float64           `json:"stop,omitempty"`
	Confidence float64            `json:"confidence"`
	Reasons    []string           `json:"reasons"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
}

// Hold builds a no-signal result with the given reason.
func Hold(reason string) SignalResult {
	return SignalResult{
		Signal:     SignalHold,
		Confidence: 0.0,
		Reasons:    []string{reason},
	}
}

// Validate checks the result invariants: confidence in [0,1], entry/stop
// either both present or both absent on a non-hold signal, and positive
// price levels.
func (r SignalResult) Validate() error {
	if r.Confidence < 0 || r.Confidence > 1 || math.IsNaN(r.Confidence) {
		return WrapError(ErrResultInvalid,
			fmt.Errorf("confidence %v out of [0,1]", r.Confidence))
	}
	if r.Signal != SignalHold && (r.Entry == nil) != (r.Stop == nil) {
		return WrapError(ErrResultInvalid,
			fmt.Errorf("entry and stop must be set together on a %s signal", r.Signal))
	}
	for _, p := range []*float64{r.Entry, r.Stop} {
		if p != nil && (*p <= 0 || math.IsNaN(*p) || math.IsInf(*p, 0)) {
			return WrapError(ErrResultInvalid,
				fmt.Errorf("price level must be positive and finite, got %v", *p))
		}
	}
	return nil
}

// Float64Ptr returns a pointer to v. Convenience for entry/stop fields.
func Float64Ptr(v float64) *float64 { return &v }
