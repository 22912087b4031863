package breakoutvol

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/hmasato/trader/internal/core"
	"github.com/hmasato/trader/internal/strategy"
)

func seriesOf(closes []float64, volumes []float64) core.Series {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := core.Series{HasVolume: volumes != nil}
	for i, c := range closes {
		bar := core.Bar{
			Time: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c,
		}
		if volumes != nil {
			bar.Volume = volumes[i]
		}
		s.Bars = append(s.Bars, bar)
	}
	return s
}

func testParams() strategy.Params {
	return strategy.Params{
		"lookback_period":  5,
		"volume_threshold": 1.5,
		"atr_period":       5,
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestBreakoutVolume_ImplementsStrategy(t *testing.T) {
	var _ strategy.Strategy = (*BreakoutVolume)(nil)
}

func TestBreakoutVolume_RequiresVolume(t *testing.T) {
	if !New().RequiresVolume() {
		t.Fatal("breakout_volume must declare it requires volume")
	}
}

func TestBreakoutVolume_DefaultsSatisfySchema(t *testing.T) {
	b := New()
	if _, err := b.ParamSchema().Merge(b.DefaultParams()); err != nil {
		t.Fatalf("defaults must satisfy the schema: %v", err)
	}
}

func TestBreakoutVolume_BullishBreakout(t *testing.T) {
	b := New()
	// Close breaks the 5-bar range high (102) on roughly double the
	// average volume.
	s := seriesOf(
		[]float64{100, 101, 100, 99, 100, 101, 106},
		[]float64{1000, 1000, 1000, 1000, 1000, 1000, 3000},
	)

	got, err := b.Compute(s, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Signal != core.SignalBuy {
		t.Fatalf("expected buy, got %v (%v)", got.Signal, got.Reasons)
	}
	if got.Entry == nil || *got.Entry != 106 {
		t.Errorf("entry should be the latest close, got %v", got.Entry)
	}
	approx(t, "stop", *got.Stop, 100.4) // entry - 2*ATR, above the range low
	approx(t, "confidence", got.Confidence, 0.428571)
	if !reflect.DeepEqual(got.Reasons, []string{"breakout_volume_bullish"}) {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
	approx(t, "resistance", got.Indicators["resistance"], 102)
	approx(t, "support", got.Indicators["support"], 98)
	approx(t, "volume_ratio", got.Indicators["volume_ratio"], 3000.0/1400.0)
}

func TestBreakoutVolume_BearishBreakdown(t *testing.T) {
	b := New()
	s := seriesOf(
		[]float64{100, 101, 100, 99, 100, 101, 94},
		[]float64{1000, 1000, 1000, 1000, 1000, 1000, 3000},
	)

	got, err := b.Compute(s, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Signal != core.SignalSell {
		t.Fatalf("expected sell, got %v (%v)", got.Signal, got.Reasons)
	}
	approx(t, "stop", *got.Stop, 100.4) // entry + 2*ATR, below the range high
	if !reflect.DeepEqual(got.Reasons, []string{"breakout_volume_bearish"}) {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
}

func TestBreakoutVolume_HoldOnWeakVolume(t *testing.T) {
	b := New()
	// Price clears the range but volume never confirms.
	s := seriesOf(
		[]float64{100, 101, 100, 99, 100, 101, 106},
		[]float64{1000, 1000, 1000, 1000, 1000, 1000, 1100},
	)

	got, err := b.Compute(s, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Signal != core.SignalHold {
		t.Fatalf("expected hold, got %v (%v)", got.Signal, got.Reasons)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"no_signal"}) {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
	if got.Confidence != 0 {
		t.Errorf("unconfirmed volume should carry zero confidence, got %v", got.Confidence)
	}
}

func TestBreakoutVolume_HoldInsideRange(t *testing.T) {
	b := New()
	s := seriesOf(
		[]float64{100, 101, 100, 99, 100, 101, 101},
		[]float64{1000, 1000, 1000, 1000, 1000, 1000, 3000},
	)

	got, err := b.Compute(s, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Signal != core.SignalHold {
		t.Fatalf("expected hold inside the range, got %v (%v)", got.Signal, got.Reasons)
	}
}

func TestBreakoutVolume_MissingVolume(t *testing.T) {
	b := New()
	s := seriesOf([]float64{100, 101, 100, 99, 100, 101, 106}, nil)

	_, err := b.Compute(s, testParams())
	if err == nil {
		t.Fatal("expected error for a series without volume")
	}
	if !errors.Is(err, core.ErrMissingData) {
		t.Errorf("expected MISSING_DATA, got %v", err)
	}
}

func TestBreakoutVolume_InsufficientHistory(t *testing.T) {
	b := New()
	s := seriesOf(
		[]float64{100, 101, 100},
		[]float64{1000, 1000, 1000},
	)

	got, err := b.Compute(s, testParams())
	if err != nil {
		t.Fatalf("insufficient history must not fail: %v", err)
	}
	if got.Signal != core.SignalHold {
		t.Fatalf("expected hold, got %v", got.Signal)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"insufficient_history"}) {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
}
