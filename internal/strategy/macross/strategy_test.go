package macross

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hmasato/trader/internal/core"
	"github.com/hmasato/trader/internal/strategy"
)

func seriesOf(closes ...float64) core.Series {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := core.Series{}
	for i, c := range closes {
		s.Bars = append(s.Bars, core.Bar{
			Time: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c,
		})
	}
	return s
}

func testParams(short, long float64) strategy.Params {
	return strategy.Params{"short_period": short, "long_period": long}
}

func TestMACross_ImplementsStrategy(t *testing.T) {
	var _ strategy.Strategy = (*MACross)(nil)
}

func TestMACross_DefaultsSatisfySchema(t *testing.T) {
	m := New()
	if _, err := m.ParamSchema().Merge(m.DefaultParams()); err != nil {
		t.Fatalf("defaults must satisfy the schema: %v", err)
	}
}

func TestMACross_BuyOnCrossUp(t *testing.T) {
	m := New()
	// Short SMA below the long SMA on the previous bar, above it on the
	// latest bar.
	s := seriesOf(12, 11, 10, 13)

	got, err := m.Compute(s, testParams(2, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Signal != core.SignalBuy {
		t.Fatalf("expected buy, got %v (%v)", got.Signal, got.Reasons)
	}
	if got.Entry == nil || *got.Entry != 13 {
		t.Errorf("entry should be the latest close, got %v", got.Entry)
	}
	if got.Stop == nil || *got.Stop != 13*0.95 {
		t.Errorf("stop should sit 5%% below entry, got %v", got.Stop)
	}
	if got.Confidence <= 0 || got.Confidence > 1 {
		t.Errorf("confidence out of range: %v", got.Confidence)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"ma_cross_up"}) {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
	if _, ok := got.Indicators["ma_short"]; !ok {
		t.Error("indicators should expose ma_short")
	}
}

func TestMACross_SellOnCrossDown(t *testing.T) {
	m := New()
	s := seriesOf(10, 11, 12, 9)

	got, err := m.Compute(s, testParams(2, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Signal != core.SignalSell {
		t.Fatalf("expected sell, got %v (%v)", got.Signal, got.Reasons)
	}
	if got.Stop == nil || *got.Stop != 9*1.05 {
		t.Errorf("stop should sit 5%% above entry, got %v", got.Stop)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"ma_cross_down"}) {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
}

func TestMACross_HoldWithoutCross(t *testing.T) {
	m := New()
	// Steadily rising closes: the short SMA stays above the long SMA.
	s := seriesOf(10, 11, 12, 13, 14)

	got, err := m.Compute(s, testParams(2, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Signal != core.SignalHold || got.Entry != nil || got.Stop != nil {
		t.Errorf("expected bare hold, got %+v", got)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"no_signal"}) {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
}

func TestMACross_InsufficientHistory(t *testing.T) {
	m := New()
	s := seriesOf(10, 11, 12)

	got, err := m.Compute(s, testParams(2, 3))
	if err != nil {
		t.Fatalf("insufficient history must not fail: %v", err)
	}
	if got.Signal != core.SignalHold || got.Confidence != 0 {
		t.Errorf("expected zero-confidence hold, got %+v", got)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"insufficient_history"}) {
		t.Errorf("unexpected reasons: %v", got.Reasons)
	}
}

func TestMACross_LongMustExceedShort(t *testing.T) {
	m := New()
	s := seriesOf(10, 11, 12, 13, 14, 15)

	_, err := m.Compute(s, testParams(5, 5))
	if err == nil {
		t.Fatal("expected error for long_period == short_period")
	}
	var pe *strategy.ParamError
	if !errors.As(err, &pe) || pe.Param != "long_period" {
		t.Errorf("expected ParamError on long_period, got %v", err)
	}
}

func TestMACross_Deterministic(t *testing.T) {
	m := New()
	s := seriesOf(12, 11, 10, 13)
	p := testParams(2, 3)

	a, err := m.Compute(s, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.Compute(s, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("compute is not deterministic: %+v vs %+v", a, b)
	}
}
