package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_RecordSignal(t *testing.T) {
	r := NewRegistry()

	r.RecordSignal("ma_cross", "buy")
	r.RecordSignal("ma_cross", "buy")
	r.RecordSignal("bb_squeeze", "hold")

	if got := testutil.ToFloat64(r.signalsComputed.WithLabelValues("ma_cross", "buy")); got != 2 {
		t.Errorf("expected 2 ma_cross buys, got %v", got)
	}
	if got := testutil.ToFloat64(r.signalsComputed.WithLabelValues("bb_squeeze", "hold")); got != 1 {
		t.Errorf("expected 1 bb_squeeze hold, got %v", got)
	}
}

func TestRegistry_RecordFallback(t *testing.T) {
	r := NewRegistry()

	r.RecordFallback("breakout_volume", "bb_squeeze")

	if got := testutil.ToFloat64(r.fallbacks.WithLabelValues("breakout_volume", "bb_squeeze")); got != 1 {
		t.Errorf("expected 1 fallback, got %v", got)
	}
}

func TestRegistry_RecordGateEvaluation(t *testing.T) {
	r := NewRegistry()

	r.RecordGateEvaluation("live", "FAIL")

	if got := testutil.ToFloat64(r.gateEvaluations.WithLabelValues("live", "FAIL")); got != 1 {
		t.Errorf("expected 1 gate evaluation, got %v", got)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.RecordSignal("ma_cross", "sell")
	r.RecordComputeDuration(0.002)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "trader_signals_computed_total") {
		t.Error("exposition should contain trader_signals_computed_total")
	}
	if !strings.Contains(body, "trader_signal_compute_duration_seconds") {
		t.Error("exposition should contain the compute duration histogram")
	}
}
