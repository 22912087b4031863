package strategy

import (
	"errors"
	"testing"

	"github.com/hmasato/trader/internal/core"
)

func testSchema() Schema {
	return Schema{
		{Name: "period", Type: ParamInt, Default: 20, Min: 2},
		{Name: "mult", Type: ParamNumber, Default: 2.0, Min: 0.5},
	}
}

func TestSchema_Defaults(t *testing.T) {
	p := testSchema().Defaults()
	if p["period"] != 20 || p["mult"] != 2.0 {
		t.Errorf("unexpected defaults: %v", p)
	}
}

func TestSchema_Merge_Overrides(t *testing.T) {
	merged, err := testSchema().Merge(Params{"period": 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["period"] != 10 {
		t.Errorf("override not applied: %v", merged)
	}
	if merged["mult"] != 2.0 {
		t.Errorf("default lost: %v", merged)
	}
}

func TestSchema_Merge_UnknownParam(t *testing.T) {
	_, err := testSchema().Merge(Params{"bogus": 1})
	if err == nil {
		t.Fatal("expected error for unknown parameter")
	}
	var pe *ParamError
	if !errors.As(err, &pe) || pe.Param != "bogus" {
		t.Errorf("expected ParamError for bogus, got %v", err)
	}
}

func TestSchema_Merge_BelowMinimum(t *testing.T) {
	_, err := testSchema().Merge(Params{"period": 1})
	if err == nil {
		t.Fatal("expected error for value below minimum")
	}
	if !errors.Is(err, core.ErrParamInvalid) {
		t.Errorf("expected PARAM_INVALID, got %v", err)
	}
}

func TestSchema_Merge_NonIntegerForIntParam(t *testing.T) {
	if _, err := testSchema().Merge(Params{"period": 10.5}); err == nil {
		t.Fatal("expected error for fractional integer parameter")
	}
	// Fractions are fine for number-typed parameters.
	if _, err := testSchema().Merge(Params{"mult": 1.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseOverrides(t *testing.T) {
	p, err := ParseOverrides(`{"short_period": 5, "long_period": 30}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p["short_period"] != 5 || p["long_period"] != 30 {
		t.Errorf("unexpected params: %v", p)
	}
}

func TestParseOverrides_Empty(t *testing.T) {
	p, err := ParseOverrides("  ")
	if err != nil || p != nil {
		t.Errorf("empty input should yield nil params, got %v, %v", p, err)
	}
}

func TestParseOverrides_Malformed(t *testing.T) {
	if _, err := ParseOverrides(`{"short_period": `); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	// Non-numeric values are malformed too.
	if _, err := ParseOverrides(`{"short_period": "fast"}`); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}
