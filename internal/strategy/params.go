package strategy

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Params is the untyped parameter map accepted at the boundary (CLI flags,
// environment overrides, config files). Strategies convert it once into
// their own typed parameter struct.
type Params map[string]float64

// ParamType distinguishes integer-valued from real-valued parameters.
type ParamType string

const (
	ParamInt    ParamType = "integer"
	ParamNumber ParamType = "number"
)

// ParamSpec describes a single strategy parameter.
type ParamSpec struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Default     float64   `json:"default"`
	Min         float64   `json:"minimum"`
	Description string    `json:"description,omitempty"`
}

// Schema is the ordered parameter schema of a strategy.
type Schema []ParamSpec

// Defaults returns a fresh Params populated from the schema defaults.
func (s Schema) Defaults() Params {
	p := make(Params, len(s))
	for _, spec := range s {
		p[spec.Name] = spec.Default
	}
	return p
}

// Merge applies overrides on top of the schema defaults and validates the
// combined set. Unknown parameter names and per-parameter type/minimum
// violations fail with a *ParamError.
func (s Schema) Merge(overrides Params) (Params, error) {
	merged := s.Defaults()
	for name, value := range overrides {
		spec, ok := s.spec(name)
		if !ok {
			return nil, &ParamError{Param: name, Reason: "unknown parameter"}
		}
		if err := spec.check(value); err != nil {
			return nil, err
		}
		merged[name] = value
	}
	return merged, nil
}

func (s Schema) spec(name string) (ParamSpec, bool) {
	for _, spec := range s {
		if spec.Name == name {
			return spec, true
		}
	}
	return ParamSpec{}, false
}

func (p ParamSpec) check(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ParamError{Param: p.Name, Reason: "must be a finite number"}
	}
	if p.Type == ParamInt && value != math.Trunc(value) {
		return &ParamError{
			Param:  p.Name,
			Reason: fmt.Sprintf("must be an integer, got %v", value),
		}
	}
	if value < p.Min {
		return &ParamError{
			Param:  p.Name,
			Reason: fmt.Sprintf("must be >= %v, got %v", p.Min, value),
		}
	}
	return nil
}

// Int reads a parameter as int. The schema guarantees integer-typed values
// are whole numbers by the time Compute sees them.
func (p Params) Int(name string) int {
	return int(p[name])
}

// Float reads a parameter as float64.
func (p Params) Float(name string) float64 {
	return p[name]
}

// ParseOverrides decodes a flat JSON object of numeric overrides, the format
// carried by the TRADER_STRATEGY_PARAMS environment variable and the
// --params CLI flag. Callers treat a parse failure as a warning and fall
// back to defaults; it must never abort resolution.
func ParseOverrides(raw string) (Params, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var decoded map[string]float64
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("parsing parameter overrides: %w", err)
	}
	return Params(decoded), nil
}
