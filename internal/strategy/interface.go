// Package strategy defines the trading strategy plugin interface and the
// registry that resolves strategy ids with volume-aware fallback.
package strategy

import (
	"github.com/hmasato/trader/internal/core"
)

// Strategy is the capability set every trading strategy implements.
// Compute never fails for data-shape reasons inside its valid operating
// range: insufficient history yields a hold result, not an error.
type Strategy interface {
	// ID returns the unique registry key, e.g. "ma_cross".
	ID() string
	// Name returns the human-readable name.
	Name() string
	// RequiresVolume reports whether the strategy needs volume data.
	RequiresVolume() bool
	// DefaultParams returns the parameter defaults; they always satisfy
	// ParamSchema, so every strategy is callable with an empty override set.
	DefaultParams() Params
	// ParamSchema describes the accepted parameters.
	ParamSchema() Schema
	// Compute evaluates the series and produces a signal.
	Compute(series core.Series, params Params) (core.SignalResult, error)
}

// Descriptor is registry metadata for a registered strategy.
type Descriptor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	RequiresVolume bool   `json:"requires_volume"`
	Recommended    bool   `json:"recommended"`
	Schema         Schema `json:"param_schema"`
}
