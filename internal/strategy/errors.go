package strategy

import (
	"fmt"
	"strings"

	"github.com/hmasato/trader/internal/core"
)

// NotFoundError is returned when an explicitly requested strategy id is not
// registered. Available carries the registered ids so callers can present
// them to the user.
type NotFoundError struct {
	ID        string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("strategy %q not found (available: %s)",
		e.ID, strings.Join(e.Available, ", "))
}

// Unwrap ties the error into the core taxonomy for errors.Is checks.
func (e *NotFoundError) Unwrap() error { return core.ErrStrategyNotFound }

// ParamError is returned when a supplied parameter violates its schema or is
// inconsistent with another parameter.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
}

// Unwrap ties the error into the core taxonomy for errors.Is checks.
func (e *ParamError) Unwrap() error { return core.ErrParamInvalid }
