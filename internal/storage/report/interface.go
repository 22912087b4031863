// Package report persists computed signal records for later inspection.
package report

import (
	"context"
	"time"

	"github.com/hmasato/trader/internal/core"
)

// SignalRecord is one computed signal with its resolution context.
type SignalRecord struct {
	ID              string            `json:"id"`
	Symbol          string            `json:"symbol"`
	StrategyID      string            `json:"strategy_id"`
	RequestedID     string            `json:"requested_id,omitempty"`
	FallbackApplied bool              `json:"fallback_applied,omitempty"`
	Mode            core.Mode         `json:"mode"`
	Timestamp       time.Time         `json:"timestamp"`
	Result          core.SignalResult `json:"result"`
}

// Store defines the interface for signal record persistence.
type Store interface {
	// Save persists a record, assigning its ID.
	Save(ctx context.Context, record SignalRecord) (SignalRecord, error)

	// GetByID retrieves a record by its ID.
	GetByID(ctx context.Context, id string) (*SignalRecord, error)

	// List retrieves records matching the filter.
	List(ctx context.Context, filter ListFilter) ([]SignalRecord, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter defines criteria for listing signal records.
type ListFilter struct {
	Symbol   string
	Strategy string
	Action   string // "buy", "sell" or "hold"
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}
