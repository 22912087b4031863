package report

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hmasato/trader/internal/core"
)

// MemoryStore is an in-memory signal record store.
type MemoryStore struct {
	records []SignalRecord
	maxSize int
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with max capacity.
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		records: make([]SignalRecord, 0, maxSize),
		maxSize: maxSize,
	}
}

// Save adds a record to the store and assigns its ID.
func (m *MemoryStore) Save(ctx context.Context, record SignalRecord) (SignalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record.ID = uuid.NewString()
	m.records = append(m.records, record)

	// Trim if over capacity (remove oldest)
	if len(m.records) > m.maxSize {
		m.records = m.records[len(m.records)-m.maxSize:]
	}

	return record, nil
}

// GetByID retrieves a record by ID.
func (m *MemoryStore) GetByID(ctx context.Context, id string) (*SignalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.records {
		if m.records[i].ID == id {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, core.ErrNoData
}

// List returns records matching the filter, oldest first.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]SignalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []SignalRecord
	for _, rec := range m.records {
		if matches(rec, filter) {
			result = append(result, rec)
		}
	}

	// Apply offset and limit
	if filter.Offset >= len(result) {
		return []SignalRecord{}, nil
	}
	if filter.Offset > 0 {
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Count returns the count of matching records.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, rec := range m.records {
		if matches(rec, filter) {
			count++
		}
	}
	return count, nil
}

func matches(rec SignalRecord, filter ListFilter) bool {
	if filter.Symbol != "" && rec.Symbol != filter.Symbol {
		return false
	}
	if filter.Strategy != "" && rec.StrategyID != filter.Strategy {
		return false
	}
	if filter.Action != "" && rec.Result.Signal.String() != filter.Action {
		return false
	}
	if !filter.From.IsZero() && rec.Timestamp.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && rec.Timestamp.After(filter.To) {
		return false
	}
	return true
}
