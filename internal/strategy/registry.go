package strategy

import (
	"fmt"
	"sync"

	"github.com/hmasato/trader/internal/core"
	"go.uber.org/zap"
)

// FallbackReasonMissingVolume is recorded on a resolution when a
// volume-requiring strategy was substituted because the series had no volume.
const FallbackReasonMissingVolume = "missing_volume_data"

// Resolution is the outcome of resolving a strategy id against a series.
// EffectiveID and FallbackApplied are always surfaced so callers can log and
// persist the substitution.
type Resolution struct {
	Strategy        Strategy
	RequestedID     string // empty when the registry default was used
	EffectiveID     string
	FallbackApplied bool
	FallbackReason  string
}

// Registry holds the set of registered strategies keyed by id, with one
// designated default id and a fallback target for volume-requiring
// strategies resolved against volume-less series.
type Registry struct {
	mu          sync.RWMutex
	order       []string
	strategies  map[string]Strategy
	recommended map[string]bool
	defaultID   string
	fallbackID  string
	logger      *zap.Logger
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithDefault sets the id used when no strategy is requested.
func WithDefault(id string) Option {
	return func(r *Registry) { r.defaultID = id }
}

// WithFallback sets the substitution target for volume-requiring strategies
// on volume-less series. The target must be registered and must not itself
// require volume.
func WithFallback(id string) Option {
	return func(r *Registry) { r.fallbackID = id }
}

// WithLogger sets the registry logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry. Both the default id and the
// fallback target default to "bb_squeeze".
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		strategies:  make(map[string]Strategy),
		recommended: make(map[string]bool),
		defaultID:   "bb_squeeze",
		fallbackID:  "bb_squeeze",
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a strategy. Re-registering an id replaces the previous
// implementation and keeps its original position in the listing order.
func (r *Registry) Register(s Strategy, recommended bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := s.ID()
	if _, exists := r.strategies[id]; !exists {
		r.order = append(r.order, id)
	} else {
		r.logger.Warn("strategy already registered, overwriting", zap.String("strategy", id))
	}
	r.strategies[id] = s
	r.recommended[id] = recommended
}

// Get retrieves a strategy by id, failing with *NotFoundError when unknown.
func (r *Registry) Get(id string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(id)
}

func (r *Registry) getLocked(id string) (Strategy, error) {
	s, ok := r.strategies[id]
	if !ok {
		available := make([]string, len(r.order))
		copy(available, r.order)
		return nil, &NotFoundError{ID: id, Available: available}
	}
	return s, nil
}

// List returns descriptors for every registered strategy in registration
// order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		s := r.strategies[id]
		out = append(out, Descriptor{
			ID:             id,
			Name:           s.Name(),
			RequiresVolume: s.RequiresVolume(),
			Recommended:    r.recommended[id],
			Schema:         s.ParamSchema(),
		})
	}
	return out
}

// DefaultID returns the id used when no strategy is requested.
func (r *Registry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

// Resolve selects the strategy for id (the registry default when id is
// empty) and applies the volume fallback: a strategy that requires volume
// resolved against a series without usable volume is substituted with the
// fallback target. Fallback never fails for the caller's data, but a
// missing or volume-requiring fallback target is a configuration error.
func (r *Registry) Resolve(id string, series core.Series) (Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requested := id
	if id == "" {
		id = r.defaultID
	}

	s, err := r.getLocked(id)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{
		Strategy:    s,
		RequestedID: requested,
		EffectiveID: id,
	}

	if !s.RequiresVolume() || series.VolumeAvailable() {
		return res, nil
	}

	fb, err := r.getLocked(r.fallbackID)
	if err != nil {
		return Resolution{}, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("fallback target %q is not registered", r.fallbackID))
	}
	if fb.RequiresVolume() {
		return Resolution{}, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("fallback target %q requires volume itself", r.fallbackID))
	}

	r.logger.Warn("strategy requires volume data but none found, falling back",
		zap.String("requested", id),
		zap.String("fallback", r.fallbackID),
	)

	res.Strategy = fb
	res.EffectiveID = r.fallbackID
	res.FallbackApplied = true
	res.FallbackReason = FallbackReasonMissingVolume
	return res, nil
}

// ResolveAndCompute composes resolution, parameter merging, and compute.
// Overrides target the requested strategy; when the volume fallback is
// applied they no longer fit and the fallback runs on its own defaults.
func (r *Registry) ResolveAndCompute(id string, series core.Series, overrides Params) (core.SignalResult, Resolution, error) {
	res, err := r.Resolve(id, series)
	if err != nil {
		return core.SignalResult{}, Resolution{}, err
	}

	params := overrides
	if res.FallbackApplied {
		params = nil
	}

	merged, err := res.Strategy.ParamSchema().Merge(params)
	if err != nil {
		return core.SignalResult{}, res, err
	}

	result, err := res.Strategy.Compute(series, merged)
	if err != nil {
		return core.SignalResult{}, res, err
	}
	return result, res, nil
}
