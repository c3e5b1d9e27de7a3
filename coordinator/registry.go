package coordinator

import (
	"sync"

	"go.uber.org/zap"
)

// Invalidator is anything holding memoized pages for an entity.
// *Coordinator satisfies it.
type Invalidator interface {
	Invalidate()
}

// Registry routes entity mutations to the views listing that entity.
//
// Example:
//
//	registry.Register("purchases", purchasesList)
//	...
//	if err := api.CreatePurchase(ctx, p); err == nil {
//	    registry.Invalidate("purchases")
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]map[int]Invalidator
	nextID  int
	logger  *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		entries: map[string]map[int]Invalidator{},
		logger:  logger,
	}
}

// Register adds inv under entity. The returned function removes it.
func (r *Registry) Register(entity string, inv Invalidator) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	if r.entries[entity] == nil {
		r.entries[entity] = map[int]Invalidator{}
	}
	r.entries[entity][id] = inv

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.entries[entity], id)
		if len(r.entries[entity]) == 0 {
			delete(r.entries, entity)
		}
	}
}

// Invalidate invalidates every view registered under entity and returns how
// many were notified.
func (r *Registry) Invalidate(entity string) int {
	r.mu.RLock()
	targets := make([]Invalidator, 0, len(r.entries[entity]))
	for _, inv := range r.entries[entity] {
		targets = append(targets, inv)
	}
	r.mu.RUnlock()

	for _, inv := range targets {
		inv.Invalidate()
	}

	r.logger.Debug("entity invalidated", zap.String("entity", entity), zap.Int("views", len(targets)))
	return len(targets)
}
