package nutrimap

import (
	"sync"

	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Hook function types for lookup events
type (
	// ReconciledHook is called after a record has been built for a food,
	// including degraded reference-only records.
	ReconciledHook func(food nutrition.FoodIdentity, record *nutrition.ReconciledNutrition)

	// ProviderErrorHook is called when a provider fails during a details
	// lookup and its answer is dropped.
	ProviderErrorHook func(provider types.ProviderID, err error)
)

// hooks manages event callbacks for lookups
type hooks struct {
	mu              sync.RWMutex
	onReconciled    []ReconciledHook
	onProviderError []ProviderErrorHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnReconciled registers a callback for built records
func (h *hooks) OnReconciled(fn ReconciledHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReconciled = append(h.onReconciled, fn)
}

// OnProviderError registers a callback for dropped provider answers
func (h *hooks) OnProviderError(fn ProviderErrorHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onProviderError = append(h.onProviderError, fn)
}

// triggerReconciled calls every reconciled hook
func (h *hooks) triggerReconciled(food nutrition.FoodIdentity, record *nutrition.ReconciledNutrition) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onReconciled {
		fn(food, record)
	}
}

// triggerProviderError calls every provider error hook
func (h *hooks) triggerProviderError(provider types.ProviderID, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onProviderError {
		fn(provider, err)
	}
}
