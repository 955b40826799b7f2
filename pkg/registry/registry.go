// Package registry maps names to action and condition functions so that
// declarative machine definitions can reference code by name.
package registry

import (
	"sync"

	"github.com/fsmkit/fsmkit/pkg/domain"
)

// Registry manages the named actions and conditions available to
// declarative machine definitions.
type Registry struct {
	mu         sync.RWMutex
	actions    map[string]domain.Action
	conditions map[string]domain.Condition
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		actions:    make(map[string]domain.Action),
		conditions: make(map[string]domain.Condition),
	}
}

// RegisterAction adds an action under name. An existing entry with the same
// name is overwritten.
func (r *Registry) RegisterAction(name string, fn domain.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// RegisterCondition adds a condition under name. An existing entry with the
// same name is overwritten.
func (r *Registry) RegisterCondition(name string, fn domain.Condition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[name] = fn
}

// Action looks up an action by name.
func (r *Registry) Action(name string) (domain.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[name]
	return fn, ok
}

// Condition looks up a condition by name.
func (r *Registry) Condition(name string) (domain.Condition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.conditions[name]
	return fn, ok
}
