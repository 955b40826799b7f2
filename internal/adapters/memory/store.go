// Package memory implements ports.StateStore in process memory. It backs
// the serve command when no Redis address is configured and doubles as the
// reference implementation of the compare-and-set contract.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsmkit/fsmkit/pkg/domain"
)

// Store is an in-memory ports.StateStore.
type Store struct {
	mu     sync.RWMutex
	states map[string]domain.State
}

// New creates an empty store.
func New() *Store {
	return &Store{states: make(map[string]domain.State)}
}

// Load reads the stored state for id. A missing record loads as the empty
// state.
func (s *Store) Load(_ context.Context, id string) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[id], nil
}

// Save writes to for id iff the stored state still equals from, reporting
// domain.ErrStaleState otherwise.
func (s *Store) Save(_ context.Context, id string, from, to domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.states[id] != from {
		return fmt.Errorf("save %q: %w", id, domain.ErrStaleState)
	}
	s.states[id] = to
	return nil
}
