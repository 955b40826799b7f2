package ports

import (
	"context"

	"github.com/fsmkit/fsmkit/pkg/domain"
)

// StateStore is the persistence collaborator. The engine commits only to
// the in-memory field; callers load the state before a transition and save
// it after Commit returns, through an implementation of this interface.
//
// Save is compare-and-set: it must report domain.ErrStaleState when the
// stored value no longer equals from, so a caller racing with another
// writer learns its read went stale instead of silently clobbering it.
type StateStore interface {
	// Load reads the stored state for id.
	Load(ctx context.Context, id string) (domain.State, error)
	// Save writes to for id iff the stored state still equals from.
	Save(ctx context.Context, id string, from, to domain.State) error
}
