package ports

import "github.com/fsmkit/fsmkit/pkg/domain"

// Field abstracts how an instance's current state is read and written. The
// engine never assumes a storage medium: the accessor may read a struct
// field, a map entry, or anything else addressable in memory. Set commits
// in memory only; durable persistence is the caller's concern after a
// transition returns.
type Field interface {
	// Name identifies the field; descriptors are registered against it.
	Name() string
	// Get reads the instance's current state.
	Get(inst any) (domain.State, error)
	// Set writes the resolved state onto the instance.
	Set(inst any, s domain.State) error
}
