package domain

// Variants dispatches state-specific behavior by current state. It replaces
// runtime reclassification of an instance into a state-specific subtype:
// the behavior is looked up at read time, the instance's type never changes.
type Variants[T any] map[State]T

// Resolve returns the behavior registered for s.
func (v Variants[T]) Resolve(s State) (T, bool) {
	t, ok := v[s]
	return t, ok
}

// ResolveOr returns the behavior registered for s, or fallback when none is.
func (v Variants[T]) ResolveOr(s State, fallback T) T {
	if t, ok := v[s]; ok {
		return t
	}
	return fallback
}
