package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransitionNotAllowed signals that a transition gate (source match,
	// condition, or permission) rejected an invocation. Availability queries
	// reduce the same rejections to a boolean instead.
	ErrTransitionNotAllowed = errors.New("transition not allowed")

	// ErrInvalidResolverOutcome signals a target resolution outside the
	// declared candidate set. This is a configuration error; it is never
	// retried and commits nothing.
	ErrInvalidResolverOutcome = errors.New("invalid resolver outcome")

	// ErrStaleState is reported by persistence collaborators when the stored
	// state diverged from the state read at transition start. The engine
	// itself never returns it; stores do.
	ErrStaleState = errors.New("stale state")
)

// ConditionError is the rejection of a single guard condition. It never
// escapes an availability or condition check; the engine collapses it to a
// boolean or a Failure entry.
type ConditionError struct {
	Reason string
}

// Fail builds a condition rejection carrying a human-readable reason.
func Fail(reason string) error {
	return &ConditionError{Reason: reason}
}

func (e *ConditionError) Error() string {
	if e.Reason == "" {
		return "condition failed"
	}
	return "condition failed: " + e.Reason
}

// NotAllowedError reports why an invocation was rejected before its side
// effect ran. It unwraps to ErrTransitionNotAllowed.
type NotAllowedError struct {
	Field      string
	Transition string
	Current    State
	Reason     string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("transition %q on field %q not allowed from state %q: %s",
		e.Transition, e.Field, e.Current, e.Reason)
}

func (e *NotAllowedError) Unwrap() error { return ErrTransitionNotAllowed }

// ResolverOutcomeError reports a target resolution that produced a value
// outside the declared candidate set, or an action return value with no
// mapping. It unwraps to ErrInvalidResolverOutcome.
type ResolverOutcomeError struct {
	Transition string
	Outcome    any
	Candidates []State
}

func (e *ResolverOutcomeError) Error() string {
	return fmt.Sprintf("transition %q resolved to unmapped outcome %v (candidates %v)",
		e.Transition, e.Outcome, e.Candidates)
}

func (e *ResolverOutcomeError) Unwrap() error { return ErrInvalidResolverOutcome }

// RegistrationError rejects a descriptor whose explicit source set overlaps
// another descriptor with the same field and name. Registration is a setup
// phase; this error is fatal to it.
type RegistrationError struct {
	Field      string
	Transition string
	States     []State
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("transition %q on field %q: overlapping source states %v",
		e.Transition, e.Field, e.States)
}
