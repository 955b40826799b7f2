package domain

import "context"

// TransitionEvent describes one transition attempt to notification hooks.
// Target is empty on the before hook when the target is dynamically
// resolved: at that point only the action's outcome can determine it.
type TransitionEvent struct {
	ID       string
	Field    string
	Name     string
	Source   State
	Target   State
	Instance any
}

// Hooks are the optional notification callbacks around a transition. The
// engine does not recover panics raised inside them; a failing hook aborts
// the caller the same way any other panic would.
type Hooks struct {
	BeforeTransition func(context.Context, *TransitionEvent)
	AfterTransition  func(context.Context, *TransitionEvent)
}

// EmitBefore fires the before hook if one is registered.
func (h Hooks) EmitBefore(ctx context.Context, ev *TransitionEvent) {
	if h.BeforeTransition != nil {
		h.BeforeTransition(ctx, ev)
	}
}

// EmitAfter fires the after hook if one is registered.
func (h Hooks) EmitAfter(ctx context.Context, ev *TransitionEvent) {
	if h.AfterTransition != nil {
		h.AfterTransition(ctx, ev)
	}
}
