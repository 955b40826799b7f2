package domain

import (
	"context"
	"slices"
)

// Args carries the caller-supplied arguments of a transition invocation,
// passed through to the side-effect action and to computed target resolvers.
type Args map[string]any

// Action is the side effect of a transition. It runs only after every gate
// (source match, conditions, permission) has passed. Its return value feeds
// outcome-mapped target resolution; its error aborts the transition.
type Action func(ctx context.Context, inst any, args Args) (any, error)

// ComputedFunc resolves a target state from the instance, the invocation
// arguments, and the declared candidate set. It runs strictly after the
// action has succeeded and must return a member of candidates.
type ComputedFunc func(inst any, args Args, candidates []State) (State, error)

type targetKind int

const (
	targetFixed targetKind = iota
	targetOutcome
	targetComputed
)

// TargetSpec describes how the post-transition state is computed. Three
// strategies exist, selected at build time: a fixed state, a lookup of the
// action's return value, or a resolver function over a declared candidate
// set. The zero value is not valid; the descriptor builder rejects it.
type TargetSpec struct {
	kind       targetKind
	fixed      State
	outcomes   map[any]State
	resolve    ComputedFunc
	candidates []State
}

// Fixed targets a constant state regardless of the action's outcome.
func Fixed(s State) TargetSpec {
	return TargetSpec{kind: targetFixed, fixed: s, candidates: []State{s}}
}

// ByOutcome looks the action's return value up in outcomes after the action
// completes. An unmapped return value is a configuration error surfaced as
// ResolverOutcomeError at execution time.
func ByOutcome(outcomes map[any]State) TargetSpec {
	candidates := make([]State, 0, len(outcomes))
	for _, s := range outcomes {
		if !slices.Contains(candidates, s) {
			candidates = append(candidates, s)
		}
	}
	cloned := make(map[any]State, len(outcomes))
	for k, v := range outcomes {
		cloned[k] = v
	}
	return TargetSpec{kind: targetOutcome, outcomes: cloned, candidates: candidates}
}

// Computed delegates resolution to fn, constrained to candidates. A result
// outside candidates is a configuration error surfaced as
// ResolverOutcomeError.
func Computed(fn ComputedFunc, candidates ...State) TargetSpec {
	return TargetSpec{kind: targetComputed, resolve: fn, candidates: slices.Clone(candidates)}
}

// Candidates returns every state this spec can resolve to. For a fixed
// target this is a single-element set.
func (t TargetSpec) Candidates() []State {
	return slices.Clone(t.candidates)
}

// Dynamic reports whether resolution depends on the invocation rather than
// being a registration-time constant.
func (t TargetSpec) Dynamic() bool {
	return t.kind != targetFixed
}

// Resolve computes the post-transition state for one successful invocation.
// outcome is the action's return value; inst and args are the invocation's
// instance and arguments. Only called after the action succeeded.
func (t TargetSpec) Resolve(transition string, inst any, args Args, outcome any) (State, error) {
	switch t.kind {
	case targetOutcome:
		s, ok := t.outcomes[outcome]
		if !ok {
			return "", &ResolverOutcomeError{Transition: transition, Outcome: outcome, Candidates: t.Candidates()}
		}
		return s, nil
	case targetComputed:
		s, err := t.resolve(inst, args, t.Candidates())
		if err != nil {
			return "", err
		}
		if !slices.Contains(t.candidates, s) {
			return "", &ResolverOutcomeError{Transition: transition, Outcome: s, Candidates: t.Candidates()}
		}
		return s, nil
	default:
		return t.fixed, nil
	}
}

func (t TargetSpec) String() string {
	if t.kind == targetFixed {
		return string(t.fixed)
	}
	return "<dynamic>"
}
