package domain

import (
	"slices"
	"strings"
)

// State identifies one node of a machine. It is an opaque comparable value;
// the engine only ever tests states for equality, never for order.
type State string

// sourceKind selects the matching strategy of a SourceSpec.
type sourceKind int

const (
	sourceExplicit sourceKind = iota
	sourceAny
	sourceExceptTarget
)

// SourceSpec describes which current states a transition may start from.
//
// The zero value is an explicit empty set and matches nothing; construct
// specs with SourceOf, SourceAny, or SourceExceptTarget.
type SourceSpec struct {
	kind   sourceKind
	states []State
}

// SourceOf builds an explicit source set. Duplicates are collapsed,
// declaration order is preserved.
func SourceOf(states ...State) SourceSpec {
	out := make([]State, 0, len(states))
	for _, s := range states {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return SourceSpec{kind: sourceExplicit, states: out}
}

// SourceAny matches every current state.
var SourceAny = SourceSpec{kind: sourceAny}

// SourceExceptTarget matches every current state except the transition's
// own target. Against a dynamically resolved target the exclusion set is
// the full declared candidate set, not the single state eventually produced.
var SourceExceptTarget = SourceSpec{kind: sourceExceptTarget}

// Matches reports whether a transition with this source spec and the given
// target spec may start from current. Pure; no side effects.
func (s SourceSpec) Matches(current State, target TargetSpec) bool {
	switch s.kind {
	case sourceAny:
		return true
	case sourceExceptTarget:
		return !slices.Contains(target.Candidates(), current)
	default:
		return slices.Contains(s.states, current)
	}
}

// Explicit returns the explicit state set and true, or nil and false for
// wildcard specs.
func (s SourceSpec) Explicit() ([]State, bool) {
	if s.kind != sourceExplicit {
		return nil, false
	}
	return slices.Clone(s.states), true
}

// Overlaps reports whether two explicit source sets share at least one
// state. Wildcard specs overlap everything: two descriptors with the same
// name cannot disambiguate by source if either source is a wildcard.
func (s SourceSpec) Overlaps(other SourceSpec) bool {
	if s.kind != sourceExplicit || other.kind != sourceExplicit {
		return true
	}
	for _, st := range s.states {
		if slices.Contains(other.states, st) {
			return true
		}
	}
	return false
}

func (s SourceSpec) String() string {
	switch s.kind {
	case sourceAny:
		return "*"
	case sourceExceptTarget:
		return "+"
	default:
		parts := make([]string, len(s.states))
		for i, st := range s.states {
			parts[i] = string(st)
		}
		return strings.Join(parts, "|")
	}
}
