package domain

import (
	"context"
	"fmt"
)

// Descriptor is the immutable definition of one declared transition. It is
// created once through the builder, owned by the machine it is registered
// on, and safe to share across goroutines after registration.
type Descriptor struct {
	name       string
	source     SourceSpec
	target     TargetSpec
	conditions Conditions
	permission Permission
	onError    State
	hasOnError bool
	custom     map[string]any
	action     Action
}

// Builder accumulates a transition definition. Terminate with Build.
type Builder struct {
	d   Descriptor
	err error
}

// Transition starts a descriptor for the named side-effect operation.
// action runs only after every gate has passed; a nil action is rejected
// at Build time.
func Transition(name string, action Action) *Builder {
	return &Builder{d: Descriptor{name: name, action: action}}
}

// From restricts the transition to an explicit set of source states.
func (b *Builder) From(states ...State) *Builder {
	b.d.source = SourceOf(states...)
	return b
}

// FromAny lets the transition start from every state.
func (b *Builder) FromAny() *Builder {
	b.d.source = SourceAny
	return b
}

// FromAnyExcept lets the transition start from every state except its own
// target candidates.
func (b *Builder) FromAnyExcept() *Builder {
	b.d.source = SourceExceptTarget
	return b
}

// To sets a fixed target state.
func (b *Builder) To(s State) *Builder {
	b.d.target = Fixed(s)
	return b
}

// ToOutcome maps the action's return value to a target state.
func (b *Builder) ToOutcome(outcomes map[any]State) *Builder {
	b.d.target = ByOutcome(outcomes)
	return b
}

// ToComputed resolves the target through fn, constrained to candidates.
func (b *Builder) ToComputed(fn ComputedFunc, candidates ...State) *Builder {
	b.d.target = Computed(fn, candidates...)
	return b
}

// When appends guard conditions, evaluated in declaration order.
func (b *Builder) When(conds ...Condition) *Builder {
	b.d.conditions = append(b.d.conditions, conds...)
	return b
}

// Require attaches a permission check.
func (b *Builder) Require(p Permission) *Builder {
	b.d.permission = p
	return b
}

// OnError routes the instance to s when the action fails. Without it a
// failing action leaves the current state untouched.
func (b *Builder) OnError(s State) *Builder {
	b.d.onError = s
	b.d.hasOnError = true
	return b
}

// Meta attaches one opaque metadata entry. The engine never interprets it;
// it is carried through the query surface for UI and authorization layers.
func (b *Builder) Meta(key string, value any) *Builder {
	if b.d.custom == nil {
		b.d.custom = make(map[string]any)
	}
	b.d.custom[key] = value
	return b
}

// Build finalizes the descriptor. It fails on a missing name, a nil action,
// or an unset target; the returned descriptor is never mutated afterwards.
func (b *Builder) Build() (*Descriptor, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.d.name == "" {
		return nil, fmt.Errorf("transition descriptor: empty name")
	}
	if b.d.action == nil {
		return nil, fmt.Errorf("transition %q: nil action", b.d.name)
	}
	if len(b.d.target.candidates) == 0 && b.d.target.kind == targetFixed && b.d.target.fixed == "" {
		return nil, fmt.Errorf("transition %q: no target declared", b.d.name)
	}
	d := b.d
	d.conditions = b.d.conditions.clone()
	return &d, nil
}

// MustBuild is Build for static registrations where a definition error is a
// programming bug.
func (b *Builder) MustBuild() *Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

// Name identifies the side-effect operation.
func (d *Descriptor) Name() string { return d.name }

// Source returns the source spec.
func (d *Descriptor) Source() SourceSpec { return d.source }

// Target returns the target resolution spec.
func (d *Descriptor) Target() TargetSpec { return d.target }

// Conditions returns the guard sequence. The returned slice is a copy.
func (d *Descriptor) Conditions() Conditions { return d.conditions.clone() }

// Permission returns the declared permission spec (zero if none).
func (d *Descriptor) Permission() Permission { return d.permission }

// OnError returns the declared error fallback state, if any.
func (d *Descriptor) OnError() (State, bool) { return d.onError, d.hasOnError }

// Custom returns a copy of the opaque metadata attached at build time.
func (d *Descriptor) Custom() map[string]any {
	if d.custom == nil {
		return nil
	}
	out := make(map[string]any, len(d.custom))
	for k, v := range d.custom {
		out[k] = v
	}
	return out
}

// Invoke runs the side-effect action.
func (d *Descriptor) Invoke(ctx context.Context, inst any, args Args) (any, error) {
	return d.action(ctx, inst, args)
}

// Matches reports whether the descriptor may start from current.
func (d *Descriptor) Matches(current State) bool {
	return d.source.Matches(current, d.target)
}
