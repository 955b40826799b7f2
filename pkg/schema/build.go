package schema

import (
	"fmt"

	"github.com/fsmkit/fsmkit"
	"github.com/fsmkit/fsmkit/pkg/domain"
	"github.com/fsmkit/fsmkit/pkg/ports"
	"github.com/fsmkit/fsmkit/pkg/registry"
)

// Build registers every transition of a validated definition onto machine.
// Actions and conditions are resolved by name from funcs; an unbound name
// is fatal. fieldFor supplies the accessor for each declared field, letting
// the caller decide where instances keep their state.
func Build(def *Definition, funcs *registry.Registry, machine *fsmkit.Machine, fieldFor func(FieldDef) ports.Field) error {
	if err := Validate(def); err != nil {
		return err
	}
	for _, f := range def.Fields {
		acc := fieldFor(f)
		if acc == nil {
			return fmt.Errorf("field %q: no accessor supplied", f.Name)
		}
		for _, t := range f.Transitions {
			d, err := buildDescriptor(f, t, funcs)
			if err != nil {
				return err
			}
			if err := machine.Register(acc, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func buildDescriptor(f FieldDef, t TransitionDef, funcs *registry.Registry) (*domain.Descriptor, error) {
	actionName := t.Action
	if actionName == "" {
		actionName = t.Name
	}
	action, ok := funcs.Action(actionName)
	if !ok {
		return nil, fmt.Errorf("transition %q on field %q: action %q not registered", t.Name, f.Name, actionName)
	}

	b := domain.Transition(t.Name, action).To(domain.State(t.Target))

	switch wild, isWild := t.Wildcard(); {
	case isWild && wild == SourceWildcardAny:
		b.FromAny()
	case isWild:
		b.FromAnyExcept()
	default:
		states := make([]domain.State, len(t.Source))
		for i, s := range t.Source {
			states[i] = domain.State(s)
		}
		b.From(states...)
	}

	for _, name := range t.Conditions {
		cond, ok := funcs.Condition(name)
		if !ok {
			return nil, fmt.Errorf("transition %q on field %q: condition %q not registered", t.Name, f.Name, name)
		}
		b.When(cond)
	}

	if t.Permission != "" {
		b.Require(domain.PermissionID(t.Permission))
	}
	if t.OnError != "" {
		b.OnError(domain.State(t.OnError))
	}
	for k, v := range t.Custom {
		b.Meta(k, v)
	}

	return b.Build()
}
