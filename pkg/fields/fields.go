// Package fields provides ready-made ports.Field implementations: closure
// adapters, map-backed records, and a protected in-memory slot whose value
// can only change through its accessor.
package fields

import (
	"fmt"

	"github.com/fsmkit/fsmkit/pkg/domain"
	"github.com/fsmkit/fsmkit/pkg/ports"
)

type funcField struct {
	name string
	get  func(inst any) (domain.State, error)
	set  func(inst any, s domain.State) error
}

// Func builds a field accessor from a pair of closures. This is the general
// adapter for entities that keep their state in an ordinary struct field.
func Func(name string, get func(inst any) (domain.State, error), set func(inst any, s domain.State) error) ports.Field {
	return &funcField{name: name, get: get, set: set}
}

func (f *funcField) Name() string { return f.name }

func (f *funcField) Get(inst any) (domain.State, error) { return f.get(inst) }

func (f *funcField) Set(inst any, s domain.State) error { return f.set(inst, s) }

type mapField struct {
	name string
	key  string
}

// Map builds a field accessor over map[string]any records, reading and
// writing the state under key. Used by the HTTP query surface, where
// instances are generic records loaded from a state store.
func Map(name, key string) ports.Field {
	return &mapField{name: name, key: key}
}

func (f *mapField) Name() string { return f.name }

func (f *mapField) Get(inst any) (domain.State, error) {
	rec, ok := inst.(map[string]any)
	if !ok {
		return "", fmt.Errorf("field %q: instance is %T, want map[string]any", f.name, inst)
	}
	switch v := rec[f.key].(type) {
	case domain.State:
		return v, nil
	case string:
		return domain.State(v), nil
	default:
		return "", fmt.Errorf("field %q: key %q holds %T, want state", f.name, f.key, rec[f.key])
	}
}

func (f *mapField) Set(inst any, s domain.State) error {
	rec, ok := inst.(map[string]any)
	if !ok {
		return fmt.Errorf("field %q: instance is %T, want map[string]any", f.name, inst)
	}
	rec[f.key] = s
	return nil
}
