package schema

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load parses a YAML machine definition. The document is first unmarshalled
// generically and then decoded with mapstructure so that scalar sources
// ("source: new") and list sources ("source: [new, draft]") both land in
// TransitionDef.Source.
func Load(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse machine definition: %w", err)
	}

	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &def,
		DecodeHook: scalarToSliceHook,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode machine definition: %w", err)
	}
	return &def, nil
}

// scalarToSliceHook lets a lone string satisfy a []string field.
func scalarToSliceHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to.Kind() == reflect.Slice && to.Elem().Kind() == reflect.String {
		return []string{data.(string)}, nil
	}
	return data, nil
}

// Validate checks a definition for internal consistency: named, non-empty
// state vocabularies; targets, sources, and on-error states drawn from the
// vocabulary; no duplicate field names. Binding errors (unknown actions or
// conditions) surface later, at Build time, because they depend on the
// registry.
func Validate(def *Definition) error {
	if def.Machine == "" {
		return fmt.Errorf("definition: missing machine name")
	}
	seen := make(map[string]bool)
	for _, f := range def.Fields {
		if f.Name == "" {
			return fmt.Errorf("machine %q: field with empty name", def.Machine)
		}
		if seen[f.Name] {
			return fmt.Errorf("machine %q: duplicate field %q", def.Machine, f.Name)
		}
		seen[f.Name] = true
		if len(f.States) == 0 {
			return fmt.Errorf("field %q: no states declared", f.Name)
		}
		states := make(map[string]bool, len(f.States))
		for _, s := range f.States {
			states[s] = true
		}
		if f.Initial != "" && !states[f.Initial] {
			return fmt.Errorf("field %q: initial state %q not declared", f.Name, f.Initial)
		}
		for _, t := range f.Transitions {
			if t.Name == "" {
				return fmt.Errorf("field %q: transition with empty name", f.Name)
			}
			if t.Target == "" {
				return fmt.Errorf("transition %q on field %q: missing target", t.Name, f.Name)
			}
			if !states[t.Target] {
				return fmt.Errorf("transition %q on field %q: target %q not declared", t.Name, f.Name, t.Target)
			}
			if t.OnError != "" && !states[t.OnError] {
				return fmt.Errorf("transition %q on field %q: on_error state %q not declared", t.Name, f.Name, t.OnError)
			}
			if _, wild := t.Wildcard(); wild {
				continue
			}
			if len(t.Source) == 0 {
				return fmt.Errorf("transition %q on field %q: missing source", t.Name, f.Name)
			}
			for _, s := range t.Source {
				if !states[s] {
					return fmt.Errorf("transition %q on field %q: source %q not declared", t.Name, f.Name, s)
				}
			}
		}
	}
	return nil
}
