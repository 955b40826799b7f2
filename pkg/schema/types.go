// Package schema loads declarative machine definitions from YAML. A
// definition names the fields, their states, and their transitions;
// actions, conditions, and permission callables stay in code and are bound
// by name through a registry at build time.
package schema

// Definition is the root of a machine definition document.
type Definition struct {
	Machine string     `mapstructure:"machine"`
	Fields  []FieldDef `mapstructure:"fields"`
}

// FieldDef declares one state-holding field: its state vocabulary, the
// initial state, and the transitions registered against it.
type FieldDef struct {
	Name        string          `mapstructure:"name"`
	Initial     string          `mapstructure:"initial"`
	States      []string        `mapstructure:"states"`
	Transitions []TransitionDef `mapstructure:"transitions"`
}

// TransitionDef declares one transition. Source accepts a single state, a
// list of states, or the wildcards "*" (any) and "+" (any except target).
// Declarative definitions support fixed targets only; outcome-mapped and
// computed targets carry Go values and are declared in code.
type TransitionDef struct {
	Name       string         `mapstructure:"name"`
	Source     []string       `mapstructure:"source"`
	Target     string         `mapstructure:"target"`
	OnError    string         `mapstructure:"on_error"`
	Permission string         `mapstructure:"permission"`
	Conditions []string       `mapstructure:"conditions"`
	Action     string         `mapstructure:"action"`
	Custom     map[string]any `mapstructure:"custom"`
}

// Wildcard source values accepted in definitions.
const (
	SourceWildcardAny          = "*"
	SourceWildcardExceptTarget = "+"
)

// Wildcard reports whether the source is one of the wildcard forms.
func (t TransitionDef) Wildcard() (string, bool) {
	if len(t.Source) == 1 && (t.Source[0] == SourceWildcardAny || t.Source[0] == SourceWildcardExceptTarget) {
		return t.Source[0], true
	}
	return "", false
}
