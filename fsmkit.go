package fsmkit

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/fsmkit/fsmkit/internal/runtime"
	"github.com/fsmkit/fsmkit/pkg/domain"
	"github.com/fsmkit/fsmkit/pkg/observability"
	"github.com/fsmkit/fsmkit/pkg/ports"
)

// Machine is a transition catalog plus the executor that runs it. Create
// one per field-owning type, register every transition during setup, and
// treat it as immutable afterwards; registration is not safe against
// concurrent queries.
type Machine struct {
	logger      *slog.Logger
	exec        *runtime.Executor
	fields      map[string]ports.Field
	transitions map[string][]*domain.Descriptor
	execOpts    []runtime.Option
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the structured logger used by the machine and executor.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = l
		m.execOpts = append(m.execOpts, runtime.WithLogger(l))
	}
}

// WithAuthorizer sets the collaborator resolving identifier-form
// permissions.
func WithAuthorizer(a ports.Authorizer) Option {
	return func(m *Machine) {
		m.execOpts = append(m.execOpts, runtime.WithAuthorizer(a))
	}
}

// WithHooks registers before/after transition notification callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(m *Machine) {
		m.execOpts = append(m.execOpts, runtime.WithHooks(h))
	}
}

// WithMetrics attaches a Prometheus collector to the executor.
func WithMetrics(c *observability.Collector) Option {
	return func(m *Machine) {
		m.execOpts = append(m.execOpts, runtime.WithMetrics(c))
	}
}

// WithClock overrides the executor's time source. Test seam.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.execOpts = append(m.execOpts, runtime.WithClock(now))
	}
}

// New creates a machine.
func New(opts ...Option) *Machine {
	m := &Machine{
		logger:      slog.New(slog.DiscardHandler),
		fields:      make(map[string]ports.Field),
		transitions: make(map[string][]*domain.Descriptor),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.exec = runtime.New(m.execOpts...)
	return m
}

// Register adds a descriptor for field. Two descriptors with the same field
// and name must have disjoint explicit source sets; a wildcard source
// cannot share a name with anything else. Violations are registration-time
// fatal.
func (m *Machine) Register(field ports.Field, d *domain.Descriptor) error {
	name := field.Name()
	if existing, ok := m.fields[name]; ok && existing != field {
		return fmt.Errorf("field %q already bound to a different accessor", name)
	}

	for _, other := range m.transitions[name] {
		if other.Name() != d.Name() {
			continue
		}
		if d.Source().Overlaps(other.Source()) {
			states, _ := d.Source().Explicit()
			return &domain.RegistrationError{Field: name, Transition: d.Name(), States: states}
		}
	}

	m.fields[name] = field
	m.transitions[name] = append(m.transitions[name], d)
	m.logger.Debug("transition registered",
		"field", name, "transition", d.Name(), "source", d.Source().String(), "target", d.Target().String())
	return nil
}

// MustRegister is Register for static setup code where a registration error
// is a programming bug.
func (m *Machine) MustRegister(field ports.Field, d *domain.Descriptor) {
	if err := m.Register(field, d); err != nil {
		panic(err)
	}
}

// Field returns the accessor registered under name.
func (m *Machine) Field(name string) (ports.Field, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// FieldNames lists every field with registered transitions, sorted.
func (m *Machine) FieldNames() []string {
	names := make([]string, 0, len(m.fields))
	for name := range m.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns every descriptor registered for field, in registration order.
// The sequence is restartable: each range starts over.
func (m *Machine) All(field string) iter.Seq[*domain.Descriptor] {
	descs := m.transitions[field]
	return func(yield func(*domain.Descriptor) bool) {
		for _, d := range descs {
			if !yield(d) {
				return
			}
		}
	}
}

// Available filters All down to descriptors whose source matches inst's
// current state and whose conditions pass. Permission is not consulted.
// Never fails: an unreadable state yields an empty result.
func (m *Machine) Available(field string, inst any) []*domain.Descriptor {
	acc, ok := m.fields[field]
	if !ok {
		return nil
	}
	var out []*domain.Descriptor
	for d := range m.All(field) {
		if m.exec.Available(acc, inst, d) {
			out = append(out, d)
		}
	}
	return out
}

// AvailableFor additionally filters by the principal's permission.
func (m *Machine) AvailableFor(ctx context.Context, field string, inst, principal any) []*domain.Descriptor {
	acc, ok := m.fields[field]
	if !ok {
		return nil
	}
	var out []*domain.Descriptor
	for d := range m.All(field) {
		if m.exec.AvailableFor(ctx, acc, inst, d, principal) {
			out = append(out, d)
		}
	}
	return out
}

// CanProceed reports whether the named transition could currently be
// invoked on inst: source matches and conditions pass. Never raises;
// every failure reduces to false.
func (m *Machine) CanProceed(field string, inst any, name string) bool {
	acc, ok := m.fields[field]
	if !ok {
		return false
	}
	for d := range m.All(field) {
		if d.Name() == name && m.exec.Available(acc, inst, d) {
			return true
		}
	}
	return false
}

// HasPerm reports whether principal may invoke the named transition from
// inst's current state. Never raises.
func (m *Machine) HasPerm(ctx context.Context, field string, inst, principal any, name string) bool {
	acc, ok := m.fields[field]
	if !ok {
		return false
	}
	for d := range m.All(field) {
		if d.Name() == name && m.exec.AvailableFor(ctx, acc, inst, d, principal) {
			return true
		}
	}
	return false
}

// Apply invokes the named transition on inst. The descriptor is selected by
// name and inst's current state; the registration invariant guarantees at
// most one can match. A non-nil principal turns the permission gate on;
// passing nil runs the transition as an unattributed system call, matching
// the availability queries' split between Available and AvailableFor.
//
// On success the resolved state is committed in memory and returned in the
// Result. On an action failure the original error comes back unwrapped,
// after an on-error commit when the descriptor declares one.
func (m *Machine) Apply(ctx context.Context, field string, inst any, name string, principal any, args domain.Args) (domain.Result, error) {
	acc, ok := m.fields[field]
	if !ok {
		return domain.Result{}, &domain.NotAllowedError{
			Field: field, Transition: name, Reason: "unknown field",
		}
	}
	current, err := acc.Get(inst)
	if err != nil {
		return domain.Result{}, fmt.Errorf("read state of field %q: %w", field, err)
	}

	var candidate *domain.Descriptor
	known := false
	for d := range m.All(field) {
		if d.Name() != name {
			continue
		}
		known = true
		if d.Matches(current) {
			candidate = d
			break
		}
	}
	if candidate == nil {
		reason := "unknown transition"
		if known {
			reason = "source state does not match"
		}
		return domain.Result{}, &domain.NotAllowedError{
			Field: field, Transition: name, Current: current, Reason: reason,
		}
	}

	return m.exec.Execute(ctx, acc, inst, candidate, principal, args, principal != nil)
}
