// Package runtime implements the transition executor: the check, invoke,
// commit protocol that turns an immutable descriptor into a state change on
// one instance.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fsmkit/fsmkit/pkg/domain"
	"github.com/fsmkit/fsmkit/pkg/observability"
	"github.com/fsmkit/fsmkit/pkg/ports"
)

// Executor runs transition attempts. It is stateless between attempts and
// safe for concurrent use; the only mutation it performs is the in-memory
// commit through the field accessor.
type Executor struct {
	logger  *slog.Logger
	auth    ports.Authorizer
	hooks   domain.Hooks
	metrics *observability.Collector
	now     func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithAuthorizer sets the collaborator resolving identifier permissions.
func WithAuthorizer(a ports.Authorizer) Option {
	return func(e *Executor) { e.auth = a }
}

// WithHooks registers before/after transition callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(e *Executor) { e.hooks = h }
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(c *observability.Collector) Option {
	return func(e *Executor) { e.metrics = c }
}

// WithClock overrides the time source. Test seam.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New creates an executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether d could currently be invoked on inst: source
// matches and every condition passes. Permission is not consulted. Never
// returns an error; unreadable state means unavailable.
func (e *Executor) Available(field ports.Field, inst any, d *domain.Descriptor) bool {
	current, err := field.Get(inst)
	if err != nil {
		e.logger.Warn("state read failed during availability check",
			"field", field.Name(), "transition", d.Name(), "err", err)
		return false
	}
	return d.Matches(current) && d.Conditions().AsBool(inst, nil)
}

// AvailableFor is Available with the principal's conditions and permission
// included. Never returns an error; every failure reduces to false.
func (e *Executor) AvailableFor(ctx context.Context, field ports.Field, inst any, d *domain.Descriptor, principal any) bool {
	current, err := field.Get(inst)
	if err != nil {
		return false
	}
	if !d.Matches(current) || !d.Conditions().AsBool(inst, principal) {
		return false
	}
	return e.Permitted(ctx, d, inst, principal)
}

// Permitted evaluates the descriptor's permission spec for principal.
// Identifier permissions go through the authorizer; callable permissions
// run directly. Errors on either path fail closed. No declared permission
// means permitted.
func (e *Executor) Permitted(ctx context.Context, d *domain.Descriptor, inst, principal any) bool {
	perm := d.Permission()
	if perm.IsZero() {
		return true
	}
	if ident, ok := perm.Identifier(); ok {
		if e.auth == nil {
			e.logger.Warn("identifier permission declared but no authorizer configured",
				"transition", d.Name(), "permission", ident)
			return false
		}
		allowed, err := e.auth.HasPermission(ctx, ident, inst, principal)
		if err != nil {
			e.logger.Debug("authorizer error, denying", "permission", ident, "err", err)
			return false
		}
		return allowed
	}
	fn, _ := perm.Func()
	allowed, err := fn(ctx, inst, principal)
	if err != nil {
		e.logger.Debug("permission callable error, denying", "transition", d.Name(), "err", err)
		return false
	}
	return allowed
}

// Execute runs one transition attempt: check the gates, invoke the action,
// resolve the target, commit in memory. checkPerm selects whether the
// permission gate applies (availability-style callers pass the principal
// separately through AvailableFor instead).
//
// On an action failure with an on-error state declared, the field is
// committed to that state and the original action error is returned
// untouched; without one the state is left as it was.
func (e *Executor) Execute(ctx context.Context, field ports.Field, inst any, d *domain.Descriptor, principal any, args domain.Args, checkPerm bool) (domain.Result, error) {
	start := e.now()

	current, err := field.Get(inst)
	if err != nil {
		return domain.Result{}, fmt.Errorf("read state of field %q: %w", field.Name(), err)
	}

	// Checking
	if !d.Matches(current) {
		e.observe(field, d, observability.OutcomeRejected, start)
		return domain.Result{}, &domain.NotAllowedError{
			Field:      field.Name(),
			Transition: d.Name(),
			Current:    current,
			Reason:     "source state does not match",
		}
	}
	if failures := d.Conditions().Report(inst, principal); len(failures) > 0 {
		e.observe(field, d, observability.OutcomeRejected, start)
		return domain.Result{}, &domain.NotAllowedError{
			Field:      field.Name(),
			Transition: d.Name(),
			Current:    current,
			Reason:     fmt.Sprintf("condition %d failed: %s", failures[0].Index, failures[0].Reason),
		}
	}
	if checkPerm && !e.Permitted(ctx, d, inst, principal) {
		e.observe(field, d, observability.OutcomeRejected, start)
		return domain.Result{}, &domain.NotAllowedError{
			Field:      field.Name(),
			Transition: d.Name(),
			Current:    current,
			Reason:     "permission denied",
		}
	}

	ev := &domain.TransitionEvent{
		ID:       uuid.NewString(),
		Field:    field.Name(),
		Name:     d.Name(),
		Source:   current,
		Instance: inst,
	}
	if !d.Target().Dynamic() {
		ev.Target = d.Target().Candidates()[0]
	}
	e.hooks.EmitBefore(ctx, ev)

	// Invoking
	outcome, actionErr := d.Invoke(ctx, inst, args)
	if actionErr != nil {
		return e.routeError(ctx, field, inst, d, ev, current, actionErr, start)
	}

	// Committing
	target, err := d.Target().Resolve(d.Name(), inst, args, outcome)
	if err != nil {
		e.observe(field, d, observability.OutcomeFailed, start)
		e.logger.Error("target resolution failed", "field", field.Name(), "transition", d.Name(), "err", err)
		return domain.Result{}, err
	}
	if err := field.Set(inst, target); err != nil {
		e.observe(field, d, observability.OutcomeFailed, start)
		return domain.Result{}, fmt.Errorf("commit state %q to field %q: %w", target, field.Name(), err)
	}

	ev.Target = target
	e.hooks.EmitAfter(ctx, ev)
	e.observe(field, d, observability.OutcomeCommitted, start)
	e.logger.Debug("transition committed",
		"field", field.Name(), "transition", d.Name(), "from", current, "to", target)

	return domain.Result{
		Field:   field.Name(),
		Name:    d.Name(),
		From:    current,
		To:      target,
		Outcome: outcome,
	}, nil
}

// routeError handles an action failure: commit to the on-error state when
// one is declared, then hand the original error back either way.
func (e *Executor) routeError(ctx context.Context, field ports.Field, inst any, d *domain.Descriptor, ev *domain.TransitionEvent, current domain.State, actionErr error, start time.Time) (domain.Result, error) {
	errState, ok := d.OnError()
	if !ok {
		e.observe(field, d, observability.OutcomeFailed, start)
		e.logger.Debug("action failed, state unchanged",
			"field", field.Name(), "transition", d.Name(), "from", current, "err", actionErr)
		return domain.Result{}, actionErr
	}

	if err := field.Set(inst, errState); err != nil {
		e.observe(field, d, observability.OutcomeFailed, start)
		e.logger.Error("error-state commit failed",
			"field", field.Name(), "transition", d.Name(), "error_state", errState, "err", err)
		return domain.Result{}, actionErr
	}

	ev.Target = errState
	e.hooks.EmitAfter(ctx, ev)
	e.observe(field, d, observability.OutcomeErrorRouted, start)
	e.logger.Debug("action failed, routed to error state",
		"field", field.Name(), "transition", d.Name(), "from", current, "to", errState, "err", actionErr)

	return domain.Result{
		Field: field.Name(),
		Name:  d.Name(),
		From:  current,
		To:    errState,
	}, actionErr
}

func (e *Executor) observe(field ports.Field, d *domain.Descriptor, outcome string, start time.Time) {
	e.metrics.Observe(field.Name(), d.Name(), outcome, e.now().Sub(start))
}
