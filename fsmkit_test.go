package fsmkit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsmkit/fsmkit"
	"github.com/fsmkit/fsmkit/pkg/domain"
	"github.com/fsmkit/fsmkit/pkg/fields"
	"github.com/fsmkit/fsmkit/pkg/ports"
)

// article is the test entity: a protected state slot plus whatever the
// guards need to look at.
type article struct {
	status fields.Slot
	hour   int
}

func newArticle(initial domain.State) *article {
	return &article{status: fields.NewSlot(initial)}
}

func statusField() ports.Field {
	return fields.SlotField("status", func(inst any) *fields.Slot {
		return &inst.(*article).status
	})
}

func noop(ctx context.Context, inst any, args domain.Args) (any, error) {
	return nil, nil
}

func TestPublishGatedByHour(t *testing.T) {
	// state 'new', source={'new'}, target='published', condition hour<17.
	m := fsmkit.New()
	field := statusField()
	m.MustRegister(field, domain.Transition("publish", noop).
		From("new").
		To("published").
		When(domain.Predicate("past publication cutoff", func(inst, principal any) bool {
			return inst.(*article).hour < 17
		})).
		MustBuild())

	ctx := context.Background()

	morning := newArticle("new")
	morning.hour = 10
	require.True(t, m.CanProceed("status", morning, "publish"))

	res, err := m.Apply(ctx, "status", morning, "publish", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.State("new"), res.From)
	assert.Equal(t, domain.State("published"), res.To)
	assert.Equal(t, domain.State("published"), morning.status.Current())

	evening := newArticle("new")
	evening.hour = 18
	assert.False(t, m.CanProceed("status", evening, "publish"))

	_, err = m.Apply(ctx, "status", evening, "publish", nil, nil)
	assert.ErrorIs(t, err, domain.ErrTransitionNotAllowed)
	assert.Equal(t, domain.State("new"), evening.status.Current(), "rejected invocation must not touch state")
}

func TestOutcomeMappedTarget(t *testing.T) {
	// source '*', target mapped from the callback's return value.
	m := fsmkit.New()
	moderate := func(ctx context.Context, inst any, args domain.Args) (any, error) {
		return args["needs_moderation"], nil
	}
	m.MustRegister(statusField(), domain.Transition("publish", moderate).
		FromAny().
		ToOutcome(map[any]domain.State{false: "published", true: "for_moderators"}).
		MustBuild())

	a := newArticle("new")
	res, err := m.Apply(context.Background(), "status", a, "publish", nil, domain.Args{"needs_moderation": true})
	require.NoError(t, err)
	assert.Equal(t, domain.State("for_moderators"), res.To)
	assert.Equal(t, domain.State("for_moderators"), a.status.Current())
	assert.Equal(t, true, res.Outcome)
}

func TestUnmappedOutcomeCommitsNothing(t *testing.T) {
	m := fsmkit.New()
	odd := func(ctx context.Context, inst any, args domain.Args) (any, error) {
		return "surprise", nil
	}
	m.MustRegister(statusField(), domain.Transition("publish", odd).
		From("new").
		ToOutcome(map[any]domain.State{"ok": "published"}).
		MustBuild())

	a := newArticle("new")
	_, err := m.Apply(context.Background(), "status", a, "publish", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidResolverOutcome)
	assert.Equal(t, domain.State("new"), a.status.Current())
}

func TestOnErrorRouting(t *testing.T) {
	boom := errors.New("render exploded")
	failing := func(ctx context.Context, inst any, args domain.Args) (any, error) {
		return nil, boom
	}

	t.Run("with on_error the field commits to the fallback state", func(t *testing.T) {
		m := fsmkit.New()
		m.MustRegister(statusField(), domain.Transition("publish", failing).
			From("new").
			To("published").
			OnError("failed").
			MustBuild())

		a := newArticle("new")
		res, err := m.Apply(context.Background(), "status", a, "publish", nil, nil)
		assert.ErrorIs(t, err, boom, "the original action error comes back untouched")
		assert.Equal(t, domain.State("failed"), a.status.Current())
		assert.Equal(t, domain.State("failed"), res.To)
	})

	t.Run("without on_error the state is untouched", func(t *testing.T) {
		m := fsmkit.New()
		m.MustRegister(statusField(), domain.Transition("publish", failing).
			From("new").
			To("published").
			MustBuild())

		a := newArticle("new")
		_, err := m.Apply(context.Background(), "status", a, "publish", nil, nil)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, domain.State("new"), a.status.Current())
	})
}

func TestPermissionDenialExcludesAndRejects(t *testing.T) {
	auth := ports.AuthorizerFunc(func(ctx context.Context, ident string, inst, principal any) (bool, error) {
		return ident == "can_remove" && principal == "admin", nil
	})

	m := fsmkit.New(fsmkit.WithAuthorizer(auth))
	m.MustRegister(statusField(), domain.Transition("remove", noop).
		FromAny().
		To("removed").
		Require(domain.PermissionID("can_remove")).
		MustBuild())

	ctx := context.Background()
	a := newArticle("published")

	assert.Empty(t, m.AvailableFor(ctx, "status", a, "reader"))
	assert.False(t, m.HasPerm(ctx, "status", a, "reader", "remove"))

	_, err := m.Apply(ctx, "status", a, "remove", "reader", nil)
	assert.ErrorIs(t, err, domain.ErrTransitionNotAllowed)
	assert.Equal(t, domain.State("published"), a.status.Current())

	require.Len(t, m.AvailableFor(ctx, "status", a, "admin"), 1)
	_, err = m.Apply(ctx, "status", a, "remove", "admin", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.State("removed"), a.status.Current())
}

func TestRegisterRejectsOverlappingSources(t *testing.T) {
	m := fsmkit.New()
	field := statusField()

	m.MustRegister(field, domain.Transition("publish", noop).
		From("new", "draft").To("published").MustBuild())

	err := m.Register(field, domain.Transition("publish", noop).
		From("draft", "review").To("for_moderators").MustBuild())
	require.Error(t, err)
	var re *domain.RegistrationError
	assert.ErrorAs(t, err, &re)

	// Disjoint sources for the same name are fine.
	err = m.Register(field, domain.Transition("publish", noop).
		From("review").To("for_moderators").MustBuild())
	assert.NoError(t, err)

	// A wildcard cannot share a name with anything.
	err = m.Register(field, domain.Transition("publish", noop).
		FromAny().To("published").MustBuild())
	assert.Error(t, err)
}

func TestAvailableFiltersAndIsIdempotent(t *testing.T) {
	m := fsmkit.New()
	field := statusField()
	m.MustRegister(field, domain.Transition("publish", noop).
		From("new").To("published").MustBuild())
	m.MustRegister(field, domain.Transition("archive", noop).
		From("published").To("archived").MustBuild())
	m.MustRegister(field, domain.Transition("remove", noop).
		FromAnyExcept().To("removed").MustBuild())

	a := newArticle("new")

	names := func() []string {
		var out []string
		for _, d := range m.Available("status", a) {
			out = append(out, d.Name())
		}
		return out
	}

	first := names()
	assert.Equal(t, []string{"publish", "remove"}, first)
	assert.Equal(t, first, names(), "no state mutation, identical result")

	removed := newArticle("removed")
	var got []string
	for _, d := range m.Available("status", removed) {
		got = append(got, d.Name())
	}
	assert.NotContains(t, got, "remove")
}

func TestAllIsRestartable(t *testing.T) {
	m := fsmkit.New()
	field := statusField()
	m.MustRegister(field, domain.Transition("publish", noop).From("new").To("published").MustBuild())
	m.MustRegister(field, domain.Transition("archive", noop).From("published").To("archived").MustBuild())

	seq := m.All("status")
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	assert.Equal(t, 2, count())
	assert.Equal(t, 2, count())
}

func TestApplySelectsDescriptorByCurrentState(t *testing.T) {
	// Same name, disjoint sources: the current state picks the descriptor.
	m := fsmkit.New()
	field := statusField()
	m.MustRegister(field, domain.Transition("advance", noop).
		From("new").To("review").MustBuild())
	m.MustRegister(field, domain.Transition("advance", noop).
		From("review").To("published").MustBuild())

	a := newArticle("new")
	ctx := context.Background()

	res, err := m.Apply(ctx, "status", a, "advance", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.State("review"), res.To)

	res, err = m.Apply(ctx, "status", a, "advance", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.State("published"), res.To)
}

func TestApplyUnknownTransition(t *testing.T) {
	m := fsmkit.New()
	m.MustRegister(statusField(), domain.Transition("publish", noop).
		From("new").To("published").MustBuild())

	a := newArticle("new")
	_, err := m.Apply(context.Background(), "status", a, "teleport", nil, nil)
	assert.ErrorIs(t, err, domain.ErrTransitionNotAllowed)

	_, err = m.Apply(context.Background(), "missing_field", a, "publish", nil, nil)
	assert.ErrorIs(t, err, domain.ErrTransitionNotAllowed)
}

func TestHooksFireAroundCommit(t *testing.T) {
	var events []string
	hooks := domain.Hooks{
		BeforeTransition: func(_ context.Context, ev *domain.TransitionEvent) {
			assert.NotEmpty(t, ev.ID)
			events = append(events, "before:"+string(ev.Source)+">"+string(ev.Target))
		},
		AfterTransition: func(_ context.Context, ev *domain.TransitionEvent) {
			events = append(events, "after:"+string(ev.Source)+">"+string(ev.Target))
		},
	}

	m := fsmkit.New(fsmkit.WithHooks(hooks))
	m.MustRegister(statusField(), domain.Transition("publish", noop).
		From("new").To("published").MustBuild())

	a := newArticle("new")
	_, err := m.Apply(context.Background(), "status", a, "publish", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"before:new>published", "after:new>published"}, events)
}
