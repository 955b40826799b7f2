package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, inst any, args Args) (any, error) { return nil, nil }

func TestBuilderProducesImmutableDescriptor(t *testing.T) {
	conds := Conditions{pass}
	d, err := Transition("publish", noop).
		From("new", "draft").
		To("published").
		When(conds...).
		OnError("failed").
		Meta("label", "Publish").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "publish", d.Name())
	assert.Equal(t, "new|draft", d.Source().String())
	assert.Equal(t, "published", d.Target().String())

	onErr, ok := d.OnError()
	require.True(t, ok)
	assert.Equal(t, State("failed"), onErr)

	assert.Equal(t, map[string]any{"label": "Publish"}, d.Custom())

	// Mutating what Custom returned must not leak back in.
	d.Custom()["label"] = "tampered"
	assert.Equal(t, "Publish", d.Custom()["label"])
}

func TestBuilderRejectsEmptyName(t *testing.T) {
	_, err := Transition("", noop).From("a").To("b").Build()
	assert.Error(t, err)
}

func TestBuilderRejectsNilAction(t *testing.T) {
	_, err := Transition("publish", nil).From("a").To("b").Build()
	assert.Error(t, err)
}

func TestBuilderRejectsMissingTarget(t *testing.T) {
	_, err := Transition("publish", noop).From("a").Build()
	assert.Error(t, err)
}

func TestMustBuildPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		Transition("", noop).To("b").MustBuild()
	})
}

func TestDescriptorMatchesDelegatesToSource(t *testing.T) {
	d := Transition("remove", noop).FromAnyExcept().To("removed").MustBuild()

	assert.False(t, d.Matches("removed"))
	assert.True(t, d.Matches("published"))
}

func TestNoOnErrorByDefault(t *testing.T) {
	d := Transition("publish", noop).From("new").To("published").MustBuild()
	_, ok := d.OnError()
	assert.False(t, ok)
}

func TestNotAllowedErrorUnwraps(t *testing.T) {
	err := &NotAllowedError{Field: "status", Transition: "publish", Current: "removed", Reason: "source state does not match"}
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
	assert.Contains(t, err.Error(), "publish")
	assert.Contains(t, err.Error(), "removed")
}
