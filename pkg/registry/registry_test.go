package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsmkit/fsmkit/pkg/domain"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()

	r.RegisterAction("publish", func(ctx context.Context, inst any, args domain.Args) (any, error) {
		return "done", nil
	})
	r.RegisterCondition("is_owner", func(inst, principal any) error { return nil })

	fn, ok := r.Action("publish")
	require.True(t, ok)
	out, err := fn(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", out)

	cond, ok := r.Condition("is_owner")
	require.True(t, ok)
	assert.NoError(t, cond(nil, nil))
}

func TestLookupMiss(t *testing.T) {
	r := New()

	_, ok := r.Action("missing")
	assert.False(t, ok)
	_, ok = r.Condition("missing")
	assert.False(t, ok)
}

func TestRegisterOverwrites(t *testing.T) {
	r := New()
	r.RegisterAction("publish", func(ctx context.Context, inst any, args domain.Args) (any, error) {
		return 1, nil
	})
	r.RegisterAction("publish", func(ctx context.Context, inst any, args domain.Args) (any, error) {
		return 2, nil
	})

	fn, _ := r.Action("publish")
	out, _ := fn(context.Background(), nil, nil)
	assert.Equal(t, 2, out)
}
