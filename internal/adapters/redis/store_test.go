package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsmkit/fsmkit/internal/adapters/redis"
	"github.com/fsmkit/fsmkit/pkg/domain"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestSaveAndLoad(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	state, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.State(""), state, "missing key loads as empty state")

	require.NoError(t, store.Save(ctx, "a1", "", "new"))
	require.NoError(t, store.Save(ctx, "a1", "new", "published"))

	state, err = store.Load(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.State("published"), state)
}

func TestSaveDetectsStaleWrite(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", "", "new"))
	require.NoError(t, store.Save(ctx, "a1", "new", "published"))

	err := store.Save(ctx, "a1", "new", "removed")
	assert.ErrorIs(t, err, domain.ErrStaleState)

	state, _ := store.Load(ctx, "a1")
	assert.Equal(t, domain.State("published"), state)
}

func TestKeyPrefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("myapp:article:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", "", "new"))
	assert.True(t, mr.Exists("myapp:article:a1"))
}

func TestTTLApplied(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", "", "new"))

	mr.FastForward(2 * time.Minute)
	state, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.State(""), state, "expired state loads as empty")
}
