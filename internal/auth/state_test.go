package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStateStore(t *testing.T) (*StateStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStateStore(client), mr
}

func TestStateStoreIssueAndConsume(t *testing.T) {
	store, _ := setupStateStore(t)
	ctx := context.Background()

	state, err := store.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("state is single-use", func(t *testing.T) {
		ok, err := store.Consume(ctx, state)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStateStoreRejectsUnknownState(t *testing.T) {
	store, _ := setupStateStore(t)
	ctx := context.Background()

	ok, err := store.Consume(ctx, "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Consume(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateStoreExpiry(t *testing.T) {
	store, mr := setupStateStore(t)
	ctx := context.Background()

	state, err := store.Issue(ctx)
	require.NoError(t, err)

	mr.FastForward(stateTTL + time.Second)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok)
}
