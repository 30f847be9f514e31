package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafetec/cafetec-client/internal/ports"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "cafetec:"), mr
}

func TestStore_SetGet(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ports.StateKeyToken, "tok-9"))

	got, err := store.Get(ctx, ports.StateKeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-9", got)

	// value lives under the configured prefix
	raw, err := mr.Get("cafetec:" + ports.StateKeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-9", raw)
}

func TestStore_GetAbsent(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Get(context.Background(), ports.StateKeyCart)
	assert.ErrorIs(t, err, ports.ErrStateNotFound)
}

func TestStore_Remove(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ports.StateKeyFavorites, "[3,5]"))
	require.NoError(t, store.Remove(ctx, ports.StateKeyFavorites))

	_, err := store.Get(ctx, ports.StateKeyFavorites)
	assert.ErrorIs(t, err, ports.ErrStateNotFound)

	assert.NoError(t, store.Remove(ctx, ports.StateKeyFavorites))
}

func TestStore_ServerGone(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), ports.StateKeyToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrStateNotFound)
}
