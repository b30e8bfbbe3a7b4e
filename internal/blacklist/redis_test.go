package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedis(client), mr
}

func TestRedisRevoke(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a", time.Hour))
	require.NoError(t, store.Revoke(ctx, "token-a", time.Hour))

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestRedisEntryExpiresWithToken(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-a", time.Minute))

	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRedisZeroTTLIsNoop(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "expired-token", 0))

	revoked, err := store.IsRevoked(ctx, "expired-token")
	require.NoError(t, err)
	require.False(t, revoked)
}
