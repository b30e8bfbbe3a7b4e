package blacklist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRevoke(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a", time.Hour))

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestMemoryRevokeIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-a", time.Hour))
	require.NoError(t, store.Revoke(ctx, "token-a", time.Hour))

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestMemoryEntryExpires(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-a", -time.Second))

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			require.NoError(t, store.Revoke(ctx, "shared", time.Hour))
		}()
		go func() {
			defer wg.Done()
			_, err := store.IsRevoked(ctx, "shared")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	revoked, err := store.IsRevoked(ctx, "shared")
	require.NoError(t, err)
	require.True(t, revoked)
}
