package parcel_test

import (
	"context"
	"testing"
	"time"

	"github.com/parceldesk-io/parcel-client/pkg/parcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := parcel.NewMemoryCache(10)
	ctx := context.Background()

	entry := &parcel.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		Tags:      []parcel.Tag{parcel.ListTag(parcel.TagBranch)},
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.Tags, retrieved.Tags)
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := parcel.NewMemoryCache(10)
	ctx := context.Background()

	_, err := cache.Get(ctx, "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key not found")
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := parcel.NewMemoryCache(10)
	ctx := context.Background()

	entry := &parcel.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(-1 * time.Hour), // Already expired
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry expired")
}

func TestMemoryCache_Delete(t *testing.T) {
	t.Parallel()

	cache := parcel.NewMemoryCache(10)
	ctx := context.Background()

	entry := &parcel.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)
	assert.True(t, cache.Has(ctx, "key1"))

	err = cache.Delete(ctx, "key1")
	require.NoError(t, err)

	assert.False(t, cache.Has(ctx, "key1"))
}

func TestMemoryCache_Clear(t *testing.T) {
	t.Parallel()

	cache := parcel.NewMemoryCache(10)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		err := cache.Set(ctx, key, &parcel.CacheEntry{
			Data:      []byte(key),
			ExpiresAt: time.Now().Add(1 * time.Hour),
		})
		require.NoError(t, err)
	}

	err := cache.Clear(ctx)
	require.NoError(t, err)

	for _, key := range []string{"a", "b", "c"} {
		assert.False(t, cache.Has(ctx, key))
	}
}

func TestMemoryCache_EvictsAtCapacity(t *testing.T) {
	t.Parallel()

	cache := parcel.NewMemoryCache(2)
	ctx := context.Background()

	err := cache.Set(ctx, "oldest", &parcel.CacheEntry{
		Data:      []byte("1"),
		ExpiresAt: time.Now().Add(1 * time.Minute),
	})
	require.NoError(t, err)

	err = cache.Set(ctx, "newer", &parcel.CacheEntry{
		Data:      []byte("2"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	})
	require.NoError(t, err)

	// The entry closest to expiry is evicted to make room.
	err = cache.Set(ctx, "newest", &parcel.CacheEntry{
		Data:      []byte("3"),
		ExpiresAt: time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)

	assert.False(t, cache.Has(ctx, "oldest"))
	assert.True(t, cache.Has(ctx, "newer"))
	assert.True(t, cache.Has(ctx, "newest"))
}

func TestMemoryCache_Cleanup(t *testing.T) {
	t.Parallel()

	cache := parcel.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "live", &parcel.CacheEntry{
		Data:      []byte("live"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	})
	require.NoError(t, err)

	err = cache.Set(ctx, "dead", &parcel.CacheEntry{
		Data:      []byte("dead"),
		ExpiresAt: time.Now().Add(-1 * time.Minute),
	})
	require.NoError(t, err)

	cache.Cleanup()

	assert.True(t, cache.Has(ctx, "live"))
	assert.False(t, cache.Has(ctx, "dead"))
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := parcel.NewNoOpCache()
	ctx := context.Background()

	err := cache.Set(ctx, "key", &parcel.CacheEntry{Data: []byte("x")})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key")
	require.Error(t, err)
	assert.False(t, cache.Has(ctx, "key"))
}

func TestCacheChain_FillsL1OnL2Hit(t *testing.T) {
	t.Parallel()

	l1 := parcel.NewMemoryCache(10)
	l2 := parcel.NewMemoryCache(10)
	chain := parcel.NewCacheChain(l1, l2)
	ctx := context.Background()

	entry := &parcel.CacheEntry{
		Data:      []byte("payload"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	// Seed only the second level.
	require.NoError(t, l2.Set(ctx, "key", entry))
	assert.False(t, l1.Has(ctx, "key"))

	retrieved, err := chain.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)

	// The hit backfills the first level.
	assert.True(t, l1.Has(ctx, "key"))
}

func TestCacheChain_SetWritesAllLevels(t *testing.T) {
	t.Parallel()

	l1 := parcel.NewMemoryCache(10)
	l2 := parcel.NewMemoryCache(10)
	chain := parcel.NewCacheChain(l1, l2)
	ctx := context.Background()

	err := chain.Set(ctx, "key", &parcel.CacheEntry{
		Data:      []byte("payload"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	})
	require.NoError(t, err)

	assert.True(t, l1.Has(ctx, "key"))
	assert.True(t, l2.Has(ctx, "key"))
}
