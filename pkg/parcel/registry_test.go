package parcel_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/parceldesk-io/parcel-client/pkg/parcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func branchListTags(category parcel.TagCategory) parcel.TagsFunc {
	return func(data []byte) []parcel.Tag {
		var page parcel.Page[parcel.Branch]
		if err := json.Unmarshal(data, &page); err != nil {
			return []parcel.Tag{parcel.ListTag(category)}
		}

		return parcel.PageTags(category, &page)
	}
}

func branchPageJSON(ids ...string) []byte {
	page := parcel.Page[parcel.Branch]{}
	for _, id := range ids {
		page.Content = append(page.Content, parcel.Branch{Resource: parcel.Resource{ID: id}})
	}

	data, _ := json.Marshal(page)

	return data
}

func TestRegistry_FetchCachesResult(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	var calls int32

	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)

		return branchPageJSON("b-1"), nil
	}

	first, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch), fetch)
	require.NoError(t, err)

	second, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch), fetch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRegistry_FetchKeyIncludesArguments(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	var calls int32

	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)

		return branchPageJSON("b-1"), nil
	}

	_, err := registry.Fetch(ctx, "branches.list", &parcel.PageRequest{PageNumber: 0}, nil, fetch)
	require.NoError(t, err)

	// Different arguments are a different cache entry.
	_, err = registry.Fetch(ctx, "branches.list", &parcel.PageRequest{PageNumber: 1}, nil, fetch)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRegistry_ConcurrentFetchesShareOneFlight(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	var calls int32

	release := make(chan struct{})

	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release

		return branchPageJSON("b-1"), nil
	}

	const readers = 8

	var wg sync.WaitGroup

	results := make([][]byte, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		i := i

		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = registry.Fetch(ctx, "branches.list", nil, nil, fetch)
		}()
	}

	// Let the goroutines pile onto the flight, then release it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestRegistry_FetchErrorNotCached(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	var calls int32

	fetch := func(ctx context.Context) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, assert.AnError
		}

		return branchPageJSON("b-1"), nil
	}

	_, err := registry.Fetch(ctx, "branches.list", nil, nil, fetch)
	require.Error(t, err)

	// The failure was not stored; the next read refetches.
	_, err = registry.Fetch(ctx, "branches.list", nil, nil, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRegistry_InvalidateIDTagDropsListAndGet(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	listFetch := func(ctx context.Context) ([]byte, error) {
		return branchPageJSON("b-1", "b-2"), nil
	}

	getFetch := func(ctx context.Context) ([]byte, error) {
		return []byte(`{"id":"b-1"}`), nil
	}

	_, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch), listFetch)
	require.NoError(t, err)

	_, err = registry.Fetch(ctx, "branches.get", "b-1",
		func([]byte) []parcel.Tag { return []parcel.Tag{parcel.IDTag(parcel.TagBranch, "b-1")} }, getFetch)
	require.NoError(t, err)

	// An update to b-1 drops the single-entity view and the list that
	// contained it.
	registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagBranch, "b-1"))

	assert.False(t, registry.Has(ctx, "branches.list", nil))
	assert.False(t, registry.Has(ctx, "branches.get", "b-1"))
}

func TestRegistry_InvalidationIsCategoryIndependent(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	_, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch),
		func(ctx context.Context) ([]byte, error) { return branchPageJSON("b-1"), nil })
	require.NoError(t, err)

	_, err = registry.Fetch(ctx, "users.list", nil,
		func([]byte) []parcel.Tag { return []parcel.Tag{parcel.ListTag(parcel.TagUser)} },
		func(ctx context.Context) ([]byte, error) { return []byte(`{}`), nil })
	require.NoError(t, err)

	registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagBranch)})

	assert.False(t, registry.Has(ctx, "branches.list", nil))
	assert.True(t, registry.Has(ctx, "users.list", nil))
}

func TestRegistry_ListInvalidationLeavesGetAlone(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	_, err := registry.Fetch(ctx, "branches.list", nil,
		func([]byte) []parcel.Tag { return []parcel.Tag{parcel.ListTag(parcel.TagBranch)} },
		func(ctx context.Context) ([]byte, error) { return branchPageJSON(), nil })
	require.NoError(t, err)

	_, err = registry.Fetch(ctx, "branches.get", "b-1",
		func([]byte) []parcel.Tag { return []parcel.Tag{parcel.IDTag(parcel.TagBranch, "b-1")} },
		func(ctx context.Context) ([]byte, error) { return []byte(`{"id":"b-1"}`), nil })
	require.NoError(t, err)

	// LIST and id tags are independent: a create only drops list views.
	registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagBranch)})

	assert.False(t, registry.Has(ctx, "branches.list", nil))
	assert.True(t, registry.Has(ctx, "branches.get", "b-1"))
}

func TestRegistry_InvalidateIsIdempotent(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	_, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch),
		func(ctx context.Context) ([]byte, error) { return branchPageJSON("b-1"), nil })
	require.NoError(t, err)

	tags := parcel.MutationTags(parcel.TagBranch, "b-1")
	registry.InvalidateTags(ctx, tags)
	registry.InvalidateTags(ctx, tags)

	assert.False(t, registry.Has(ctx, "branches.list", nil))
}

func TestRegistry_CategoryWildcardDropsWholeCategory(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	// Two parcel-derived views tagged under unrelated synthetic ids.
	_, err := registry.Fetch(ctx, "parcels.sent", "c-1",
		func([]byte) []parcel.Tag { return []parcel.Tag{parcel.IDTag(parcel.TagParcel, "customer-c-1-sent")} },
		func(ctx context.Context) ([]byte, error) { return []byte(`{}`), nil })
	require.NoError(t, err)

	_, err = registry.Fetch(ctx, "parcels.search", "q",
		func([]byte) []parcel.Tag { return []parcel.Tag{parcel.ListTag(parcel.TagParcel)} },
		func(ctx context.Context) ([]byte, error) { return []byte(`{}`), nil })
	require.NoError(t, err)

	_, err = registry.Fetch(ctx, "customers.list", nil,
		func([]byte) []parcel.Tag { return []parcel.Tag{parcel.ListTag(parcel.TagCustomer)} },
		func(ctx context.Context) ([]byte, error) { return []byte(`{}`), nil })
	require.NoError(t, err)

	registry.InvalidateTags(ctx, []parcel.Tag{parcel.CategoryTag(parcel.TagParcel)})

	assert.False(t, registry.Has(ctx, "parcels.sent", "c-1"))
	assert.False(t, registry.Has(ctx, "parcels.search", "q"))
	assert.True(t, registry.Has(ctx, "customers.list", nil))
}

func TestRegistry_InvalidateKey(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	_, err := registry.Fetch(ctx, "configurations.get", nil, nil,
		func(ctx context.Context) ([]byte, error) { return []byte(`{"baseFee":5}`), nil })
	require.NoError(t, err)

	registry.InvalidateKey(ctx, "configurations.get", nil)

	assert.False(t, registry.Has(ctx, "configurations.get", nil))
}

func TestRegistry_ResetDropsEverything(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	_, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch),
		func(ctx context.Context) ([]byte, error) { return branchPageJSON("b-1"), nil })
	require.NoError(t, err)

	registry.Reset(ctx)

	assert.False(t, registry.Has(ctx, "branches.list", nil))
	assert.Empty(t, registry.TagsFor("branches.list", nil))
}

func TestRegistry_FlightStartedBeforeResetDoesNotRepopulate(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func(ctx context.Context) ([]byte, error) {
		close(started)
		<-release

		return branchPageJSON("b-1"), nil
	}

	done := make(chan error, 1)

	go func() {
		_, err := registry.Fetch(ctx, "branches.list", nil, nil, fetch)
		done <- err
	}()

	<-started

	// Reset while the flight is in progress.
	registry.Reset(ctx)
	close(release)

	require.NoError(t, <-done)

	// The caller got its data, but the stale flight must not repopulate
	// the dropped cache.
	assert.False(t, registry.Has(ctx, "branches.list", nil))
}

func TestRegistry_SubscribeCounts(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)

	assert.Equal(t, 1, registry.Subscribe("branches.list", nil))
	assert.Equal(t, 2, registry.Subscribe("branches.list", nil))
	assert.Equal(t, 2, registry.Subscribers("branches.list", nil))

	registry.Unsubscribe("branches.list", nil)
	assert.Equal(t, 1, registry.Subscribers("branches.list", nil))

	registry.Unsubscribe("branches.list", nil)
	registry.Unsubscribe("branches.list", nil) // extra release is a no-op
	assert.Equal(t, 0, registry.Subscribers("branches.list", nil))
}

func TestRegistry_SubscribedKeyRefreshesEagerlyOnInvalidation(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	var calls int32

	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)

		return branchPageJSON("b-1"), nil
	}

	_, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch), fetch)
	require.NoError(t, err)

	registry.Subscribe("branches.list", nil)

	registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagBranch)})

	// The subscribed view was refetched and re-cached without another
	// explicit read.
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.True(t, registry.Has(ctx, "branches.list", nil))

	// The refreshed entry carries fresh tags, so it stays invalidatable.
	registry.Unsubscribe("branches.list", nil)
	registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagBranch)})
	assert.False(t, registry.Has(ctx, "branches.list", nil))
}

func TestRegistry_UnsubscribedKeyRefetchesLazily(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	var calls int32

	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)

		return branchPageJSON("b-1"), nil
	}

	_, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch), fetch)
	require.NoError(t, err)

	registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagBranch)})

	// No subscriber, no eager refresh; the drop stands until the next read.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, registry.Has(ctx, "branches.list", nil))

	_, err = registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch), fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRegistry_ReleasedSubscriptionRevertsToLazy(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	var calls int32

	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)

		return branchPageJSON("b-1"), nil
	}

	_, err := registry.Fetch(ctx, "branches.list", nil, branchListTags(parcel.TagBranch), fetch)
	require.NoError(t, err)

	registry.Subscribe("branches.list", nil)
	registry.Unsubscribe("branches.list", nil)

	registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagBranch)})

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, registry.Has(ctx, "branches.list", nil))
}

func TestRegistry_SubscribedSingletonRefreshesOnInvalidateKey(t *testing.T) {
	t.Parallel()

	registry := parcel.NewRegistry(parcel.NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	var calls int32

	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)

		return []byte(`{"baseFee":5}`), nil
	}

	_, err := registry.Fetch(ctx, "configurations.get", nil, nil, fetch)
	require.NoError(t, err)

	registry.Subscribe("configurations.get", nil)
	registry.InvalidateKey(ctx, "configurations.get", nil)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.True(t, registry.Has(ctx, "configurations.get", nil))
}

func TestCacheKey_Stable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "branches.list", parcel.CacheKey("branches.list", nil))

	withArgs := parcel.CacheKey("branches.list", &parcel.PageRequest{PageNumber: 1, PageSize: 10})
	assert.Equal(t, withArgs, parcel.CacheKey("branches.list", &parcel.PageRequest{PageNumber: 1, PageSize: 10}))
	assert.NotEqual(t, withArgs, parcel.CacheKey("branches.list", &parcel.PageRequest{PageNumber: 2, PageSize: 10}))
}
