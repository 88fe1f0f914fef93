package parcel

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TagsFunc derives the tag set for a successful read from its raw response
// body. It runs once per network fetch, never on cache hits.
type TagsFunc func(data []byte) []Tag

// FetchFunc performs the underlying network read.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Registry owns the cache-entry table and the provide/invalidate
// bookkeeping. All resource modules read through it; identical concurrent
// reads share one in-flight request.
type Registry struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group

	mu         sync.Mutex
	generation uint64
	byTag      map[string]map[string]struct{}
	byCategory map[TagCategory]map[string]struct{}
	keyTags    map[string][]Tag
	subs       map[string]int
	refetch    map[string]refetcher
}

// refetcher re-executes a read, so keys with active subscribers can be
// refreshed as soon as a mutation invalidates them instead of waiting for
// the next access.
type refetcher struct {
	produce TagsFunc
	fetch   FetchFunc
}

// NewRegistry creates a registry over the given entry store. A nil cache
// gets an in-process store with library defaults.
func NewRegistry(cache Cache, ttl time.Duration) *Registry {
	if cache == nil {
		cache = NewMemoryCache(1000)
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Registry{
		cache:      cache,
		ttl:        ttl,
		byTag:      make(map[string]map[string]struct{}),
		byCategory: make(map[TagCategory]map[string]struct{}),
		keyTags:    make(map[string][]Tag),
		subs:       make(map[string]int),
		refetch:    make(map[string]refetcher),
	}
}

// CacheKey builds the stable (endpointName, serializedArguments) key.
func CacheKey(endpoint string, args any) string {
	if args == nil {
		return endpoint
	}

	serialized, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%s:%v", endpoint, args)
	}

	return endpoint + ":" + string(serialized)
}

// Fetch returns the cached body for (endpoint, args) or executes fetch to
// populate it. Concurrent callers with the same key join the same flight,
// so N identical reads issue exactly one network call. Errors are returned
// to every joined caller and never cached.
func (r *Registry) Fetch(ctx context.Context, endpoint string, args any, produce TagsFunc, fetch FetchFunc) ([]byte, error) {
	key := CacheKey(endpoint, args)

	if entry, err := r.cache.Get(ctx, key); err == nil {
		return entry.Data, nil
	}

	r.mu.Lock()
	startGen := r.generation
	r.mu.Unlock()

	result, err, _ := r.group.Do(key, func() (any, error) {
		// A flight that lost the race to a just-finished one can serve the
		// fresh entry without another network call.
		if entry, err := r.cache.Get(ctx, key); err == nil {
			return entry.Data, nil
		}

		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		var tags []Tag
		if produce != nil {
			tags = produce(data)
		}

		r.mu.Lock()
		r.refetch[key] = refetcher{produce: produce, fetch: fetch}
		r.mu.Unlock()

		r.store(ctx, key, data, tags, startGen)

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	data, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected flight result type %T", result)
	}

	return data, nil
}

// store writes an entry and indexes its tags, unless a reset happened after
// the flight began; stale flights must not repopulate a dropped cache.
func (r *Registry) store(ctx context.Context, key string, data []byte, tags []Tag, startGen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation != startGen {
		return
	}

	entry := &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(r.ttl),
		Tags:      tags,
	}

	if err := r.cache.Set(ctx, key, entry); err != nil {
		return
	}

	r.unindexLocked(key)
	r.keyTags[key] = tags

	for _, tag := range tags {
		tagKey := tag.String()
		if r.byTag[tagKey] == nil {
			r.byTag[tagKey] = make(map[string]struct{})
		}

		r.byTag[tagKey][key] = struct{}{}

		if r.byCategory[tag.Category] == nil {
			r.byCategory[tag.Category] = make(map[string]struct{})
		}

		r.byCategory[tag.Category][key] = struct{}{}
	}
}

// InvalidateTags drops every entry carrying any of the given tags. A tag
// produced by CategoryTag drops the whole category. Invalidating the same
// tag twice is a no-op the second time. Dropped keys with active
// subscribers are refreshed immediately, one flight per key; everything
// else refetches lazily on its next access.
func (r *Registry) InvalidateTags(ctx context.Context, tags []Tag) {
	r.mu.Lock()

	stale := make(map[string]struct{})

	for _, tag := range tags {
		if tag.ID == "*" {
			for key := range r.byCategory[tag.Category] {
				stale[key] = struct{}{}
			}

			continue
		}

		for key := range r.byTag[tag.String()] {
			stale[key] = struct{}{}
		}
	}

	refresh := make(map[string]refetcher)

	for key := range stale {
		r.unindexLocked(key)

		if rf, ok := r.refetch[key]; ok && r.subs[key] > 0 {
			refresh[key] = rf
		}
	}

	r.mu.Unlock()

	for key := range stale {
		_ = r.cache.Delete(ctx, key)
	}

	for key, rf := range refresh {
		r.refresh(ctx, key, rf)
	}
}

// refresh repopulates one subscribed key right after its entry dropped. A
// failed refresh leaves the key empty; the next access falls back to the
// usual lazy fetch.
func (r *Registry) refresh(ctx context.Context, key string, rf refetcher) {
	r.mu.Lock()
	startGen := r.generation
	r.mu.Unlock()

	_, _, _ = r.group.Do(key, func() (any, error) {
		data, err := rf.fetch(ctx)
		if err != nil {
			return nil, err
		}

		var tags []Tag
		if rf.produce != nil {
			tags = rf.produce(data)
		}

		r.store(ctx, key, data, tags, startGen)

		return data, nil
	})
}

// unindexLocked removes a key from all tag indexes. Caller holds the lock.
func (r *Registry) unindexLocked(key string) {
	for _, tag := range r.keyTags[key] {
		delete(r.byTag[tag.String()], key)
		delete(r.byCategory[tag.Category], key)
	}

	delete(r.keyTags, key)
}

// InvalidateKey drops one specific entry. Used by singleton resources that
// sit outside the tag categories (the delivery-cost configuration). A
// subscribed key is refreshed immediately, like in InvalidateTags.
func (r *Registry) InvalidateKey(ctx context.Context, endpoint string, args any) {
	key := CacheKey(endpoint, args)

	r.mu.Lock()
	r.unindexLocked(key)
	rf, subscribed := r.refetch[key]
	subscribed = subscribed && r.subs[key] > 0
	r.mu.Unlock()

	_ = r.cache.Delete(ctx, key)

	if subscribed {
		r.refresh(ctx, key, rf)
	}
}

// Reset unconditionally drops all cache entries, tag indexes, and in-flight
// state. Flights started before the reset complete for their callers but do
// not repopulate the cache.
func (r *Registry) Reset(ctx context.Context) {
	r.mu.Lock()
	r.generation++
	r.byTag = make(map[string]map[string]struct{})
	r.byCategory = make(map[TagCategory]map[string]struct{})
	r.keyTags = make(map[string][]Tag)
	r.subs = make(map[string]int)
	r.refetch = make(map[string]refetcher)
	r.mu.Unlock()

	_ = r.cache.Clear(ctx)
}

// Subscribe records interest in a cache key and returns the subscriber
// count. While at least one subscriber holds a key, invalidation refreshes
// it eagerly instead of waiting for the next access. Abandoning a
// subscription never aborts an in-flight request.
func (r *Registry) Subscribe(endpoint string, args any) int {
	key := CacheKey(endpoint, args)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs[key]++

	return r.subs[key]
}

// Unsubscribe releases interest in a cache key.
func (r *Registry) Unsubscribe(endpoint string, args any) {
	key := CacheKey(endpoint, args)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.subs[key] > 0 {
		r.subs[key]--
	}

	if r.subs[key] == 0 {
		delete(r.subs, key)
		delete(r.refetch, key)
	}
}

// Subscribers returns the active subscriber count for a key.
func (r *Registry) Subscribers(endpoint string, args any) int {
	key := CacheKey(endpoint, args)

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.subs[key]
}

// Has reports whether a live cache entry exists for (endpoint, args).
func (r *Registry) Has(ctx context.Context, endpoint string, args any) bool {
	return r.cache.Has(ctx, CacheKey(endpoint, args))
}

// TagsFor returns the indexed tags of a cached entry, for introspection.
func (r *Registry) TagsFor(endpoint string, args any) []Tag {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.keyTags[CacheKey(endpoint, args)]
}
