package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, providers.ErrCacheMiss
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

type memoryEventBus struct {
	mu        sync.Mutex
	published []*entities.ListingEvent
	ch        chan *entities.ListingEvent
}

func (b *memoryEventBus) Publish(ctx context.Context, channel string, event *entities.ListingEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return nil
}

func (b *memoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ListingEvent, error) {
	return b.ch, nil
}

func (b *memoryEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }
func (b *memoryEventBus) Close() error                                          { return nil }

func (b *memoryEventBus) events() []*entities.ListingEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.ListingEvent(nil), b.published...)
}

type memoryListingRepo struct {
	mu       sync.Mutex
	listings map[string]*entities.Listing
}

func newMemoryListingRepo(listings ...*entities.Listing) *memoryListingRepo {
	r := &memoryListingRepo{listings: make(map[string]*entities.Listing)}
	for _, l := range listings {
		r.listings[l.ID] = l
	}
	return r
}

func (r *memoryListingRepo) ListAll(ctx context.Context) ([]*entities.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		out = append(out, l)
	}
	return out, nil
}

func (r *memoryListingRepo) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.listings[id]; ok {
		return l, nil
	}
	return nil, apperrors.NewNotFoundError("listing not found")
}

func (r *memoryListingRepo) Upsert(ctx context.Context, listing *entities.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[listing.ID] = listing
	return nil
}

func (r *memoryListingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return apperrors.NewNotFoundError("listing not found")
	}
	delete(r.listings, id)
	return nil
}

func TestCachedListingAdapter_UpsertInvalidatesAndPublishes(t *testing.T) {
	ctx := context.Background()
	existing := &entities.Listing{ID: "1", Category: entities.CategoryPeople, Title: "Jane"}
	repo := newMemoryListingRepo(existing)
	cache := newMemoryCache()
	bus := &memoryEventBus{}
	adapter := NewCachedListingAdapter(repo, cache, bus)

	require.NoError(t, cache.Set(ctx, listingCacheKey("1"), []byte("{}"), 60))
	require.NoError(t, cache.Set(ctx, listingSnapshotCacheKey, []byte("[]"), 60))

	existing.Title = "Jane Welder"
	require.NoError(t, adapter.Upsert(ctx, existing))

	byID, _ := cache.Exists(ctx, listingCacheKey("1"))
	assert.False(t, byID)
	snapshot, _ := cache.Exists(ctx, listingSnapshotCacheKey)
	assert.False(t, snapshot)

	events := bus.events()
	require.Len(t, events, 1)
	assert.Equal(t, entities.ListingEventUpdated, events[0].Type)
	assert.Equal(t, "1", events[0].ListingID)
}

func TestCachedListingAdapter_UpsertNewListingPublishesCreated(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryListingRepo()
	bus := &memoryEventBus{}
	adapter := NewCachedListingAdapter(repo, newMemoryCache(), bus)

	require.NoError(t, adapter.Upsert(ctx, &entities.Listing{
		ID: "7", Category: entities.CategoryAI, Title: "DraftBot",
	}))

	events := bus.events()
	require.Len(t, events, 1)
	assert.Equal(t, entities.ListingEventCreated, events[0].Type)
}

func TestCachedListingAdapter_DeletePublishesDeleted(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryListingRepo(&entities.Listing{ID: "1", Category: entities.CategoryPeople, Title: "Jane"})
	bus := &memoryEventBus{}
	adapter := NewCachedListingAdapter(repo, newMemoryCache(), bus)

	require.NoError(t, adapter.Delete(ctx, "1"))

	events := bus.events()
	require.Len(t, events, 1)
	assert.Equal(t, entities.ListingEventDeleted, events[0].Type)
	assert.Equal(t, entities.CategoryPeople, events[0].Category)
}

func TestCachedListingAdapter_WatchEventsDropsCache(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	bus := &memoryEventBus{ch: make(chan *entities.ListingEvent, 1)}
	adapter := NewCachedListingAdapter(newMemoryListingRepo(), cache, bus)

	require.NoError(t, cache.Set(ctx, listingCacheKey("42"), []byte("{}"), 60))
	require.NoError(t, cache.Set(ctx, listingSnapshotCacheKey, []byte("[]"), 60))

	require.NoError(t, adapter.WatchEvents(ctx))
	bus.ch <- &entities.ListingEvent{ID: "e1", Type: entities.ListingEventUpdated, ListingID: "42"}

	assert.Eventually(t, func() bool {
		byID, _ := cache.Exists(ctx, listingCacheKey("42"))
		snapshot, _ := cache.Exists(ctx, listingSnapshotCacheKey)
		return !byID && !snapshot
	}, time.Second, 10*time.Millisecond)
}
