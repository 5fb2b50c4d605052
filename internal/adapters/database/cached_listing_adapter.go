package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
	"github.com/centaurhub/marketplace-backend/internal/domain/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ListingEventsChannel is the Pub/Sub channel for listing changes.
const ListingEventsChannel = "listings.events"

// Cache TTLs (in seconds)
const (
	listingByIDTTL     = 300
	listingSnapshotTTL = 120
)

const listingSnapshotCacheKey = "listings:snapshot"

func listingCacheKey(id string) string {
	return "listing:" + id
}

// CachedListingAdapter wraps a ListingRepository with Redis caching and
// publishes a listing event whenever the snapshot changes, so other API
// instances can drop their cached copy too.
type CachedListingAdapter struct {
	adapter repositories.ListingRepository
	cache   providers.CacheProvider
	events  providers.EventBus
}

// NewCachedListingAdapter creates a new cached listing adapter
func NewCachedListingAdapter(adapter repositories.ListingRepository, cache providers.CacheProvider, events providers.EventBus) *CachedListingAdapter {
	return &CachedListingAdapter{
		adapter: adapter,
		cache:   cache,
		events:  events,
	}
}

// WatchEvents subscribes to the listing events channel and drops cached
// entries when another instance publishes a change. The watch goroutine
// exits when the subscription channel is closed or ctx is cancelled.
func (a *CachedListingAdapter) WatchEvents(ctx context.Context) error {
	if a.events == nil {
		return nil
	}

	ch, err := a.events.Subscribe(ctx, ListingEventsChannel)
	if err != nil {
		return err
	}

	go func() {
		for event := range ch {
			a.invalidate(ctx, event.ListingID)
			log.Debug().
				Str("event_id", event.ID).
				Str("listing_id", event.ListingID).
				Str("type", string(event.Type)).
				Msg("invalidated listing cache on event")
		}
	}()

	return nil
}

// ListAll returns the listing snapshot, served from cache when fresh.
func (a *CachedListingAdapter) ListAll(ctx context.Context) ([]*entities.Listing, error) {
	if cached, err := a.cache.Get(ctx, listingSnapshotCacheKey); err == nil {
		var listings []*entities.Listing
		unmarshalErr := json.Unmarshal(cached, &listings)
		if unmarshalErr == nil {
			return listings, nil
		}
		log.Warn().Err(unmarshalErr).Msg("failed to unmarshal cached listing snapshot")
	}

	listings, err := a.adapter.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(listings); err == nil {
			if err := a.cache.Set(bgCtx, listingSnapshotCacheKey, data, listingSnapshotTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache listing snapshot")
			}
		}
	}()

	return listings, nil
}

// GetByID retrieves a listing by ID with caching
func (a *CachedListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	cacheKey := listingCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var listing entities.Listing
		unmarshalErr := json.Unmarshal(cached, &listing)
		if unmarshalErr == nil {
			return &listing, nil
		}
		log.Warn().Str("listing_id", id).Err(unmarshalErr).Msg("failed to unmarshal cached listing")
	}

	listing, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(listing); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, listingByIDTTL); err != nil {
				log.Warn().Str("listing_id", id).Err(err).Msg("failed to cache listing")
			}
		}
	}()

	return listing, nil
}

// Upsert writes through to the database, invalidates caches and
// publishes a change event.
func (a *CachedListingAdapter) Upsert(ctx context.Context, listing *entities.Listing) error {
	eventType := entities.ListingEventUpdated
	if _, err := a.adapter.GetByID(ctx, listing.ID); err != nil {
		eventType = entities.ListingEventCreated
	}

	if err := a.adapter.Upsert(ctx, listing); err != nil {
		return err
	}

	a.invalidate(ctx, listing.ID)
	a.publish(ctx, eventType, listing.ID, listing.Category)
	return nil
}

// Delete removes a listing, invalidates caches and publishes a change event.
func (a *CachedListingAdapter) Delete(ctx context.Context, id string) error {
	listing, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}

	a.invalidate(ctx, id)
	a.publish(ctx, entities.ListingEventDeleted, id, listing.Category)
	return nil
}

func (a *CachedListingAdapter) invalidate(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, listingCacheKey(id)); err != nil {
		log.Warn().Str("listing_id", id).Err(err).Msg("failed to invalidate listing cache")
	}
	if err := a.cache.Delete(ctx, listingSnapshotCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate listing snapshot cache")
	}
}

func (a *CachedListingAdapter) publish(ctx context.Context, eventType entities.ListingEventType, listingID string, category entities.Category) {
	if a.events == nil {
		return
	}

	event := &entities.ListingEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		ListingID:  listingID,
		Category:   category,
		OccurredAt: time.Now().UTC(),
	}
	if err := a.events.Publish(ctx, ListingEventsChannel, event); err != nil {
		log.Warn().Str("listing_id", listingID).Err(err).Msg("failed to publish listing event")
	}
}
