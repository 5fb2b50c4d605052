package providers

import (
	"context"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// EventBus distributes listing change events to subscribers.
type EventBus interface {
	Publish(ctx context.Context, channel string, event *entities.ListingEvent) error
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ListingEvent, error)
	Unsubscribe(ctx context.Context, channel string) error
	Close() error
}
