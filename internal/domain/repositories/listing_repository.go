package repositories

import (
	"context"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// ListingRepository provides access to the listing collection. The filter
// engine consumes the full, already-authorized snapshot; there is no
// pagination at this layer.
type ListingRepository interface {
	ListAll(ctx context.Context) ([]*entities.Listing, error)
	GetByID(ctx context.Context, id string) (*entities.Listing, error)
	Upsert(ctx context.Context, listing *entities.Listing) error
	Delete(ctx context.Context, id string) error
}
