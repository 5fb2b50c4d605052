package repositories

import (
	"context"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

type SavedSearchRepository interface {
	Create(ctx context.Context, search *entities.SavedSearch) error
	List(ctx context.Context, sessionID string) ([]*entities.SavedSearch, error)
	Delete(ctx context.Context, id string) error
}
