package repositories

import (
	"context"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetRecent(ctx context.Context, sessionID string, limit int) ([]*entities.SearchEvent, error)
	GetPopular(ctx context.Context, limit int) ([]*entities.PopularQuery, error)
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
