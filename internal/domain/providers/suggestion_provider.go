package providers

import (
	"context"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// SuggestionProvider serves autocomplete suggestions for partial queries.
type SuggestionProvider interface {
	Suggest(ctx context.Context, query string, categoryHint entities.Category, limit int) ([]*entities.Suggestion, error)
}
