package providers

import (
	"context"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// FilterExtractionProvider turns a natural-language query into a
// structured filter payload. Implementations must omit fields they could
// not extract rather than guessing defaults.
type FilterExtractionProvider interface {
	ExtractFilters(ctx context.Context, query string) (*entities.ExtractedFilters, error)
}
