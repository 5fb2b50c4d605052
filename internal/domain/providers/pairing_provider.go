package providers

import (
	"context"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// PairingProvider returns ranked centaur-pairing suggestions for a team
// member. Orthogonal to the filter pipeline.
type PairingProvider interface {
	MatchesFor(ctx context.Context, memberID string) ([]*entities.PairingSuggestion, error)
}
