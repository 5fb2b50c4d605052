package services

import (
	"context"
	"encoding/json"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
)

const pairingCacheTTLSeconds = 3600

// PairingService returns ranked centaur-pairing suggestions for a team
// member. Results are cached because the upstream match call is slow and
// rosters change rarely.
type PairingService struct {
	provider providers.PairingProvider
	cache    providers.CacheProvider
}

func NewPairingService(provider providers.PairingProvider, cache providers.CacheProvider) *PairingService {
	return &PairingService{provider: provider, cache: cache}
}

// MatchesFor returns pairing suggestions for a member.
func (s *PairingService) MatchesFor(ctx context.Context, memberID string) ([]*entities.PairingSuggestion, error) {
	if memberID == "" {
		return nil, apperrors.NewValidationError("member id is required")
	}
	if s.provider == nil {
		return nil, apperrors.NewExternalError("pairing matching is not available", nil)
	}

	cacheKey := "pairing:" + memberID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []*entities.PairingSuggestion
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	suggestions, err := s.provider.MatchesFor(ctx, memberID)
	if err != nil {
		return nil, apperrors.NewExternalError("pairing match failed", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(suggestions); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, pairingCacheTTLSeconds)
		}
	}

	return suggestions, nil
}
