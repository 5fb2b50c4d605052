package services

import (
	"context"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/repositories"
	"github.com/rs/zerolog/log"
)

// SearchAnalyticsService records search interactions and serves the
// recent/popular query feeds used to pre-populate the suggestion
// dropdown. It has no dependency on the filter pipeline.
type SearchAnalyticsService struct {
	repo repositories.SearchAnalyticsRepository
}

func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// TrackSearch logs a search event in the background so the user request
// is never blocked on analytics.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	go func() {
		// Fresh context: the request context may already be cancelled.
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			log.Warn().Err(err).Str("query", event.Query).Msg("failed to log search event")
		}
	}()
}

// RecentSearches returns the viewer's latest queries.
func (s *SearchAnalyticsService) RecentSearches(ctx context.Context, sessionID string, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetRecent(ctx, sessionID, limit)
}

// PopularSearches returns the most frequent queries across all viewers.
func (s *SearchAnalyticsService) PopularSearches(ctx context.Context, limit int) ([]*entities.PopularQuery, error) {
	return s.repo.GetPopular(ctx, limit)
}

// ZeroResultQueries returns recent searches that matched nothing.
func (s *SearchAnalyticsService) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetZeroResultQueries(ctx, limit)
}
