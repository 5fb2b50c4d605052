package handlers

import (
	"net/http"
	"strconv"

	"github.com/centaurhub/marketplace-backend/internal/application/services"
	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// SearchAnalyticsHandler serves the recent/popular query feeds and the
// zero-result report.
type SearchAnalyticsHandler struct {
	analytics *services.SearchAnalyticsService
}

// NewSearchAnalyticsHandler creates a new search analytics handler
func NewSearchAnalyticsHandler(analytics *services.SearchAnalyticsService) *SearchAnalyticsHandler {
	return &SearchAnalyticsHandler{analytics: analytics}
}

// RecentSearches handles GET /api/searches/recent
func (h *SearchAnalyticsHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	events, err := h.analytics.RecentSearches(r.Context(), r.Header.Get("X-Session-ID"), parseLimit(r, 10))
	if err != nil {
		respondWithAppError(w, err, "failed to get recent searches")
		return
	}
	if events == nil {
		events = []*entities.SearchEvent{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searches": events,
	})
}

// PopularSearches handles GET /api/searches/popular
func (h *SearchAnalyticsHandler) PopularSearches(w http.ResponseWriter, r *http.Request) {
	popular, err := h.analytics.PopularSearches(r.Context(), parseLimit(r, 10))
	if err != nil {
		respondWithAppError(w, err, "failed to get popular searches")
		return
	}
	if popular == nil {
		popular = []*entities.PopularQuery{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searches": popular,
	})
}

// ZeroResultQueries handles GET /api/analytics/zero-result-queries
func (h *SearchAnalyticsHandler) ZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	events, err := h.analytics.ZeroResultQueries(r.Context(), parseLimit(r, 100))
	if err != nil {
		respondWithAppError(w, err, "failed to get zero result queries")
		return
	}
	if events == nil {
		events = []*entities.SearchEvent{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
