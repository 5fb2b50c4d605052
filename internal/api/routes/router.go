package routes

import (
	"net/http"

	"github.com/centaurhub/marketplace-backend/internal/api/handlers"
	"github.com/centaurhub/marketplace-backend/internal/api/middleware"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	listingHandler     *handlers.ListingHandler
	aiSearchHandler    *handlers.AISearchHandler
	savedSearchHandler *handlers.SavedSearchHandler
	analyticsHandler   *handlers.SearchAnalyticsHandler
	pairingHandler     *handlers.PairingHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	listingHandler *handlers.ListingHandler,
	aiSearchHandler *handlers.AISearchHandler,
	savedSearchHandler *handlers.SavedSearchHandler,
	analyticsHandler *handlers.SearchAnalyticsHandler,
	pairingHandler *handlers.PairingHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		listingHandler:     listingHandler,
		aiSearchHandler:    aiSearchHandler,
		savedSearchHandler: savedSearchHandler,
		analyticsHandler:   analyticsHandler,
		pairingHandler:     pairingHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Listing endpoints
	r.mux.HandleFunc("GET /api/listings", r.listingHandler.ListListings)
	r.mux.HandleFunc("GET /api/listings/search", r.listingHandler.SearchListings)
	r.mux.HandleFunc("GET /api/listings/suggest", r.listingHandler.SuggestListings)
	r.mux.HandleFunc("GET /api/listings/{id}", r.listingHandler.GetListing)
	r.mux.HandleFunc("POST /api/listings", r.listingHandler.UpsertListing)
	r.mux.HandleFunc("DELETE /api/listings/{id}", r.listingHandler.DeleteListing)

	// AI search endpoint
	if r.aiSearchHandler != nil {
		r.mux.HandleFunc("POST /api/search/ai", r.aiSearchHandler.Search)
	}

	// Saved search endpoints
	r.mux.HandleFunc("POST /api/searches/saved", r.savedSearchHandler.SaveSearch)
	r.mux.HandleFunc("GET /api/searches/saved", r.savedSearchHandler.ListSaved)
	r.mux.HandleFunc("DELETE /api/searches/saved/{id}", r.savedSearchHandler.DeleteSaved)

	// Search analytics endpoints
	r.mux.HandleFunc("GET /api/searches/recent", r.analyticsHandler.RecentSearches)
	r.mux.HandleFunc("GET /api/searches/popular", r.analyticsHandler.PopularSearches)
	r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.ZeroResultQueries)

	// Pairing endpoints
	if r.pairingHandler != nil {
		r.mux.HandleFunc("GET /api/pairing/suggestions", r.pairingHandler.GetSuggestions)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
