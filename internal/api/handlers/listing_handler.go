package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/centaurhub/marketplace-backend/internal/application/services"
	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
	"github.com/centaurhub/marketplace-backend/internal/domain/repositories"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
)

// ListingHandler serves the listing snapshot and the server-side filter
// pipeline.
type ListingHandler struct {
	listingRepo repositories.ListingRepository
	filters     *services.ListingFilterService
	analytics   *services.SearchAnalyticsService
	suggester   providers.SuggestionProvider
}

// NewListingHandler creates a new listing handler
func NewListingHandler(
	listingRepo repositories.ListingRepository,
	filters *services.ListingFilterService,
	analytics *services.SearchAnalyticsService,
	suggester providers.SuggestionProvider,
) *ListingHandler {
	return &ListingHandler{
		listingRepo: listingRepo,
		filters:     filters,
		analytics:   analytics,
		suggester:   suggester,
	}
}

// ListListings handles GET /api/listings
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingRepo.ListAll(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to list listings")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListing handles GET /api/listings/{id}
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID := r.PathValue("id")
	if listingID == "" {
		respondWithError(w, http.StatusBadRequest, "listing ID is required")
		return
	}

	listing, err := h.listingRepo.GetByID(r.Context(), listingID)
	if err != nil {
		respondWithAppError(w, err, "failed to get listing")
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

// SearchListings handles GET /api/listings/search. It decodes the
// shareable URL state plus the per-category scalar params, runs the
// filter pipeline, and returns items, facets and the empty-state reason.
func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	state := decodeSearchParams(r)

	listings, err := h.listingRepo.ListAll(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to load listings")
		return
	}

	results := h.filters.Apply(listings, state)
	facets := h.filters.Facets(listings, state.Category)
	emptyReason := h.filters.EmptyStateReason(state, len(results))

	if h.analytics != nil && strings.TrimSpace(state.Query) != "" {
		h.analytics.TrackSearch(r.Context(), &entities.SearchEvent{
			Query:       state.Query,
			Category:    state.Category,
			ResultCount: len(results),
			LatencyMs:   time.Since(start).Milliseconds(),
			SessionID:   r.Header.Get("X-Session-ID"),
		})
	}

	payload := map[string]interface{}{
		"listings": results,
		"count":    len(results),
		"facets":   facets,
		"state":    state,
	}
	if emptyReason != "" {
		payload["empty_reason"] = emptyReason
	}

	respondWithJSON(w, http.StatusOK, payload)
}

// UpsertListing handles POST /api/listings. It writes through the
// cached repository, which invalidates caches and publishes a listing
// event for the other API instances.
func (h *ListingHandler) UpsertListing(w http.ResponseWriter, r *http.Request) {
	var listing entities.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(listing.Title) == "" {
		respondWithError(w, http.StatusBadRequest, "listing title is required")
		return
	}
	if _, ok := entities.ParseCategory(string(listing.Category)); !ok {
		respondWithError(w, http.StatusBadRequest, "unknown listing category")
		return
	}
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}

	if err := h.listingRepo.Upsert(r.Context(), &listing); err != nil {
		respondWithAppError(w, err, "failed to save listing")
		return
	}

	respondWithJSON(w, http.StatusCreated, &listing)
}

// DeleteListing handles DELETE /api/listings/{id}
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	listingID := r.PathValue("id")
	if listingID == "" {
		respondWithError(w, http.StatusBadRequest, "listing ID is required")
		return
	}

	if err := h.listingRepo.Delete(r.Context(), listingID); err != nil {
		respondWithAppError(w, err, "failed to delete listing")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SuggestListings handles GET /api/listings/suggest
func (h *ListingHandler) SuggestListings(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		respondWithError(w, http.StatusServiceUnavailable, "suggestions are not available")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"suggestions": []*entities.Suggestion{},
		})
		return
	}

	categoryHint, _ := entities.ParseCategory(r.URL.Query().Get("cat"))

	suggestions, err := h.suggester.Suggest(r.Context(), query, categoryHint, 8)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "failed to fetch suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []*entities.Suggestion{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}

// decodeSearchParams reads the shareable URL state and the per-category
// scalar filters. The scalars are request-only: they never appear in
// shared URLs, but the search endpoint still honors them.
func decodeSearchParams(r *http.Request) services.FilterState {
	v := r.URL.Query()
	state := services.DecodeFilterState(v)

	setScalar := func(dst *string, param string) {
		if value := strings.TrimSpace(v.Get(param)); value != "" {
			*dst = value
		}
	}
	setScalar(&state.Skill, "skill")
	setScalar(&state.MinExperience, "min_experience")
	setScalar(&state.AIType, "type")
	setScalar(&state.MaxCost, "max_cost")
	setScalar(&state.Integration, "integration")
	setScalar(&state.Certification, "certification")
	setScalar(&state.Technology, "technology")

	return state
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps a typed application error onto its HTTP
// status; anything else becomes a generic 500.
func respondWithAppError(w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		respondWithError(w, appErr.HTTPStatus(), appErr.Message)
		return
	}
	respondWithError(w, http.StatusInternalServerError, fallback)
}
