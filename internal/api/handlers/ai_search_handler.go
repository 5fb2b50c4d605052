package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/centaurhub/marketplace-backend/internal/application/services"
)

// AISearchHandler handles natural-language search requests.
type AISearchHandler struct {
	aiSearch *services.AISearchService
}

// NewAISearchHandler creates a new AI search handler
func NewAISearchHandler(aiSearch *services.AISearchService) *AISearchHandler {
	return &AISearchHandler{aiSearch: aiSearch}
}

type aiSearchRequest struct {
	Query string `json:"query"`
	// State carries the caller's current filter state in the same
	// encoding as a shared URL, so extraction merges instead of replacing.
	State string `json:"state,omitempty"`
}

// Search handles POST /api/search/ai
func (h *AISearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req aiSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current := services.DefaultFilterState()
	if req.State != "" {
		values, err := url.ParseQuery(req.State)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid state encoding")
			return
		}
		current = services.DecodeFilterState(values)
	}

	result, err := h.aiSearch.Search(r.Context(), req.Query, current)
	if err != nil {
		respondWithAppError(w, err, "ai search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"state":       result.State,
		"state_query": services.EncodeFilterState(result.State).Encode(),
		"explanation": result.Explanation,
	})
}
