package handlers

import (
	"net/http"

	"github.com/centaurhub/marketplace-backend/internal/application/services"
	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// PairingHandler serves centaur-pairing suggestions.
type PairingHandler struct {
	pairing *services.PairingService
}

// NewPairingHandler creates a new pairing handler
func NewPairingHandler(pairing *services.PairingService) *PairingHandler {
	return &PairingHandler{pairing: pairing}
}

// GetSuggestions handles GET /api/pairing/suggestions
func (h *PairingHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")

	suggestions, err := h.pairing.MatchesFor(r.Context(), memberID)
	if err != nil {
		respondWithAppError(w, err, "failed to get pairing suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []*entities.PairingSuggestion{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}
