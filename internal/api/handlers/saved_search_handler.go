package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/centaurhub/marketplace-backend/internal/application/services"
	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// SavedSearchHandler handles saved-search CRUD.
type SavedSearchHandler struct {
	savedSearches *services.SavedSearchService
}

// NewSavedSearchHandler creates a new saved search handler
func NewSavedSearchHandler(savedSearches *services.SavedSearchService) *SavedSearchHandler {
	return &SavedSearchHandler{savedSearches: savedSearches}
}

type saveSearchRequest struct {
	Name           string `json:"name"`
	State          string `json:"state"`
	AlertEnabled   bool   `json:"alert_enabled"`
	AlertFrequency string `json:"alert_frequency"`
}

// SaveSearch handles POST /api/searches/saved
func (h *SavedSearchHandler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	var req saveSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	values, err := url.ParseQuery(req.State)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid state encoding")
		return
	}
	state := services.DecodeFilterState(values)

	search := &entities.SavedSearch{
		SessionID:      r.Header.Get("X-Session-ID"),
		Name:           req.Name,
		AlertEnabled:   req.AlertEnabled,
		AlertFrequency: req.AlertFrequency,
	}

	if err := h.savedSearches.Save(r.Context(), search, state); err != nil {
		respondWithAppError(w, err, "failed to save search")
		return
	}

	respondWithJSON(w, http.StatusCreated, search)
}

// ListSaved handles GET /api/searches/saved
func (h *SavedSearchHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	searches, err := h.savedSearches.List(r.Context(), r.Header.Get("X-Session-ID"))
	if err != nil {
		respondWithAppError(w, err, "failed to list saved searches")
		return
	}
	if searches == nil {
		searches = []*entities.SavedSearch{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searches": searches,
		"count":    len(searches),
	})
}

// DeleteSaved handles DELETE /api/searches/saved/{id}
func (h *SavedSearchHandler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "saved search ID is required")
		return
	}

	if err := h.savedSearches.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err, "failed to delete saved search")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
