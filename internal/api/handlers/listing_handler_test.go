package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/api/handlers"
	"github.com/centaurhub/marketplace-backend/internal/application/services"
	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubListingRepo struct {
	listings []*entities.Listing
}

func (s *stubListingRepo) ListAll(ctx context.Context) ([]*entities.Listing, error) {
	return s.listings, nil
}

func (s *stubListingRepo) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	for _, l := range s.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, apperrors.NewNotFoundError("listing not found")
}

func (s *stubListingRepo) Upsert(ctx context.Context, listing *entities.Listing) error {
	for i, l := range s.listings {
		if l.ID == listing.ID {
			s.listings[i] = listing
			return nil
		}
	}
	s.listings = append(s.listings, listing)
	return nil
}

func (s *stubListingRepo) Delete(ctx context.Context, id string) error {
	for i, l := range s.listings {
		if l.ID == id {
			s.listings = append(s.listings[:i], s.listings[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("listing not found")
}

type stubAnalyticsRepo struct {
	logged chan *entities.SearchEvent
}

func (s *stubAnalyticsRepo) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	s.logged <- event
	return nil
}

func (s *stubAnalyticsRepo) GetRecent(ctx context.Context, sessionID string, limit int) ([]*entities.SearchEvent, error) {
	return nil, nil
}

func (s *stubAnalyticsRepo) GetPopular(ctx context.Context, limit int) ([]*entities.PopularQuery, error) {
	return nil, nil
}

func (s *stubAnalyticsRepo) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return nil, nil
}

type stubSuggestionProvider struct {
	suggestions []*entities.Suggestion
}

func (s *stubSuggestionProvider) Suggest(ctx context.Context, query string, categoryHint entities.Category, limit int) ([]*entities.Suggestion, error) {
	return s.suggestions, nil
}

func testListings() []*entities.Listing {
	return []*entities.Listing{
		{
			ID: "1", Category: entities.CategoryPeople, Subcategory: "Engineer",
			Title: "Jane Welder", Location: "London",
			People: &entities.PeopleAttrs{Skills: []string{"Welding"}, YearsExperience: 5},
		},
		{
			ID: "2", Category: entities.CategoryPeople, Subcategory: "Designer",
			Title: "Sam Draft", Location: "Berlin",
			People: &entities.PeopleAttrs{Skills: []string{"Figma"}, YearsExperience: 2},
		},
		{
			ID: "3", Category: entities.CategoryAI, Subcategory: "Agents",
			Title: "DraftBot", Location: "Remote",
			AI: &entities.AIAttrs{Type: "agent", CostValue: 49},
		},
	}
}

func newListingHandler(repo *stubListingRepo, suggester providers.SuggestionProvider) *handlers.ListingHandler {
	return handlers.NewListingHandler(repo, services.NewListingFilterService(), nil, suggester)
}

func TestListingHandler_SearchListings_FiltersByQueryAndLocation(t *testing.T) {
	handler := newListingHandler(&stubListingRepo{listings: testListings()}, nil)

	req := httptest.NewRequest("GET", "/api/listings/search?q=welder&loc=London", nil)
	w := httptest.NewRecorder()

	handler.SearchListings(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Listings []*entities.Listing `json:"listings"`
		Count    int                 `json:"count"`
		Facets   *services.Facets    `json:"facets"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "1", response.Listings[0].ID)

	// Facets come from the category-narrowed set, not the filtered one.
	assert.ElementsMatch(t, []string{"Engineer", "Designer"}, response.Facets.Subcategories)
}

func TestListingHandler_SearchListings_EmptyReason(t *testing.T) {
	handler := newListingHandler(&stubListingRepo{listings: testListings()}, nil)

	req := httptest.NewRequest("GET", "/api/listings/search?q=nosuchthing", nil)
	w := httptest.NewRecorder()

	handler.SearchListings(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "no items match your filters", response["empty_reason"])
}

func TestListingHandler_SearchListings_ScalarParams(t *testing.T) {
	handler := newListingHandler(&stubListingRepo{listings: testListings()}, nil)

	req := httptest.NewRequest("GET", "/api/listings/search?min_experience=3", nil)
	w := httptest.NewRecorder()

	handler.SearchListings(w, req)

	var response struct {
		Listings []*entities.Listing `json:"listings"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Listings, 1)
	assert.Equal(t, "1", response.Listings[0].ID)
}

func TestListingHandler_GetListing_NotFound(t *testing.T) {
	handler := newListingHandler(&stubListingRepo{listings: testListings()}, nil)

	req := httptest.NewRequest("GET", "/api/listings/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.GetListing(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListingHandler_SuggestListings_ShortQueryReturnsEmpty(t *testing.T) {
	suggester := &stubSuggestionProvider{suggestions: []*entities.Suggestion{{Text: "Welder"}}}
	handler := newListingHandler(&stubListingRepo{}, suggester)

	req := httptest.NewRequest("GET", "/api/listings/suggest?q=w", nil)
	w := httptest.NewRecorder()

	handler.SuggestListings(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Suggestions []*entities.Suggestion `json:"suggestions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Empty(t, response.Suggestions)
}

func TestListingHandler_SuggestListings_ReturnsProviderResults(t *testing.T) {
	suggester := &stubSuggestionProvider{suggestions: []*entities.Suggestion{
		{Text: "Jane Welder", Category: entities.CategoryPeople},
	}}
	handler := newListingHandler(&stubListingRepo{}, suggester)

	req := httptest.NewRequest("GET", "/api/listings/suggest?q=wel", nil)
	w := httptest.NewRecorder()

	handler.SuggestListings(w, req)

	var response struct {
		Suggestions []*entities.Suggestion `json:"suggestions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Suggestions, 1)
	assert.Equal(t, "Jane Welder", response.Suggestions[0].Text)
}

func TestListingHandler_SearchListings_TracksQueryWithLatency(t *testing.T) {
	analyticsRepo := &stubAnalyticsRepo{logged: make(chan *entities.SearchEvent, 1)}
	analytics := services.NewSearchAnalyticsService(analyticsRepo)
	handler := handlers.NewListingHandler(
		&stubListingRepo{listings: testListings()},
		services.NewListingFilterService(),
		analytics,
		nil,
	)

	req := httptest.NewRequest("GET", "/api/listings/search?q=welder", nil)
	req.Header.Set("X-Session-ID", "session-9")
	w := httptest.NewRecorder()

	handler.SearchListings(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case event := <-analyticsRepo.logged:
		assert.Equal(t, "welder", event.Query)
		assert.Equal(t, "session-9", event.SessionID)
		assert.Equal(t, 1, event.ResultCount)
		assert.GreaterOrEqual(t, event.LatencyMs, int64(0))
	case <-time.After(time.Second):
		t.Fatal("search event was not logged")
	}
}

func TestListingHandler_UpsertListing_CreatesListing(t *testing.T) {
	repo := &stubListingRepo{}
	handler := newListingHandler(repo, nil)

	body := `{"category":"people","subcategory":"Engineer","title":"New Hire","location":"Oslo"}`
	req := httptest.NewRequest("POST", "/api/listings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.UpsertListing(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.listings, 1)
	assert.NotEmpty(t, repo.listings[0].ID)
	assert.Equal(t, "New Hire", repo.listings[0].Title)
}

func TestListingHandler_UpsertListing_RejectsUnknownCategory(t *testing.T) {
	repo := &stubListingRepo{}
	handler := newListingHandler(repo, nil)

	body := `{"category":"vehicles","title":"Truck"}`
	req := httptest.NewRequest("POST", "/api/listings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.UpsertListing(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.listings)
}

func TestListingHandler_DeleteListing_RemovesListing(t *testing.T) {
	repo := &stubListingRepo{listings: testListings()}
	handler := newListingHandler(repo, nil)

	req := httptest.NewRequest("DELETE", "/api/listings/2", nil)
	req.SetPathValue("id", "2")
	w := httptest.NewRecorder()

	handler.DeleteListing(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, repo.listings, 2)
}
