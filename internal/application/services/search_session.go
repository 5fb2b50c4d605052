package services

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
)

const (
	defaultSearchDebounce     = 300 * time.Millisecond
	defaultSuggestionDebounce = 200 * time.Millisecond

	// minSuggestionQueryLen gates the autocomplete fetch; shorter input
	// clears suggestions locally without a call.
	minSuggestionQueryLen = 2

	suggestionLimit = 8
)

// SessionOption configures a SearchSession.
type SessionOption func(*SearchSession)

// WithDebounce overrides the two independent debounce windows. They must
// not be conflated: search gates the filter pipeline, suggest gates the
// autocomplete fetch.
func WithDebounce(search, suggest time.Duration) SessionOption {
	return func(s *SearchSession) {
		s.searchDebounce = search
		s.suggestDebounce = suggest
	}
}

// WithSuggestionProvider wires the autocomplete service.
func WithSuggestionProvider(p providers.SuggestionProvider) SessionOption {
	return func(s *SearchSession) { s.suggester = p }
}

// WithAISearch wires the AI filter-extraction service.
func WithAISearch(svc *AISearchService) SessionOption {
	return func(s *SearchSession) { s.aiSearch = svc }
}

// WithResultsHook registers a callback fired after every pipeline
// recompute with the freshly derived result set.
func WithResultsHook(fn func([]*entities.Listing)) SessionOption {
	return func(s *SearchSession) { s.onResults = fn }
}

// WithSuggestionsHook registers a callback fired when the suggestion list
// changes.
func WithSuggestionsHook(fn func([]*entities.Suggestion)) SessionOption {
	return func(s *SearchSession) { s.onSuggestions = fn }
}

// WithErrorHook registers the boundary where async call failures become
// user-facing notices. Failures never mutate filter state.
func WithErrorHook(fn func(error)) SessionOption {
	return func(s *SearchSession) { s.onError = fn }
}

// SearchSession owns the filter state for one viewer over one immutable
// listing snapshot. All state transitions are synchronous under a single
// mutex; the only asynchronous work is the two debounce timers and the
// suggestion/AI calls they trigger, each guarded by a generation counter
// so a superseded response is dropped instead of clobbering newer state.
type SearchSession struct {
	mu sync.Mutex

	filter    *ListingFilterService
	listings  []*entities.Listing
	state     FilterState
	selection *SelectionSet

	rawQuery        string
	searchDebounce  time.Duration
	suggestDebounce time.Duration
	searchTimer     *time.Timer
	suggestTimer    *time.Timer

	suggester   providers.SuggestionProvider
	aiSearch    *AISearchService
	suggestions []*entities.Suggestion
	explanation string

	searchGen  uint64
	suggestGen uint64
	aiGen      uint64

	onResults     func([]*entities.Listing)
	onSuggestions func([]*entities.Suggestion)
	onError       func(error)
}

// NewSearchSession creates a session over a listing snapshot. The
// snapshot is treated as immutable for the session's lifetime.
func NewSearchSession(listings []*entities.Listing, opts ...SessionOption) *SearchSession {
	s := &SearchSession{
		filter:          NewListingFilterService(),
		listings:        listings,
		state:           DefaultFilterState(),
		selection:       NewSelectionSet(),
		searchDebounce:  defaultSearchDebounce,
		suggestDebounce: defaultSuggestionDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current filter state.
func (s *SearchSession) State() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Results recomputes and returns the visible subset for the current
// state.
func (s *SearchSession) Results() []*entities.Listing {
	s.mu.Lock()
	st := s.state.clone()
	s.mu.Unlock()
	return s.filter.Apply(s.listings, st)
}

// Facets returns option lists for the active category.
func (s *SearchSession) Facets() *Facets {
	s.mu.Lock()
	cat := s.state.Category
	s.mu.Unlock()
	return s.filter.Facets(s.listings, cat)
}

// EmptyStateReason returns the zero-result message for the current
// results, or "" if there are matches.
func (s *SearchSession) EmptyStateReason() string {
	results := s.Results()
	s.mu.Lock()
	st := s.state.clone()
	s.mu.Unlock()
	return s.filter.EmptyStateReason(st, len(results))
}

// SetQuery records a keystroke. Both debounce timers reset; only after
// the search window settles does the committed query (and therefore the
// pipeline) update. The suggestion timer is armed independently and only
// when the input is long enough, otherwise pending suggestions are
// cleared locally with no call.
func (s *SearchSession) SetQuery(query string) {
	s.mu.Lock()
	s.rawQuery = query

	if s.searchTimer != nil {
		s.searchTimer.Stop()
	}
	// Stop is not enough on its own: a timer that already fired and is
	// waiting on the mutex would still commit, so the commit re-checks
	// the generation.
	s.searchGen++
	committed, gen := query, s.searchGen
	s.searchTimer = time.AfterFunc(s.searchDebounce, func() {
		s.commitQuery(committed, gen)
	})

	if s.suggestTimer != nil {
		s.suggestTimer.Stop()
	}
	trimmed := strings.TrimSpace(query)
	if len(trimmed) >= minSuggestionQueryLen && s.suggester != nil {
		s.suggestGen++
		gen := s.suggestGen
		s.suggestTimer = time.AfterFunc(s.suggestDebounce, func() {
			s.fetchSuggestions(trimmed, gen)
		})
	} else {
		s.suggestGen++ // invalidate any in-flight fetch
		s.suggestions = nil
	}
	s.mu.Unlock()
}

// RawQuery returns the uncommitted input text.
func (s *SearchSession) RawQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawQuery
}

func (s *SearchSession) commitQuery(query string, gen uint64) {
	s.mu.Lock()
	if gen != s.searchGen {
		s.mu.Unlock()
		return
	}
	s.state.Query = query
	s.mu.Unlock()
	s.notifyResults()
}

func (s *SearchSession) fetchSuggestions(query string, gen uint64) {
	s.mu.Lock()
	cat := s.state.Category
	s.mu.Unlock()

	suggestions, err := s.suggester.Suggest(context.Background(), query, cat, suggestionLimit)

	s.mu.Lock()
	if gen != s.suggestGen {
		// A newer keystroke superseded this fetch; drop it.
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.mu.Unlock()
		if s.onError != nil {
			s.onError(err)
		}
		return
	}
	s.suggestions = suggestions
	hook := s.onSuggestions
	s.mu.Unlock()

	if hook != nil {
		hook(suggestions)
	}
}

// Suggestions returns the current autocomplete entries.
func (s *SearchSession) Suggestions() []*entities.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entities.Suggestion(nil), s.suggestions...)
}

// SwitchCategory changes the active tab, resets every category-scoped
// filter, and clears the comparison selection.
func (s *SearchSession) SwitchCategory(category entities.Category) {
	s.mu.Lock()
	s.state.SwitchCategory(category)
	s.selection.Clear()
	s.mu.Unlock()
	s.notifyResults()
}

// ToggleSubcategory flips a subcategory in the multi-select filter.
func (s *SearchSession) ToggleSubcategory(sub string) {
	s.update(func(st *FilterState) {
		for i, existing := range st.Subcategories {
			if existing == sub {
				st.Subcategories = append(st.Subcategories[:i], st.Subcategories[i+1:]...)
				return
			}
		}
		st.Subcategories = append(st.Subcategories, sub)
	})
}

// SetLocation sets the location filter ("all" clears it).
func (s *SearchSession) SetLocation(location string) {
	s.update(func(st *FilterState) { st.Location = location })
}

// SetSkill sets the People skill filter.
func (s *SearchSession) SetSkill(skill string) {
	s.update(func(st *FilterState) { st.Skill = skill })
}

// SetMinExperience sets the People minimum-experience filter.
func (s *SearchSession) SetMinExperience(min string) {
	s.update(func(st *FilterState) { st.MinExperience = min })
}

// SetAIType sets the AI type filter.
func (s *SearchSession) SetAIType(aiType string) {
	s.update(func(st *FilterState) { st.AIType = aiType })
}

// SetMaxCost sets the AI max-cost filter.
func (s *SearchSession) SetMaxCost(maxCost string) {
	s.update(func(st *FilterState) { st.MaxCost = maxCost })
}

// SetIntegration sets the AI integration filter.
func (s *SearchSession) SetIntegration(integration string) {
	s.update(func(st *FilterState) { st.Integration = integration })
}

// SetCertification sets the Products certification filter.
func (s *SearchSession) SetCertification(cert string) {
	s.update(func(st *FilterState) { st.Certification = cert })
}

// SetTechnology sets the Products technology filter.
func (s *SearchSession) SetTechnology(tech string) {
	s.update(func(st *FilterState) { st.Technology = tech })
}

// SetSortBy sets the sort order.
func (s *SearchSession) SetSortBy(key SortKey) {
	s.update(func(st *FilterState) { st.SortBy = key })
}

func (s *SearchSession) update(fn func(*FilterState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notifyResults()
}

func (s *SearchSession) notifyResults() {
	if s.onResults == nil {
		return
	}
	s.onResults(s.Results())
}

// ToggleSelection flips a listing in the comparison set and reports
// whether it is now selected. A 4th distinct id is ignored.
func (s *SearchSession) ToggleSelection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Toggle(id)
}

// SelectionIDs returns the comparison ids in selection order.
func (s *SearchSession) SelectionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// SelectedListings resolves the comparison set against the full snapshot,
// not the filtered view, so filter changes never drop a selected item.
func (s *SearchSession) SelectedListings() []*entities.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Resolve(s.listings)
}

// ApplyAISearch runs the AI extraction for a natural-language query and,
// on success, installs the merged filter state. A response superseded by
// a newer AI search is dropped. On failure the state is left untouched
// and the error is returned for the caller to surface.
func (s *SearchSession) ApplyAISearch(ctx context.Context, query string) error {
	if s.aiSearch == nil {
		return nil
	}

	s.mu.Lock()
	s.aiGen++
	gen := s.aiGen
	current := s.state.clone()
	s.mu.Unlock()

	result, err := s.aiSearch.Search(ctx, query, current)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if gen != s.aiGen {
		s.mu.Unlock()
		return nil
	}
	if result.State.Category != s.state.Category {
		s.selection.Clear()
	}
	s.state = result.State
	s.explanation = result.Explanation
	s.mu.Unlock()

	s.notifyResults()
	return nil
}

// AIExplanation returns the rationale from the last applied AI search.
func (s *SearchSession) AIExplanation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.explanation
}

// SeedFromURL replaces the filter state with one parsed from query
// parameters, as on initial page load.
func (s *SearchSession) SeedFromURL(values url.Values) {
	s.mu.Lock()
	s.searchGen++ // a pending debounced commit must not overwrite the seed
	s.state = DecodeFilterState(values)
	s.rawQuery = s.state.Query
	s.mu.Unlock()
	s.notifyResults()
}

// URLState serializes the current state into shareable query parameters.
func (s *SearchSession) URLState() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EncodeFilterState(s.state)
}

// Close stops any pending debounce timers.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchTimer != nil {
		s.searchTimer.Stop()
	}
	if s.suggestTimer != nil {
		s.suggestTimer.Stop()
	}
	s.searchGen++
	s.suggestGen++
	s.aiGen++
}
