package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	queries []string
	count   int
}

func (r *recorder) hook(session *SearchSession) func([]*entities.Listing) {
	return func([]*entities.Listing) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.count++
		r.queries = append(r.queries, session.State().Query)
	}
}

func (r *recorder) snapshot() (int, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count, append([]string(nil), r.queries...)
}

type stubSuggester struct {
	mu      sync.Mutex
	calls   []string
	results []*entities.Suggestion
	delay   time.Duration
}

func (s *stubSuggester) Suggest(ctx context.Context, query string, cat entities.Category, limit int) ([]*entities.Suggestion, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.results, nil
}

func (s *stubSuggester) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestSession(t *testing.T, opts ...SessionOption) (*SearchSession, *recorder) {
	t.Helper()
	rec := &recorder{}
	var session *SearchSession
	opts = append(opts, WithDebounce(30*time.Millisecond, 20*time.Millisecond))
	session = NewSearchSession(mixedListings(), opts...)
	session.onResults = rec.hook(session)
	t.Cleanup(session.Close)
	return session, rec
}

func TestSession_DebounceCollapsesKeystrokes(t *testing.T) {
	session, rec := newTestSession(t)

	// Three keystrokes inside the window must produce exactly one
	// recompute, using the final text.
	session.SetQuery("a")
	session.SetQuery("ab")
	session.SetQuery("abc")

	time.Sleep(120 * time.Millisecond)

	count, queries := rec.snapshot()
	assert.Equal(t, 1, count)
	require.Len(t, queries, 1)
	assert.Equal(t, "abc", queries[0])
	assert.Equal(t, "abc", session.State().Query)
}

func TestSession_DebounceTimerResetsPerKeystroke(t *testing.T) {
	session, rec := newTestSession(t)

	session.SetQuery("a")
	time.Sleep(60 * time.Millisecond) // first window settles
	session.SetQuery("ab")
	time.Sleep(120 * time.Millisecond)

	count, queries := rec.snapshot()
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"a", "ab"}, queries)
}

func TestSession_SeedInvalidatesPendingQueryCommit(t *testing.T) {
	session, _ := newTestSession(t)

	// The keystroke's debounce timer is still pending when the URL state
	// is installed; it must not overwrite the seeded query afterwards.
	session.SetQuery("stale")
	session.SeedFromURL(mustParseQuery(t, "q=welder&loc=London"))

	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, "welder", session.State().Query)
	assert.Equal(t, "London", session.State().Location)
}

func TestSession_SuggestionFetchGatedOnLength(t *testing.T) {
	suggester := &stubSuggester{results: []*entities.Suggestion{{Text: "golang"}}}
	session, _ := newTestSession(t, WithSuggestionProvider(suggester))

	session.SetQuery("g") // below the 2-char gate: no call
	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, suggester.callCount())
	assert.Empty(t, session.Suggestions())

	session.SetQuery("go")
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, suggester.callCount())
	require.Len(t, session.Suggestions(), 1)
	assert.Equal(t, "golang", session.Suggestions()[0].Text)

	// Shrinking below the gate clears suggestions locally, no extra call.
	session.SetQuery("g")
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, suggester.callCount())
	assert.Empty(t, session.Suggestions())
}

func TestSession_StaleSuggestionResponseDropped(t *testing.T) {
	slow := &stubSuggester{results: []*entities.Suggestion{{Text: "stale"}}, delay: 60 * time.Millisecond}
	session, _ := newTestSession(t, WithSuggestionProvider(slow))

	session.SetQuery("go")
	time.Sleep(30 * time.Millisecond) // fetch is in flight
	session.SetQuery("g")             // supersedes and clears
	time.Sleep(150 * time.Millisecond)

	assert.Empty(t, session.Suggestions(), "superseded response must not be applied")
}

func TestSession_CategorySwitchResetsScopedFiltersAndSelection(t *testing.T) {
	session, _ := newTestSession(t)

	session.SetLocation("London")
	session.SetSkill("Go")
	session.SetMinExperience("3")
	session.ToggleSubcategory("Engineer")
	assert.True(t, session.ToggleSelection("1"))

	session.SwitchCategory(entities.CategoryAI)

	st := session.State()
	assert.Equal(t, entities.CategoryAI, st.Category)
	assert.Equal(t, FilterAll, st.Location)
	assert.Equal(t, FilterAll, st.Skill)
	assert.Equal(t, FilterAll, st.MinExperience)
	assert.Empty(t, st.Subcategories)
	assert.Empty(t, session.SelectionIDs())
}

func TestSession_SelectionIndependentOfFilters(t *testing.T) {
	session, _ := newTestSession(t)

	session.ToggleSelection("1")
	session.ToggleSelection("2")

	// A filter that excludes Sam must not drop him from the comparison.
	session.SetLocation("London")

	selected := session.SelectedListings()
	require.Len(t, selected, 2)
	assert.Equal(t, "1", selected[0].ID)
	assert.Equal(t, "2", selected[1].ID)
}

func TestSession_ToggleSubcategoryTwiceRemoves(t *testing.T) {
	session, _ := newTestSession(t)

	session.ToggleSubcategory("Engineer")
	assert.Equal(t, []string{"Engineer"}, session.State().Subcategories)
	session.ToggleSubcategory("Engineer")
	assert.Empty(t, session.State().Subcategories)
}

func TestSession_SeedFromURLAndRoundTrip(t *testing.T) {
	session, _ := newTestSession(t)

	session.SeedFromURL(map[string][]string{
		"q":   {"welder"},
		"sub": {"Engineer"},
		"loc": {"London"},
	})

	st := session.State()
	assert.Equal(t, "welder", st.Query)
	assert.Equal(t, []string{"Engineer"}, st.Subcategories)
	assert.Equal(t, "London", st.Location)

	assert.Equal(t, "loc=London&q=welder&sub=Engineer", session.URLState().Encode())
}

func TestSession_ApplyAISearchInstallsMergedState(t *testing.T) {
	extractor := new(MockExtractor)
	session, _ := newTestSession(t, WithAISearch(NewAISearchService(extractor)))

	extractor.On("ExtractFilters", mock.Anything, mock.Anything).Return(&entities.ExtractedFilters{
		Location:    strPtr("Berlin"),
		Skills:      []string{"Figma"},
		Explanation: "Designers in Berlin",
	}, nil)

	require.NoError(t, session.ApplyAISearch(context.Background(), "designers in berlin"))

	st := session.State()
	assert.Equal(t, "Berlin", st.Location)
	assert.Equal(t, "Figma", st.Skill)
	assert.Equal(t, "Designers in Berlin", session.AIExplanation())

	results := session.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].ID)
}

func TestSession_AISearchFailureLeavesStateUntouched(t *testing.T) {
	extractor := new(MockExtractor)
	session, _ := newTestSession(t, WithAISearch(NewAISearchService(extractor)))

	session.SetLocation("London")
	extractor.On("ExtractFilters", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	err := session.ApplyAISearch(context.Background(), "find me anything")
	require.Error(t, err)
	assert.Equal(t, "London", session.State().Location)
}

func TestSession_EmptyStateReason(t *testing.T) {
	session, _ := newTestSession(t)

	session.SwitchCategory(entities.CategoryServices)
	assert.Equal(t, EmptyReasonCategoryEmpty, session.EmptyStateReason())

	session.SetLocation("Nowhere")
	assert.Equal(t, EmptyReasonNoMatch, session.EmptyStateReason())
}
