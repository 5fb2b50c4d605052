package services

import (
	"testing"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peopleListings() []*entities.Listing {
	return []*entities.Listing{
		{
			ID:          "1",
			Category:    entities.CategoryPeople,
			Subcategory: "Engineer",
			Title:       "Jane",
			Location:    "London",
			People: &entities.PeopleAttrs{
				Skills:          []string{"Go", "Rust"},
				YearsExperience: 5,
			},
		},
		{
			ID:          "2",
			Category:    entities.CategoryPeople,
			Subcategory: "Designer",
			Title:       "Sam",
			Location:    "Berlin",
			People: &entities.PeopleAttrs{
				Skills:          []string{"Figma"},
				YearsExperience: 2,
			},
		},
	}
}

func mixedListings() []*entities.Listing {
	return append(peopleListings(),
		&entities.Listing{
			ID:          "3",
			Category:    entities.CategoryAI,
			Subcategory: "Agent",
			Title:       "DraftBot",
			AI: &entities.AIAttrs{
				Type:         "agent",
				CostValue:    49,
				Integrations: []string{"Slack", "Notion"},
			},
		},
		&entities.Listing{
			ID:          "4",
			Category:    entities.CategoryAI,
			Subcategory: "Copilot",
			Title:       "FreePilot",
			AI: &entities.AIAttrs{
				Type:         "copilot",
				Integrations: []string{"Slack"},
			},
		},
		&entities.Listing{
			ID:          "5",
			Category:    entities.CategoryProducts,
			Subcategory: "Hardware",
			Title:       "WeldRig",
			IsVerified:  true,
			Product: &entities.ProductAttrs{
				Certifications: []string{"ISO9001"},
				Technology:     "Robotics",
			},
		},
	)
}

func ids(listings []*entities.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func stateFor(cat entities.Category) FilterState {
	st := DefaultFilterState()
	st.SwitchCategory(cat)
	return st
}

func TestApply_CategoryIsolation(t *testing.T) {
	svc := NewListingFilterService()
	listings := mixedListings()

	// No other filter can pull a listing across the category boundary.
	st := stateFor(entities.CategoryPeople)
	st.Query = "o" // matches titles across categories
	for _, l := range svc.Apply(listings, st) {
		assert.Equal(t, entities.CategoryPeople, l.Category)
	}

	st = stateFor(entities.CategoryAI)
	assert.ElementsMatch(t, []string{"3", "4"}, ids(svc.Apply(listings, st)))
}

func TestApply_SkillFilter(t *testing.T) {
	svc := NewListingFilterService()

	st := stateFor(entities.CategoryPeople)
	st.Skill = "Go"

	out := svc.Apply(peopleListings(), st)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestApply_SkillFallsBackToExpertiseOnlyWhenSkillsEmpty(t *testing.T) {
	svc := NewListingFilterService()
	listings := []*entities.Listing{
		{
			ID: "a", Category: entities.CategoryPeople, Title: "A",
			People: &entities.PeopleAttrs{Expertise: []string{"Welding"}},
		},
		{
			ID: "b", Category: entities.CategoryPeople, Title: "B",
			// Skills present: expertise must NOT be consulted.
			People: &entities.PeopleAttrs{Skills: []string{"Go"}, Expertise: []string{"Welding"}},
		},
	}

	st := stateFor(entities.CategoryPeople)
	st.Skill = "Welding"

	out := svc.Apply(listings, st)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestApply_MinExperience(t *testing.T) {
	svc := NewListingFilterService()

	st := stateFor(entities.CategoryPeople)
	st.MinExperience = "3"

	out := svc.Apply(peopleListings(), st)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestApply_MinExperienceMissingCountsAsZero(t *testing.T) {
	svc := NewListingFilterService()
	listings := []*entities.Listing{
		{ID: "x", Category: entities.CategoryPeople, Title: "X"},
	}

	st := stateFor(entities.CategoryPeople)
	st.MinExperience = "1"
	assert.Empty(t, svc.Apply(listings, st))

	st.MinExperience = "0"
	assert.Len(t, svc.Apply(listings, st), 1)
}

func TestApply_SearchMatchesLocationCaseInsensitive(t *testing.T) {
	svc := NewListingFilterService()

	st := stateFor(entities.CategoryPeople)
	st.Query = "berlin"

	out := svc.Apply(peopleListings(), st)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)
}

func TestApply_SearchMatchesAnyStringAttribute(t *testing.T) {
	svc := NewListingFilterService()
	listings := peopleListings()
	listings[0].Extra = map[string]any{"languages": []string{"English", "French"}}

	st := stateFor(entities.CategoryPeople)
	st.Query = "french"

	out := svc.Apply(listings, st)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestApply_SearchDoesNotMatchSubcategory(t *testing.T) {
	svc := NewListingFilterService()
	listings := peopleListings()
	// "Welder" appears only in the subcategory, which has its own filter
	// stage and is excluded from the free-text haystack.
	listings[0].Subcategory = "Welder"

	st := stateFor(entities.CategoryPeople)
	st.Query = "welder"

	assert.Empty(t, svc.Apply(listings, st))
}

func TestApply_SubcategoryUnionSemantics(t *testing.T) {
	svc := NewListingFilterService()
	listings := peopleListings()

	st := stateFor(entities.CategoryPeople)
	st.Subcategories = []string{"Engineer", "Designer"}
	both := svc.Apply(listings, st)
	assert.ElementsMatch(t, []string{"1", "2"}, ids(both))

	// Multi-select equals the union of the single selections.
	st.Subcategories = []string{"Engineer"}
	engineers := svc.Apply(listings, st)
	st.Subcategories = []string{"Designer"}
	designers := svc.Apply(listings, st)
	assert.ElementsMatch(t, ids(both), append(ids(engineers), ids(designers)...))
}

func TestApply_LocationExactMatch(t *testing.T) {
	svc := NewListingFilterService()

	st := stateFor(entities.CategoryPeople)
	st.Location = "London"

	out := svc.Apply(peopleListings(), st)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestApply_AIFilters(t *testing.T) {
	svc := NewListingFilterService()
	listings := mixedListings()

	st := stateFor(entities.CategoryAI)
	st.AIType = "agent"
	out := svc.Apply(listings, st)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)

	st = stateFor(entities.CategoryAI)
	st.Integration = "Notion"
	out = svc.Apply(listings, st)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)
}

func TestApply_MaxCostMissingAlwaysPasses(t *testing.T) {
	svc := NewListingFilterService()
	listings := mixedListings()

	st := stateFor(entities.CategoryAI)
	st.MaxCost = "10"

	// DraftBot costs 49 and is excluded; FreePilot has no cost value and
	// always passes a max-cost filter.
	out := svc.Apply(listings, st)
	require.Len(t, out, 1)
	assert.Equal(t, "4", out[0].ID)
}

func TestApply_ProductTechnologyMatchesEitherField(t *testing.T) {
	svc := NewListingFilterService()
	listings := []*entities.Listing{
		{
			ID: "t1", Category: entities.CategoryProducts, Title: "T1",
			Product: &entities.ProductAttrs{Technology: "Robotics"},
		},
		{
			ID: "t2", Category: entities.CategoryProducts, Title: "T2",
			Product: &entities.ProductAttrs{CompanyType: "Robotics"},
		},
		{
			ID: "t3", Category: entities.CategoryProducts, Title: "T3",
			Product: &entities.ProductAttrs{Technology: "Optics"},
		},
	}

	st := stateFor(entities.CategoryProducts)
	st.Technology = "Robotics"

	assert.ElementsMatch(t, []string{"t1", "t2"}, ids(svc.Apply(listings, st)))
}

func TestFacets_DerivedFromCategoryNarrowedSetOnly(t *testing.T) {
	svc := NewListingFilterService()
	listings := mixedListings()

	before := svc.Facets(listings, entities.CategoryPeople)
	assert.ElementsMatch(t, []string{"Engineer", "Designer"}, before.Subcategories)
	assert.ElementsMatch(t, []string{"London", "Berlin"}, before.Locations)

	// Facet options do not depend on the other active filters, so the
	// same call after any location choice yields the identical lists.
	assert.Equal(t, before, svc.Facets(listings, entities.CategoryPeople))

	ai := svc.Facets(listings, entities.CategoryAI)
	assert.ElementsMatch(t, []string{"agent", "copilot"}, ai.AITypes)
	assert.ElementsMatch(t, []string{"Slack", "Notion"}, ai.Integrations)
}

func TestApply_SortByTitle(t *testing.T) {
	svc := NewListingFilterService()

	st := stateFor(entities.CategoryPeople)
	st.SortBy = SortTitle

	out := svc.Apply(peopleListings(), st)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"1", "2"}, ids(out)) // Jane before Sam
}

func TestApply_SortByExperienceDescending(t *testing.T) {
	svc := NewListingFilterService()

	st := stateFor(entities.CategoryPeople)
	st.SortBy = SortExperience

	out := svc.Apply(peopleListings(), st)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
}

func TestApply_RelevanceKeepsSnapshotOrder(t *testing.T) {
	svc := NewListingFilterService()
	listings := peopleListings()
	listings[0], listings[1] = listings[1], listings[0]

	out := svc.Apply(listings, stateFor(entities.CategoryPeople))
	assert.Equal(t, []string{"2", "1"}, ids(out))
}

func TestEmptyStateReason(t *testing.T) {
	svc := NewListingFilterService()

	st := stateFor(entities.CategoryServices)
	assert.Equal(t, EmptyReasonCategoryEmpty, svc.EmptyStateReason(st, 0))

	st.Location = "London"
	assert.Equal(t, EmptyReasonNoMatch, svc.EmptyStateReason(st, 0))

	assert.Empty(t, svc.EmptyStateReason(st, 3))
}
