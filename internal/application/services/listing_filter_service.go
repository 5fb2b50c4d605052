package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// Empty-state reasons for a zero-result render. An empty result is a
// normal terminal state, not an error.
const (
	EmptyReasonNoMatch       = "no items match your filters"
	EmptyReasonCategoryEmpty = "no listings in this category yet"
)

// Facets holds the option lists for every filter control, derived from the
// category-narrowed collection only. Changing one filter never shrinks the
// options of another; only switching category changes facets.
type Facets struct {
	Subcategories  []string `json:"subcategories"`
	Locations      []string `json:"locations"`
	Skills         []string `json:"skills,omitempty"`
	AITypes        []string `json:"ai_types,omitempty"`
	Integrations   []string `json:"integrations,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Technologies   []string `json:"technologies,omitempty"`
}

// ListingFilterService derives the visible subset of a listing snapshot
// from a FilterState. It is stateless: every call recomputes from scratch
// as a pure function of its inputs.
type ListingFilterService struct{}

// NewListingFilterService creates a new filter service.
func NewListingFilterService() *ListingFilterService {
	return &ListingFilterService{}
}

// Apply runs the filter pipeline over the snapshot. Stages narrow in a
// fixed order: category, free-text query, subcategories, location,
// category-specific filters, then sort.
func (s *ListingFilterService) Apply(listings []*entities.Listing, st FilterState) []*entities.Listing {
	query := strings.ToLower(strings.TrimSpace(st.Query))

	out := make([]*entities.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Category != st.Category {
			continue
		}
		if query != "" && !matchesQuery(l, query) {
			continue
		}
		if len(st.Subcategories) > 0 && !containsString(st.Subcategories, l.Subcategory) {
			continue
		}
		if constrained(st.Location) && l.Location != st.Location {
			continue
		}
		if !matchesCategoryFilters(l, st) {
			continue
		}
		out = append(out, l)
	}

	sortListings(out, st.SortBy)
	return out
}

// Facets derives filter option lists from the category-narrowed snapshot.
func (s *ListingFilterService) Facets(listings []*entities.Listing, category entities.Category) *Facets {
	f := &Facets{}
	subs := map[string]struct{}{}
	locs := map[string]struct{}{}
	skills := map[string]struct{}{}
	aiTypes := map[string]struct{}{}
	integrations := map[string]struct{}{}
	certs := map[string]struct{}{}
	techs := map[string]struct{}{}

	for _, l := range listings {
		if l.Category != category {
			continue
		}
		addFacet(subs, l.Subcategory)
		addFacet(locs, l.Location)

		if l.People != nil {
			for _, v := range l.People.Skills {
				addFacet(skills, v)
			}
			for _, v := range l.People.Expertise {
				addFacet(skills, v)
			}
		}
		if l.AI != nil {
			addFacet(aiTypes, l.AI.Type)
			for _, v := range l.AI.Integrations {
				addFacet(integrations, v)
			}
		}
		if l.Product != nil {
			for _, v := range l.Product.Certifications {
				addFacet(certs, v)
			}
			addFacet(techs, l.Product.Technology)
			addFacet(techs, l.Product.CompanyType)
		}
	}

	f.Subcategories = sortedKeys(subs)
	f.Locations = sortedKeys(locs)
	f.Skills = sortedKeys(skills)
	f.AITypes = sortedKeys(aiTypes)
	f.Integrations = sortedKeys(integrations)
	f.Certifications = sortedKeys(certs)
	f.Technologies = sortedKeys(techs)
	return f
}

// EmptyStateReason returns the message for a zero-result render, or ""
// when there are results.
func (s *ListingFilterService) EmptyStateReason(st FilterState, resultCount int) string {
	if resultCount > 0 {
		return ""
	}
	if st.HasActiveFilters() {
		return EmptyReasonNoMatch
	}
	return EmptyReasonCategoryEmpty
}

// matchesQuery reports whether the lower-cased query is a substring of any
// searchable field. Plain substring match: no tokenization, no ranking.
func matchesQuery(l *entities.Listing, query string) bool {
	for _, text := range l.SearchableText() {
		if text != "" && strings.Contains(strings.ToLower(text), query) {
			return true
		}
	}
	return false
}

func matchesCategoryFilters(l *entities.Listing, st FilterState) bool {
	switch st.Category {
	case entities.CategoryPeople:
		return matchesPeopleFilters(l, st)
	case entities.CategoryAI:
		return matchesAIFilters(l, st)
	case entities.CategoryProducts:
		return matchesProductFilters(l, st)
	}
	return true
}

func matchesPeopleFilters(l *entities.Listing, st FilterState) bool {
	if constrained(st.Skill) {
		// Skills takes precedence; expertise is consulted only when the
		// listing has no skills at all.
		var pool []string
		if l.People != nil {
			pool = l.People.Skills
			if len(pool) == 0 {
				pool = l.People.Expertise
			}
		}
		if !containsString(pool, st.Skill) {
			return false
		}
	}
	if constrained(st.MinExperience) {
		min, err := strconv.Atoi(st.MinExperience)
		if err == nil {
			years := 0 // missing experience counts as zero
			if l.People != nil {
				years = l.People.YearsExperience
			}
			if years < min {
				return false
			}
		}
	}
	return true
}

func matchesAIFilters(l *entities.Listing, st FilterState) bool {
	if constrained(st.AIType) {
		if l.AI == nil || l.AI.Type != st.AIType {
			return false
		}
	}
	if constrained(st.MaxCost) {
		max, err := strconv.ParseFloat(st.MaxCost, 64)
		if err == nil {
			cost := 0.0 // missing cost always passes a max-cost filter
			if l.AI != nil {
				cost = l.AI.CostValue
			}
			if cost > max {
				return false
			}
		}
	}
	if constrained(st.Integration) {
		if l.AI == nil || !containsString(l.AI.Integrations, st.Integration) {
			return false
		}
	}
	return true
}

func matchesProductFilters(l *entities.Listing, st FilterState) bool {
	if constrained(st.Certification) {
		if l.Product == nil || !containsString(l.Product.Certifications, st.Certification) {
			return false
		}
	}
	if constrained(st.Technology) {
		// Either technology or company type may satisfy the filter.
		if l.Product == nil ||
			(l.Product.Technology != st.Technology && l.Product.CompanyType != st.Technology) {
			return false
		}
	}
	return true
}

// sortListings orders results in place. Relevance keeps snapshot order;
// every sort is stable so equal keys preserve it too.
func sortListings(listings []*entities.Listing, key SortKey) {
	switch key {
	case SortTitle:
		sort.SliceStable(listings, func(i, j int) bool {
			return strings.ToLower(listings[i].Title) < strings.ToLower(listings[j].Title)
		})
	case SortExperience:
		sort.SliceStable(listings, func(i, j int) bool {
			return peopleExperience(listings[i]) > peopleExperience(listings[j])
		})
	case SortCost:
		sort.SliceStable(listings, func(i, j int) bool {
			return aiCost(listings[i]) < aiCost(listings[j])
		})
	case SortVerified:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].IsVerified && !listings[j].IsVerified
		})
	}
}

func peopleExperience(l *entities.Listing) int {
	if l.People == nil {
		return 0
	}
	return l.People.YearsExperience
}

func aiCost(l *entities.Listing) float64 {
	if l.AI == nil {
		return 0
	}
	return l.AI.CostValue
}

func constrained(value string) bool {
	return value != "" && value != FilterAll
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func addFacet(set map[string]struct{}, value string) {
	if value != "" {
		set[value] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
