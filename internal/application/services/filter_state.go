package services

import (
	"strings"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// FilterAll is the sentinel for a scalar filter with no constraint.
const FilterAll = "all"

// SortKey selects the ordering of filtered results.
type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortTitle      SortKey = "title"
	SortExperience SortKey = "experience"
	SortCost       SortKey = "cost"
	SortVerified   SortKey = "verified"
)

// ParseSortKey returns the sort key for a wire value, or ok=false.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortRelevance, SortTitle, SortExperience, SortCost, SortVerified:
		return SortKey(s), true
	}
	return "", false
}

// FilterState is the complete set of user-controlled inputs that determine
// the visible listing subset. Query holds the debounce-settled text; the
// raw in-flight text lives on the session, not here. Scalar filters use
// the FilterAll sentinel when unconstrained. Numeric filters are kept as
// strings because they arrive as single-select option values.
type FilterState struct {
	Category      entities.Category `json:"category"`
	Query         string            `json:"query,omitempty"`
	Subcategories []string          `json:"subcategories,omitempty"`
	Location      string            `json:"location,omitempty"`

	// People
	Skill         string `json:"skill,omitempty"`
	MinExperience string `json:"min_experience,omitempty"`

	// AI
	AIType      string `json:"ai_type,omitempty"`
	MaxCost     string `json:"max_cost,omitempty"`
	Integration string `json:"integration,omitempty"`

	// Products
	Certification string `json:"certification,omitempty"`
	Technology    string `json:"technology,omitempty"`

	SortBy SortKey `json:"sort_by"`
}

// DefaultFilterState returns the initial state: People tab, no query, no
// constraints, relevance ordering.
func DefaultFilterState() FilterState {
	st := FilterState{
		Category: entities.CategoryPeople,
		SortBy:   SortRelevance,
	}
	st.resetScoped()
	return st
}

// SwitchCategory changes the active tab and resets every category-scoped
// filter. Comparing items across an implicit re-filter is not allowed, so
// callers must also clear their selection set (the session does this).
// The free-text query and sort order are universal and survive the switch.
func (s *FilterState) SwitchCategory(category entities.Category) {
	s.Category = category
	s.resetScoped()
}

func (s *FilterState) resetScoped() {
	s.Subcategories = nil
	s.Location = FilterAll
	s.Skill = FilterAll
	s.MinExperience = FilterAll
	s.AIType = FilterAll
	s.MaxCost = FilterAll
	s.Integration = FilterAll
	s.Certification = FilterAll
	s.Technology = FilterAll
}

// HasActiveFilters reports whether anything beyond the bare category tab
// constrains the result set. Drives the empty-state message choice.
func (s FilterState) HasActiveFilters() bool {
	if strings.TrimSpace(s.Query) != "" || len(s.Subcategories) > 0 {
		return true
	}
	for _, v := range []string{
		s.Location, s.Skill, s.MinExperience,
		s.AIType, s.MaxCost, s.Integration,
		s.Certification, s.Technology,
	} {
		if v != "" && v != FilterAll {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers can hand state out without
// aliasing the subcategory slice.
func (s FilterState) clone() FilterState {
	out := s
	if s.Subcategories != nil {
		out.Subcategories = append([]string(nil), s.Subcategories...)
	}
	return out
}
