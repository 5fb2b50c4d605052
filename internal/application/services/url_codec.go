package services

import (
	"net/url"
	"strings"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// URL query parameter names for the shareable filter state.
const (
	paramQuery         = "q"
	paramCategory      = "cat"
	paramSubcategories = "sub"
	paramLocation      = "loc"
	paramSort          = "sort"
)

// EncodeFilterState serializes the universal filter fields into query
// parameters, omitting any parameter at its default so shared URLs stay
// minimal. Per-category scalar filters (skill, experience, AI and product
// filters) are deliberately not persisted; that is the scope of the
// shareable-link feature, not an oversight.
func EncodeFilterState(st FilterState) url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(st.Query); q != "" {
		v.Set(paramQuery, q)
	}
	if st.Category != entities.CategoryPeople {
		v.Set(paramCategory, string(st.Category))
	}
	if len(st.Subcategories) > 0 {
		v.Set(paramSubcategories, strings.Join(st.Subcategories, ","))
	}
	if constrained(st.Location) {
		v.Set(paramLocation, st.Location)
	}
	if st.SortBy != "" && st.SortBy != SortRelevance {
		v.Set(paramSort, string(st.SortBy))
	}
	return v
}

// DecodeFilterState parses query parameters back into a FilterState,
// falling back to defaults for absent or invalid values. Round trip
// invariant: DecodeFilterState(EncodeFilterState(s)) is equivalent to s
// for the persisted fields.
func DecodeFilterState(v url.Values) FilterState {
	st := DefaultFilterState()

	if cat, ok := entities.ParseCategory(v.Get(paramCategory)); ok {
		st.Category = cat
	}
	st.Query = strings.TrimSpace(v.Get(paramQuery))
	if sub := v.Get(paramSubcategories); sub != "" {
		for _, part := range strings.Split(sub, ",") {
			if part = strings.TrimSpace(part); part != "" {
				st.Subcategories = append(st.Subcategories, part)
			}
		}
	}
	if loc := v.Get(paramLocation); loc != "" {
		st.Location = loc
	}
	if sortKey, ok := ParseSortKey(v.Get(paramSort)); ok {
		st.SortBy = sortKey
	}
	return st
}
