package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
)

// minAIQueryLen is the local validation gate: shorter queries are rejected
// before any network call is made.
const minAIQueryLen = 3

// AISearchResult carries the merged filter state and the extraction
// service's human-readable rationale.
type AISearchResult struct {
	State       FilterState `json:"state"`
	Explanation string      `json:"explanation,omitempty"`
}

// AISearchService delegates a natural-language query to the filter
// extraction provider and merges the returned payload into the current
// filter state. It is just another writer of FilterState; downstream the
// filter pipeline has no special AI path.
type AISearchService struct {
	extractor providers.FilterExtractionProvider
}

// NewAISearchService creates a new AI search service.
func NewAISearchService(extractor providers.FilterExtractionProvider) *AISearchService {
	return &AISearchService{extractor: extractor}
}

// Search validates the query, calls the extraction service, and returns
// the merged state. On any failure the current state is returned
// untouched inside the error path: callers must not apply partial
// results.
func (s *AISearchService) Search(ctx context.Context, query string, current FilterState) (*AISearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < minAIQueryLen {
		return nil, apperrors.NewValidationError("search query must be at least 3 characters")
	}
	if s.extractor == nil {
		return nil, apperrors.NewExternalError("ai search is not available", nil)
	}

	extracted, err := s.extractor.ExtractFilters(ctx, trimmed)
	if err != nil {
		return nil, apperrors.NewExternalError("ai search failed", err)
	}
	if extracted == nil {
		return nil, apperrors.NewExternalError("ai search returned no filters", nil)
	}

	merged := MergeExtractedFilters(current, extracted)
	return &AISearchResult{
		State:       merged,
		Explanation: extracted.Explanation,
	}, nil
}

// MergeExtractedFilters applies an extraction payload onto a filter
// state. Each present field independently overwrites its filter; absent
// fields leave the existing value untouched (merge, not replace). Array
// fields apply only their first element because the underlying filters
// are single-select; the rest is discarded by contract.
func MergeExtractedFilters(st FilterState, p *entities.ExtractedFilters) FilterState {
	out := st.clone()

	// Category first: changing tab resets the scoped filters the rest of
	// the payload then pre-fills.
	if p.Category != nil && *p.Category != out.Category {
		out.SwitchCategory(*p.Category)
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if len(p.Skills) > 0 {
		out.Skill = p.Skills[0]
	}
	if p.MinExperience != nil {
		out.MinExperience = strconv.Itoa(*p.MinExperience)
	}
	if p.Type != nil {
		out.AIType = *p.Type
	}
	if p.MaxCost != nil {
		out.MaxCost = strconv.FormatFloat(*p.MaxCost, 'f', -1, 64)
	}
	if len(p.Integrations) > 0 {
		out.Integration = p.Integrations[0]
	}
	if len(p.Certifications) > 0 {
		out.Certification = p.Certifications[0]
	}
	if p.Technology != nil {
		out.Technology = *p.Technology
	}
	return out
}
