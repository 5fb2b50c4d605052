package services

import (
	"context"
	"strings"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/repositories"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
	"github.com/google/uuid"
)

// SavedSearchService persists named filter snapshots.
type SavedSearchService struct {
	repo repositories.SavedSearchRepository
}

func NewSavedSearchService(repo repositories.SavedSearchRepository) *SavedSearchService {
	return &SavedSearchService{repo: repo}
}

// Save stores a named search. The filter snapshot is the URL-encoded
// state so a saved search restores exactly like a shared link.
func (s *SavedSearchService) Save(ctx context.Context, search *entities.SavedSearch, state FilterState) error {
	search.Name = strings.TrimSpace(search.Name)
	if search.Name == "" {
		return apperrors.NewValidationError("saved search name is required")
	}
	if len(search.Name) > 120 {
		return apperrors.NewValidationError("saved search name is too long")
	}

	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now().UTC()
	}
	search.Query = state.Query
	search.FilterSnapshot = EncodeFilterState(state).Encode()

	return s.repo.Create(ctx, search)
}

// List returns the saved searches for a session.
func (s *SavedSearchService) List(ctx context.Context, sessionID string) ([]*entities.SavedSearch, error) {
	return s.repo.List(ctx, sessionID)
}

// Delete removes a saved search.
func (s *SavedSearchService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("saved search id is required")
	}
	return s.repo.Delete(ctx, id)
}
