package services

import (
	"context"
	"testing"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSavedSearchRepo struct {
	mock.Mock
}

func (m *MockSavedSearchRepo) Create(ctx context.Context, search *entities.SavedSearch) error {
	args := m.Called(ctx, search)
	return args.Error(0)
}

func (m *MockSavedSearchRepo) List(ctx context.Context, sessionID string) ([]*entities.SavedSearch, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SavedSearch), args.Error(1)
}

func (m *MockSavedSearchRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestSavedSearch_SaveSnapshotsFilterState(t *testing.T) {
	repo := new(MockSavedSearchRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	st := DefaultFilterState()
	st.Query = "welder"
	st.Location = "London"

	search := &entities.SavedSearch{Name: " London welders ", AlertEnabled: true, AlertFrequency: "daily"}
	svc := NewSavedSearchService(repo)
	require.NoError(t, svc.Save(context.Background(), search, st))

	assert.Equal(t, "London welders", search.Name)
	assert.Equal(t, "welder", search.Query)
	assert.Equal(t, "loc=London&q=welder", search.FilterSnapshot)
	assert.NotEmpty(t, search.ID)
	assert.False(t, search.CreatedAt.IsZero())

	// The snapshot restores through the same codec as a shared link.
	restored := DecodeFilterState(mustParseQuery(t, search.FilterSnapshot))
	assert.Equal(t, "welder", restored.Query)
	assert.Equal(t, "London", restored.Location)
}

func TestSavedSearch_EmptyNameRejected(t *testing.T) {
	repo := new(MockSavedSearchRepo)
	svc := NewSavedSearchService(repo)

	err := svc.Save(context.Background(), &entities.SavedSearch{Name: "   "}, DefaultFilterState())
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	repo.AssertNotCalled(t, "Create")
}
