package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/repositories"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
)

// SavedSearchAdapter implements SavedSearchRepository
type SavedSearchAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSavedSearchAdapter creates a new saved search adapter
func NewSavedSearchAdapter(client *postgres.Client) repositories.SavedSearchRepository {
	return &SavedSearchAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a saved search.
func (a *SavedSearchAdapter) Create(ctx context.Context, search *entities.SavedSearch) error {
	record := goqu.Record{
		"id":              search.ID,
		"session_id":      search.SessionID,
		"name":            search.Name,
		"query":           search.Query,
		"filter_snapshot": search.FilterSnapshot,
		"alert_enabled":   search.AlertEnabled,
		"alert_frequency": sql.NullString{String: search.AlertFrequency, Valid: search.AlertFrequency != ""},
		"created_at":      search.CreatedAt,
	}

	query, args, err := a.db.Insert("saved_searches").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create saved search", err)
	}

	return nil
}

// List returns a session's saved searches, newest first.
func (a *SavedSearchAdapter) List(ctx context.Context, sessionID string) ([]*entities.SavedSearch, error) {
	query, args, err := a.db.Select(
		"id", "session_id", "name", "query", "filter_snapshot",
		"alert_enabled", "alert_frequency", "created_at",
	).From("saved_searches").
		Where(goqu.Ex{"session_id": sessionID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list saved searches", err)
	}
	defer rows.Close()

	var searches []*entities.SavedSearch
	for rows.Next() {
		search := &entities.SavedSearch{}
		var frequency sql.NullString

		err := rows.Scan(
			&search.ID,
			&search.SessionID,
			&search.Name,
			&search.Query,
			&search.FilterSnapshot,
			&search.AlertEnabled,
			&frequency,
			&search.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan saved search", err)
		}

		search.AlertFrequency = frequency.String
		searches = append(searches, search)
	}

	return searches, rows.Err()
}

// Delete removes a saved search.
func (a *SavedSearchAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("saved_searches").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete saved search", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("saved search with id %s not found", id))
	}

	return nil
}
