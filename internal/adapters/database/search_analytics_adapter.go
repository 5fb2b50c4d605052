package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/repositories"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	record := goqu.Record{
		"id":           event.ID,
		"query":        event.Query,
		"category":     string(event.Category),
		"result_count": event.ResultCount,
		"latency_ms":   event.LatencyMs,
		"session_id":   sql.NullString{String: event.SessionID, Valid: event.SessionID != ""},
		"created_at":   event.CreatedAt,
	}

	query, args, err := a.db.Insert("search_events").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

// GetRecent returns a session's latest distinct queries, newest first.
func (a *SearchAnalyticsAdapter) GetRecent(ctx context.Context, sessionID string, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 10
	}

	// DISTINCT ON orders by query, so the dedup runs in a subquery and
	// the outer ORDER BY restores recency before the limit applies.
	query := `
		SELECT id, query, category, result_count, latency_ms, session_id, created_at
		FROM (
			SELECT DISTINCT ON (query)
				id, query, category, result_count, latency_ms, session_id, created_at
			FROM search_events
			WHERE session_id = $1 AND query <> ''
			ORDER BY query, created_at DESC
		) latest
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := a.client.DB().QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get recent searches", err)
	}
	defer rows.Close()

	return scanSearchEvents(rows)
}

// GetPopular returns the most frequent queries across all sessions.
func (a *SearchAnalyticsAdapter) GetPopular(ctx context.Context, limit int) ([]*entities.PopularQuery, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT query, COUNT(*) AS search_count
		FROM search_events
		WHERE query <> '' AND created_at > NOW() - INTERVAL '30 days'
		GROUP BY query
		ORDER BY search_count DESC
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get popular searches", err)
	}
	defer rows.Close()

	var popular []*entities.PopularQuery
	for rows.Next() {
		p := &entities.PopularQuery{}
		if err := rows.Scan(&p.Query, &p.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan popular query", err)
		}
		popular = append(popular, p)
	}

	return popular, rows.Err()
}

// GetZeroResultQueries returns recent searches that matched nothing.
func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, query, category, result_count, latency_ms, session_id, created_at
		FROM search_events
		WHERE result_count = 0 AND query <> ''
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	return scanSearchEvents(rows)
}

func scanSearchEvents(rows *sql.Rows) ([]*entities.SearchEvent, error) {
	var events []*entities.SearchEvent
	for rows.Next() {
		e := &entities.SearchEvent{}
		var category string
		var sessionID sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.Query,
			&category,
			&e.ResultCount,
			&e.LatencyMs,
			&sessionID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}

		e.Category = entities.Category(category)
		e.SessionID = sessionID.String
		events = append(events, e)
	}

	return events, rows.Err()
}
