package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/repositories"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/centaurhub/marketplace-backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

// ListingAdapter implements ListingRepository on PostgreSQL. Category
// attributes and the free-form extra map are stored as JSONB so new
// attribute shapes do not need migrations.
type ListingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewListingAdapter creates a new listing adapter
func NewListingAdapter(client *postgres.Client) repositories.ListingRepository {
	return &ListingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var listingColumns = []interface{}{
	"id", "category", "subcategory", "title", "description", "location",
	"is_verified", "attributes", "extra", "created_at", "updated_at",
}

// ListAll returns the full listing snapshot in insertion order. The
// filter pipeline applies every narrowing step in memory.
func (a *ListingAdapter) ListAll(ctx context.Context) ([]*entities.Listing, error) {
	query, args, err := a.db.Select(listingColumns...).
		From("listings").
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list listings", err)
	}
	defer rows.Close()

	var listings []*entities.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, rows.Err()
}

// GetByID retrieves a listing by ID
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	query, args, err := a.db.Select(listingColumns...).
		From("listings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	listing, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	if err != nil {
		return nil, err
	}

	return listing, nil
}

// Upsert inserts or replaces a listing.
func (a *ListingAdapter) Upsert(ctx context.Context, listing *entities.Listing) error {
	now := time.Now().UTC()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	attributes, err := marshalAttributes(listing)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal listing attributes", err)
	}
	extra, err := json.Marshal(listing.Extra)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal listing extra", err)
	}

	record := goqu.Record{
		"id":          listing.ID,
		"category":    string(listing.Category),
		"subcategory": listing.Subcategory,
		"title":       listing.Title,
		"description": listing.Description,
		"location":    listing.Location,
		"is_verified": listing.IsVerified,
		"attributes":  attributes,
		"extra":       extra,
		"created_at":  listing.CreatedAt,
		"updated_at":  listing.UpdatedAt,
	}

	query, args, err := a.db.Insert("listings").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert listing", err)
	}

	return nil
}

// Delete removes a listing.
func (a *ListingAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("listings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete listing", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*entities.Listing, error) {
	listing := &entities.Listing{}
	var category string
	var description, location sql.NullString
	var attributes, extra []byte

	err := row.Scan(
		&listing.ID,
		&category,
		&listing.Subcategory,
		&listing.Title,
		&description,
		&location,
		&listing.IsVerified,
		&attributes,
		&extra,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan listing", err)
	}

	listing.Category = entities.Category(category)
	listing.Description = description.String
	listing.Location = location.String

	if err := unmarshalAttributes(listing, attributes); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal listing attributes", err)
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &listing.Extra); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal listing extra", err)
		}
	}

	return listing, nil
}

func marshalAttributes(listing *entities.Listing) ([]byte, error) {
	switch listing.Category {
	case entities.CategoryPeople:
		return json.Marshal(listing.People)
	case entities.CategoryProducts:
		return json.Marshal(listing.Product)
	case entities.CategoryAI:
		return json.Marshal(listing.AI)
	default:
		return []byte("null"), nil
	}
}

func unmarshalAttributes(listing *entities.Listing, data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch listing.Category {
	case entities.CategoryPeople:
		listing.People = &entities.PeopleAttrs{}
		return json.Unmarshal(data, listing.People)
	case entities.CategoryProducts:
		listing.Product = &entities.ProductAttrs{}
		return json.Unmarshal(data, listing.Product)
	case entities.CategoryAI:
		listing.AI = &entities.AIAttrs{}
		return json.Unmarshal(data, listing.AI)
	}
	return nil
}
