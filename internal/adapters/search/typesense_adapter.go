package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
	tsclient "github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

// TypesenseAdapter serves autocomplete suggestions from the listings
// collection and keeps that collection in sync with the catalog.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ providers.SuggestionProvider = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a listing document into the suggestion index.
func (a *TypesenseAdapter) Index(ctx context.Context, listing *entities.Listing) error {
	document := map[string]interface{}{
		"id":          listing.ID,
		"title":       listing.Title,
		"description": listing.Description,
		"category":    string(listing.Category),
		"subcategory": listing.Subcategory,
		"location":    listing.Location,
		"skills":      listingSkills(listing),
		"keywords":    listing.SearchableText(),
		"verified":    listing.IsVerified,
		"created_at":  listing.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index listing: %w", err)
	}

	return nil
}

// Delete removes a listing from the suggestion index.
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.ListingsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete listing from index: %w", err)
	}
	return nil
}

// Suggest returns autocomplete suggestions for a partial query,
// optionally narrowed to a category.
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, categoryHint entities.Category, limit int) ([]*entities.Suggestion, error) {
	if limit <= 0 {
		limit = 8
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("title,subcategory,skills,keywords"),
		PerPage: pointer.Int(limit),
	}
	if categoryHint != "" {
		searchParams.FilterBy = pointer.String(fmt.Sprintf("category:=%s", categoryHint))
	}

	result, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search suggestions: %w", err)
	}

	var suggestions []*entities.Suggestion
	seen := make(map[string]struct{})
	if result.Hits == nil {
		return suggestions, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		title, _ := doc["title"].(string)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		category, _ := doc["category"].(string)
		suggestions = append(suggestions, &entities.Suggestion{
			Text:     title,
			Category: entities.Category(category),
		})
	}

	return suggestions, nil
}

func listingSkills(listing *entities.Listing) []string {
	if listing.People == nil {
		return nil
	}
	if len(listing.People.Skills) > 0 {
		return listing.People.Skills
	}
	return listing.People.Expertise
}
