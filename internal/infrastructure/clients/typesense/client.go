package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/centaurhub/marketplace-backend/pkg/config"
	"github.com/centaurhub/marketplace-backend/pkg/retry"
	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const (
	// ListingsCollection holds every marketplace listing across all
	// categories. Category is a facet field so the suggestion index can
	// be narrowed the same way the filter pipeline narrows.
	ListingsCollection = "listings"
)

// Client represents a Typesense client.
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry.
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Int("attempt", attempt).Err(err).Dur("next_delay", nextDelay).
				Msg("Typesense connection attempt failed, retrying")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client.
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the listings collection exists.
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == ListingsCollection {
			log.Debug().Str("collection", ListingsCollection).Msg("Typesense collection already exists")
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: ListingsCollection,
		Fields: []api.Field{
			{
				Name: "id",
				Type: "string",
			},
			{
				Name: "title",
				Type: "string",
			},
			{
				Name:     "description",
				Type:     "string",
				Optional: pointer.True(),
			},
			{
				Name:  "category",
				Type:  "string",
				Facet: pointer.True(),
			},
			{
				Name:  "subcategory",
				Type:  "string",
				Facet: pointer.True(),
			},
			{
				Name:  "location",
				Type:  "string",
				Facet: pointer.True(),
			},
			{
				Name:     "skills",
				Type:     "string[]",
				Facet:    pointer.True(),
				Optional: pointer.True(),
			},
			{
				Name:     "keywords",
				Type:     "string[]",
				Optional: pointer.True(),
			},
			{
				Name: "verified",
				Type: "bool",
			},
			{
				Name: "created_at",
				Type: "int64",
			},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", ListingsCollection).Msg("created Typesense collection")
	return nil
}
