package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/adapters/database"
	"github.com/centaurhub/marketplace-backend/internal/adapters/search"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/postgres"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/typesense"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/observability"
	"github.com/centaurhub/marketplace-backend/pkg/config"
	"github.com/rs/zerolog/log"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	observability.InitLogger("marketplace-indexer", os.Getenv("ENV"))

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Str("interval", intervalValue).Err(err).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("interval", interval).Msg("reindex complete, waiting for next run")

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	listingRepo := database.NewListingAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Msg("deleting listings collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.ListingsCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	listings, err := listingRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	log.Info().Int("count", len(listings)).Msg("indexing listings")

	indexed := 0
	for _, listing := range listings {
		if listing == nil {
			continue
		}
		if err := adapter.Index(ctx, listing); err != nil {
			log.Warn().Str("listing_id", listing.ID).Err(err).Msg("failed to index listing")
			continue
		}
		indexed++
	}

	log.Info().Int("indexed", indexed).Msg("indexing complete")
	return nil
}
