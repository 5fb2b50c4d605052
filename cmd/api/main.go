package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centaurhub/marketplace-backend/internal/adapters/cache"
	"github.com/centaurhub/marketplace-backend/internal/adapters/database"
	"github.com/centaurhub/marketplace-backend/internal/adapters/events"
	"github.com/centaurhub/marketplace-backend/internal/adapters/search"
	"github.com/centaurhub/marketplace-backend/internal/api/handlers"
	"github.com/centaurhub/marketplace-backend/internal/api/middleware"
	"github.com/centaurhub/marketplace-backend/internal/api/routes"
	"github.com/centaurhub/marketplace-backend/internal/application/services"
	"github.com/centaurhub/marketplace-backend/internal/domain/providers"
	"github.com/centaurhub/marketplace-backend/internal/domain/repositories"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/openai"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/postgres"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/redis"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/clients/typesense"
	"github.com/centaurhub/marketplace-backend/internal/infrastructure/observability"
	"github.com/centaurhub/marketplace-backend/pkg/config"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client. The application degrades gracefully
	// without it: no caching, no cross-instance events.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client, suggestions disabled")
		typesenseClient = nil
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for cross-instance listing updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
	} else {
		log.Warn().Msg("event bus disabled, Redis not available")
	}

	// Listing repository, wrapped with caching when Redis is available
	baseListingAdapter := database.NewListingAdapter(pgClient)
	var listingRepo repositories.ListingRepository
	if cacheProvider != nil {
		cachedRepo := database.NewCachedListingAdapter(baseListingAdapter, cacheProvider, eventBus)
		if err := cachedRepo.WatchEvents(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to subscribe to listing events")
		}
		listingRepo = cachedRepo
	} else {
		listingRepo = baseListingAdapter
	}

	analyticsAdapter := database.NewSearchAnalyticsAdapter(pgClient)
	savedSearchAdapter := database.NewSavedSearchAdapter(pgClient)

	// Suggestion provider (Typesense)
	var suggester providers.SuggestionProvider
	if typesenseClient != nil {
		if err := typesenseClient.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		suggester = search.NewTypesenseAdapter(typesenseClient)
	}

	// AI providers (filter extraction, pairing)
	var extractionProvider providers.FilterExtractionProvider
	var pairingProvider providers.PairingProvider
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set, AI search and pairing disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI, listingRepo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			extractionProvider = openaiClient
			pairingProvider = openaiClient
		}
	}

	// Initialize services
	filterService := services.NewListingFilterService()
	analyticsService := services.NewSearchAnalyticsService(analyticsAdapter)
	savedSearchService := services.NewSavedSearchService(savedSearchAdapter)
	aiSearchService := services.NewAISearchService(extractionProvider)
	pairingService := services.NewPairingService(pairingProvider, cacheProvider)

	// Initialize handlers
	listingHandler := handlers.NewListingHandler(listingRepo, filterService, analyticsService, suggester)
	aiSearchHandler := handlers.NewAISearchHandler(aiSearchService)
	savedSearchHandler := handlers.NewSavedSearchHandler(savedSearchService)
	analyticsHandler := handlers.NewSearchAnalyticsHandler(analyticsService)
	pairingHandler := handlers.NewPairingHandler(pairingService)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	// Set up router
	router := routes.NewRouter(
		listingHandler,
		aiSearchHandler,
		savedSearchHandler,
		analyticsHandler,
		pairingHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
