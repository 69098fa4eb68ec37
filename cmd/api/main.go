package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/adapters/cache"
	"github.com/zatekoja/homeflow/internal/adapters/database"
	"github.com/zatekoja/homeflow/internal/adapters/events"
	"github.com/zatekoja/homeflow/internal/api/handlers"
	"github.com/zatekoja/homeflow/internal/api/middleware"
	"github.com/zatekoja/homeflow/internal/api/routes"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/application/tools"
	"github.com/zatekoja/homeflow/internal/application/widget"
	"github.com/zatekoja/homeflow/internal/domain/providers"
	"github.com/zatekoja/homeflow/internal/infrastructure/clients/redis"
	"github.com/zatekoja/homeflow/internal/infrastructure/observability"
	"github.com/zatekoja/homeflow/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Server.LogLevel)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	clock := schedule.NewBusinessClock(cfg.Homeflow.TimezoneOffsetMinutes)
	checks := make(map[string]handlers.Pinger)

	// Entity store
	repos, closeStore, err := openStore(ctx, cfg, clock, checks)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open store")
	}
	defer closeStore()

	// Redis is optional; without it there is no cache and events stay in process
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		} else {
			defer redisClient.Close()
			checks["redis"] = redisClient
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		repos.Pros = database.NewCachedProAdapter(repos.Pros, cacheProvider)
		log.Info().Msg("Pro repository wrapped with caching layer")
	} else {
		eventBus = events.NewMemoryEventBus()
		log.Info().Msg("Using in-process event bus")
	}

	now := time.Now

	// Initialize services
	bookingService := services.NewBookingService(repos.Bookings, repos.Pros, repos.Services, repos.Quotes, eventBus, now)
	reviewService := services.NewReviewService(repos.Bookings, repos.Reviews, repos.Pros, bookingService, eventBus, now)
	searchService := services.NewSearchService(repos.Services, repos.Pros, clock, now)
	quoteService := services.NewQuoteService(repos.Services, repos.Pros, repos.Quotes, clock, now)

	var invalidation *services.CacheInvalidationService
	var warming *services.CacheWarmingService
	if cacheProvider != nil {
		invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
			invalidation = nil
		}

		warming = services.NewCacheWarmingService(repos.Services, repos.Pros)
		if err := warming.Start(ctx, cfg.Homeflow.CacheWarmSchedule); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache warming service")
			warming = nil
		}
	}

	template := widget.LoadTemplate(cfg.Homeflow.TemplatePath)
	registry := tools.NewRegistry(tools.Dependencies{
		Search:    searchService,
		Quotes:    quoteService,
		Bookings:  bookingService,
		Reviews:   reviewService,
		Services:  repos.Services,
		Pros:      repos.Pros,
		Assembler: widget.NewAssembler(cfg.Homeflow.APIBase, template),
		Clock:     clock,
		Now:       now,
	})

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		if err := cacheMiddleware.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to clear cached responses")
		}
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, metrics)
	}

	router := routes.NewRouter(
		handlers.NewToolHandler(registry, metrics),
		handlers.NewHealthHandler(checks),
		cacheMiddleware,
		rateLimiter,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("api_base", cfg.Homeflow.APIBase).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if warming != nil {
		warming.Stop()
	}
	if invalidation != nil {
		invalidation.Stop()
	}
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing event bus")
	}

	log.Info().Msg("Server stopped")
}
