package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"marketplace-properties/internal/handlers"
	"marketplace-properties/internal/middleware"
	"marketplace-properties/internal/repositories"
	"marketplace-properties/internal/services"
	"marketplace-properties/internal/transformers"
	"marketplace-properties/internal/utils"
	"marketplace-properties/internal/validators"
	"marketplace-properties/pkg/cache"
	"marketplace-properties/pkg/config"
	"marketplace-properties/pkg/database"
	"marketplace-properties/pkg/logger"
	"marketplace-properties/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// App represents the application structure
type App struct {
	Config          *config.Config
	Router          *gin.Engine
	PropertyHandler *handlers.PropertyHandler
	CacheHandler    *handlers.CacheHandler
	HealthHandler   *handlers.HealthHandler
	RateLimiter     *middleware.RateLimiter
	Server          *http.Server

	mongo      *database.Mongo
	cacheStore cache.Store
	pingers    []database.Pinger

	properties repositories.PropertyRepository
	photos     repositories.PhotoRepository
	appraisals repositories.AppraisalRepository

	stop context.CancelFunc
}

// NewApp connects the datastore and the cache and wires every layer on top.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	// Initialize infrastructure
	if err := app.initializeDatabase(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	if err := app.initializeCache(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	app.initializeMetrics()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app, nil
}

// initialize the repositories for the configured driver
func (a *App) initializeDatabase(ctx context.Context) error {
	switch a.Config.Database.Driver {
	case config.DriverMongo:
		m, err := database.Connect(ctx, a.Config.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.mongo = m
		if err := database.EnsureIndexes(ctx, m.DB); err != nil {
			logger.GlobalLogger.Warnf("Failed to ensure indexes: %v", err)
		}
		a.properties = repositories.NewPropertyRepository(m.DB)
		a.photos = repositories.NewPhotoRepository(m.DB)
		a.appraisals = repositories.NewAppraisalRepository(m.DB)
		a.pingers = append(a.pingers, m)

	case config.DriverSupabase:
		sb, err := database.NewSupabase(a.Config.Supabase)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.properties = repositories.NewSupabasePropertyRepository(sb.Client)
		a.photos = repositories.NewSupabasePhotoRepository(sb.Client)
		a.appraisals = repositories.NewSupabaseAppraisalRepository(sb.Client)
		a.pingers = append(a.pingers, sb)

	case config.DriverMemory:
		store := repositories.NewMemoryStore()
		if path := a.Config.Database.SeedFile; path != "" {
			seed, err := utils.ReadSeedData(path)
			if err != nil {
				return fmt.Errorf("failed to load seed data: %w", err)
			}
			store.Seed(seed.Properties...)
			store.AddPhotos(seed.Photos...)
			store.AddAppraisals(seed.Appraisals...)
			logger.GlobalLogger.Printf("Seeded %d properties from %s", len(seed.Properties), path)
		}
		a.properties = store.Properties()
		a.photos = store.Photos()
		a.appraisals = store.Appraisals()
		a.pingers = append(a.pingers, store)

	default:
		return fmt.Errorf("unknown database driver %q", a.Config.Database.Driver)
	}
	logger.GlobalLogger.Printf("Using %s datastore", a.Config.Database.Driver)
	return nil
}

// initialize the cache store. Redis is wrapped in a circuit breaker; when it is
// disabled the process keeps an in-memory cache. An unreachable Redis does not stop
// startup.
func (a *App) initializeCache(ctx context.Context) error {
	if !a.Config.Redis.Enabled {
		logger.GlobalLogger.Warnf("Redis disabled, using in-process cache")
		a.cacheStore = cache.NewMemoryStore()
		a.pingers = append(a.pingers, a.cacheStore)
		return nil
	}

	client, err := cache.NewRedisClient(a.Config.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	if err := cache.PingRedis(ctx, client); err != nil {
		logger.GlobalLogger.Warnf("Redis unavailable at startup, serving reads from the datastore until it recovers: %v", err)
	}
	a.cacheStore = cache.NewBreakerStore(
		cache.NewRedisStore(client).WithTimeout(a.Config.Cache.OperationTimeout),
		cache.BreakerSettings{
			FailureThreshold: a.Config.Cache.BreakerFailureThreshold,
			OpenTimeout:      a.Config.Cache.BreakerOpenTimeout,
		},
	)
	a.pingers = append(a.pingers, a.cacheStore)
	return nil
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(a.Config.RateLimit.RequestsPerMinute, a.Config.RateLimit.Burst)
	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	go a.RateLimiter.Cleanup(ctx, 3*time.Minute)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	// repositories
	propertyCache := repositories.NewPropertyCache(a.cacheStore, cache.NewTTLPolicy(a.Config.Cache))

	// transformers
	propertyTransformer := transformers.NewPropertyTransformer(transformers.NewLocationTransformer())

	// validators
	propertyValidator := validators.NewPropertyValidator()

	// services
	invalidator := services.NewCacheInvalidator(propertyCache)
	queryService := services.NewPropertyQueryService(a.properties, a.photos, a.appraisals, propertyCache, propertyValidator)
	propertyService := services.NewPropertyService(a.properties, propertyTransformer, propertyValidator, invalidator)

	// handlers
	a.PropertyHandler = handlers.NewPropertyHandler(queryService, propertyService)
	a.CacheHandler = handlers.NewCacheHandler(invalidator)
	a.HealthHandler = handlers.NewHealthHandler(a.pingers...)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	if a.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	if a.stop != nil {
		a.stop()
	}
	if a.cacheStore != nil {
		_ = a.cacheStore.Close()
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.mongo.Close(ctx)
	}
}
