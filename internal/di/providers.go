package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sandeepkv93/product-inventory-admin/internal/app"
	"github.com/sandeepkv93/product-inventory-admin/internal/config"
	"github.com/sandeepkv93/product-inventory-admin/internal/database"
	"github.com/sandeepkv93/product-inventory-admin/internal/health"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/handler"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/middleware"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/router"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
	"github.com/sandeepkv93/product-inventory-admin/internal/repository"
	"github.com/sandeepkv93/product-inventory-admin/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewProductRepository,
)

var ServiceSet = wire.NewSet(
	service.NewProductService,
	wire.Bind(new(service.ProductService), new(*service.ProductServiceImpl)),
)

var HTTPSet = wire.NewSet(
	handler.NewProductHandler,
	provideAPIRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

// provideRuntimeDB migrates on startup and seeds sample products when asked.
func provideRuntimeDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if cfg.SeedSampleProducts {
		report, err := database.Seed(db)
		if err != nil {
			return nil, err
		}
		logger.Info("sample products seeded", "created", report.CreatedProducts, "skipped", report.SkippedProducts)
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RateLimitRedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

func provideAPIRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.APIRateLimiterFunc {
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":api")
		return middleware.NewDistributedRateLimiter(
			redisLimiter,
			cfg.APIRateLimitPerMin,
			time.Minute,
			middleware.FailureMode(cfg.RateLimitOutagePolicy),
			"api",
		).Middleware()
	}
	return middleware.NewRateLimiter(cfg.APIRateLimitPerMin, time.Minute).Middleware()
}

func provideRouterDependencies(
	productHandler *handler.ProductHandler,
	apiRateLimiter router.APIRateLimiterFunc,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		ProductHandler:  productHandler,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		APIRateLimitRPM: cfg.APIRateLimitPerMin,
		APIRateLimiter:  apiRateLimiter,
		Readiness:       readiness,
		EnableOTelHTTP:  cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	checkers := []health.Checker{health.NewDBChecker(db)}
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		checkers = append(checkers, health.NewRedisChecker(redisClient))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ServerStartGracePeriod, checkers...)
}
