package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Aneezakiran07/foodmaps/internal/config"
	"github.com/Aneezakiran07/foodmaps/internal/event"
	handler "github.com/Aneezakiran07/foodmaps/internal/handler/http"
	"github.com/Aneezakiran07/foodmaps/internal/identity"
	"github.com/Aneezakiran07/foodmaps/internal/repository/postgres"
	redisrepo "github.com/Aneezakiran07/foodmaps/internal/repository/redis"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	"github.com/Aneezakiran07/foodmaps/internal/storage"
	"github.com/Aneezakiran07/foodmaps/internal/storage/cloudinary"
	"github.com/Aneezakiran07/foodmaps/internal/storage/memory"
	"github.com/Aneezakiran07/foodmaps/migrations"
	"github.com/Aneezakiran07/foodmaps/pkg/database"
	"github.com/Aneezakiran07/foodmaps/pkg/health"
	pkgkafka "github.com/Aneezakiran07/foodmaps/pkg/kafka"
	"github.com/Aneezakiran07/foodmaps/pkg/middleware"
	"github.com/Aneezakiran07/foodmaps/pkg/tracing"
)

// App wires together all dependencies and runs the foodmaps API.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	traceCfg := tracing.DefaultConfig("foodmaps-api")
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.OTLPEndpoint
	traceCfg.SampleRate = cfg.TraceSampleRate
	traceCfg.Enabled = cfg.TracingEnabled

	tracingShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "foodmaps")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Redis for the rating stats cache.
	redisCfg := database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	redisClient, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", redisCfg.Addr()))

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Image storage. Without a CDN configured uploads are held in memory,
	// which only makes sense for local development.
	var store storage.Storage
	if cfg.CDNBaseURL != "" {
		store = cloudinary.New(cloudinary.Config{
			BaseURL:      cfg.CDNBaseURL,
			UploadPreset: cfg.CDNUploadPreset,
			APIKey:       cfg.CDNAPIKey,
		}, logger)
		logger.Info("using CDN image storage", slog.String("base_url", cfg.CDNBaseURL))
	} else {
		store = memory.New(fmt.Sprintf("http://localhost:%d", cfg.HTTPPort))
		logger.Warn("CDN not configured, using in-memory image storage")
	}

	// Build the dependency graph.
	restaurantRepo := postgres.NewRestaurantRepository(pool)
	ratingRepo := postgres.NewRatingRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	suggestionRepo := postgres.NewSuggestionRepository(pool)
	postRepo := postgres.NewPostRepository(pool)
	mediaRepo := postgres.NewMediaRepository(pool)
	statsCache := redisrepo.NewStatsCache(redisClient, cfg.StatsCacheTTL)

	eventProducer := event.NewProducer(producer, logger)

	restaurantService := service.NewRestaurantService(restaurantRepo, ratingRepo, statsCache, logger)
	ratingService := service.NewRatingService(ratingRepo, restaurantRepo, statsCache, eventProducer, logger)
	reviewService := service.NewReviewService(reviewRepo, restaurantRepo, eventProducer, logger)
	suggestionService := service.NewSuggestionService(suggestionRepo, eventProducer, logger)
	postService := service.NewPostService(postRepo, eventProducer, logger)
	mediaService := service.NewMediaService(mediaRepo, store, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.AllowedOrigins

	router := handler.NewRouter(handler.RouterConfig{
		Restaurants:       restaurantService,
		Ratings:           ratingService,
		Reviews:           reviewService,
		Suggestions:       suggestionService,
		Posts:             postService,
		Media:             mediaService,
		Identity:          identity.NewDeviceProvider(cfg.SecureCookies),
		Health:            healthHandler,
		AdminToken:        cfg.AdminToken,
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
		CORS:              corsCfg,
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Close PostgreSQL pool.
	a.pool.Close()

	// Flush pending trace spans.
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
