package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/travelgo/travel-booking/internal/auth"
	"github.com/travelgo/travel-booking/internal/config"
	"github.com/travelgo/travel-booking/internal/event"
	handler "github.com/travelgo/travel-booking/internal/handler/http"
	"github.com/travelgo/travel-booking/internal/repository"
	"github.com/travelgo/travel-booking/internal/repository/postgres"
	"github.com/travelgo/travel-booking/internal/repository/redis"
	"github.com/travelgo/travel-booking/internal/service"
	"github.com/travelgo/travel-booking/migrations"
	"github.com/travelgo/travel-booking/pkg/database"
	"github.com/travelgo/travel-booking/pkg/health"
	pkgkafka "github.com/travelgo/travel-booking/pkg/kafka"
	"github.com/travelgo/travel-booking/pkg/middleware"
	"github.com/travelgo/travel-booking/pkg/tracing"
)

const (
	serviceName    = "travel-booking"
	serviceVersion = "0.1.0"
)

// App wires together all dependencies and runs the travel booking service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// Redis and Kafka are optional: when unconfigured, counts are read straight
// from PostgreSQL and no events are published.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}

	if err := a.init(ctx); err != nil {
		a.closeResources()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	// Initialize PostgreSQL connection pool.
	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := database.RegisterPoolMetrics(registry, pool, serviceName); err != nil {
		return fmt.Errorf("register pool metrics: %w", err)
	}

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	// Optional wishlist count cache.
	var countCache repository.WishlistCountCache
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg.RedisConfig(), logger)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		countCache = redis.NewWishlistCountCache(client, cfg.CountCacheTTL)
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		logger.Info("wishlist count cache enabled",
			slog.String("addr", cfg.RedisConfig().Addr()),
			slog.Duration("ttl", cfg.CountCacheTTL),
		)
	}

	// Optional wishlist event publishing.
	var events service.WishlistEventPublisher
	if cfg.KafkaEnabled() {
		producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		a.producer = producer
		events = event.NewProducer(producer, logger)
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	store := postgres.NewStore(pool)
	sessionService := service.NewSessionService(store, logger)
	wishlistService := service.NewWishlistService(store, sessionService, countCache, events, logger)
	tourService := service.NewTourService(store)
	userService := service.NewUserService(store, logger)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer)

	if cfg.Admin.Enabled {
		created, err := userService.EnsureAdmin(ctx, service.AdminSeed{
			Email:     cfg.Admin.Email,
			Password:  cfg.Admin.Password,
			FirstName: cfg.Admin.FirstName,
			LastName:  cfg.Admin.LastName,
			Phone:     cfg.Admin.Phone,
		})
		if err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		logger.Info("admin account ensured",
			slog.String("email", cfg.Admin.Email),
			slog.Bool("created", created),
		)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(
		wishlistService,
		tourService,
		jwtManager,
		healthHandler,
		registry,
		logger,
		handler.RouterConfig{
			CORS:              corsCfg,
			PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
			RateLimitRPS:      cfg.RateLimitRPS,
			RateLimitBurst:    cfg.RateLimitBurst,
		},
	)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops the HTTP server first so in-flight requests can finish,
// then flushes spans and closes Kafka, Redis and PostgreSQL.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	if a.httpServer != nil {
		httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
		defer httpCancel()
		if err := a.httpServer.Shutdown(httpCtx); err != nil {
			a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeResources releases everything except the HTTP server. It is safe to
// call on a partially initialized App.
func (a *App) closeResources() error {
	var errs []error

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		a.tracerShutdown = nil
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		a.producer = nil
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		a.redis = nil
	}

	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}

	return errors.Join(errs...)
}
