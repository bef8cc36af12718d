package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/travelgo/travel-booking/pkg/config"
	"github.com/travelgo/travel-booking/pkg/database"
)

const (
	defaultJWTSecret     = "change-this-to-a-secure-secret"
	defaultAdminPassword = "admin123"
)

// Config holds all configuration for the travel booking service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	// HTTP server
	HTTPPort            int           `env:"HTTP_PORT" envDefault:"8080"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"travel"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"travel_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"travel_booking"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis (wishlist count cache). An empty host disables the cache.
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass     string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CountCacheTTL time.Duration `env:"WISHLIST_COUNT_CACHE_TTL" envDefault:"5m"`

	// Kafka. No brokers disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:""`

	// Per-IP rate limit on the authenticated wishlist endpoints. 0 disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Admin account seeded at startup, read from ADMIN_* variables by Load.
	Admin *AdminConfig
}

// AdminConfig describes the bootstrap administrator.
type AdminConfig struct {
	Enabled   bool   `env:"SEED_ENABLED" envDefault:"true"`
	Email     string `env:"EMAIL" envDefault:"admin@travel.local"`
	Password  string `env:"PASSWORD" envDefault:"admin123"`
	FirstName string `env:"FIRST_NAME" envDefault:"Admin"`
	LastName  string `env:"LAST_NAME" envDefault:"User"`
	Phone     string `env:"PHONE" envDefault:""`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load travel config: %w", err)
	}
	cfg.Admin = &AdminConfig{}
	if err := pkgconfig.LoadWithPrefix(cfg.Admin, "ADMIN_"); err != nil {
		return nil, fmt.Errorf("load admin config: %w", err)
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.OTELSampleRate < 0 || cfg.OTELSampleRate > 1.0 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", cfg.OTELSampleRate)
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if cfg.Admin.Enabled && cfg.Admin.Email == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL is required when ADMIN_SEED_ENABLED is true")
	}

	// In non-development environments, require explicitly set, strong secrets.
	if !cfg.IsDevelopment() {
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
		if cfg.Admin.Enabled && cfg.Admin.Password == defaultAdminPassword {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// PostgresConfig returns the pool configuration.
func (c *Config) PostgresConfig() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// RedisConfig returns the Redis client configuration.
func (c *Config) RedisConfig() database.RedisConfig {
	rc := database.DefaultRedisConfig()
	rc.Host = c.RedisHost
	rc.Port = c.RedisPort
	rc.Password = c.RedisPass
	rc.DB = c.RedisDB
	return rc
}

// RedisEnabled reports whether the count cache is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// KafkaEnabled reports whether event publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
