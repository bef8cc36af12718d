package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnvs is a helper that sets multiple env vars for the duration of a test.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

const strongSecret = "this-is-a-very-secure-secret-key-for-production-use-1234"

func TestLoad_Defaults(t *testing.T) {
	setEnvs(t, map[string]string{"ENVIRONMENT": "development"})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 5*time.Minute, cfg.CountCacheTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.KafkaEnabled())

	assert.True(t, cfg.Admin.Enabled)
	assert.Equal(t, "admin@travel.local", cfg.Admin.Email)
	assert.Equal(t, "Admin", cfg.Admin.FirstName)
}

func TestLoad_AdminFromPrefixedVars(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":      "development",
		"ADMIN_EMAIL":      "ops@example.com",
		"ADMIN_PASSWORD":   "another-password",
		"ADMIN_FIRST_NAME": "Ops",
		"EMAIL":            "ignored@example.com",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", cfg.Admin.Email)
	assert.Equal(t, "another-password", cfg.Admin.Password)
	assert.Equal(t, "Ops", cfg.Admin.FirstName)
}

func TestLoad_InvalidPort(t *testing.T) {
	setEnvs(t, map[string]string{"HTTP_PORT": "70000"})

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidSampleRate(t *testing.T) {
	setEnvs(t, map[string]string{"OTEL_SAMPLE_RATE": "1.5"})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE")
}

func TestLoad_MalformedDuration(t *testing.T) {
	setEnvs(t, map[string]string{"WISHLIST_COUNT_CACHE_TTL": "soon"})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load travel config")
}

func TestLoad_Production(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr string
	}{
		{
			name:    "default secret",
			envs:    map[string]string{"JWT_SECRET": "change-this-to-a-secure-secret"},
			wantErr: "JWT_SECRET must be explicitly set",
		},
		{
			name:    "short secret",
			envs:    map[string]string{"JWT_SECRET": "short-but-not-default-secret"},
			wantErr: "JWT_SECRET must be at least 32 characters",
		},
		{
			name:    "default admin password",
			envs:    map[string]string{"JWT_SECRET": strongSecret},
			wantErr: "ADMIN_PASSWORD must be explicitly set",
		},
		{
			name: "seed disabled skips admin password check",
			envs: map[string]string{"JWT_SECRET": strongSecret, "ADMIN_SEED_ENABLED": "false"},
		},
		{
			name: "all explicit",
			envs: map[string]string{"JWT_SECRET": strongSecret, "ADMIN_PASSWORD": "a-real-admin-password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "production")
			setEnvs(t, tt.envs)

			cfg, err := Load()
			if tt.wantErr != "" {
				assert.Nil(t, cfg)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, cfg.IsDevelopment())
		})
	}
}

func TestConfig_Derived(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: 5433, PostgresUser: "u", PostgresPass: "p",
		PostgresDB: "travel", PostgresSSL: "require", DBMaxConns: 8, DBMaxConnLifetimeMins: 10,
		RedisHost: "cache", RedisPort: 6380, RedisDB: 2,
	}

	pg := cfg.PostgresConfig()
	assert.Equal(t, "postgres://u:p@db:5433/travel?sslmode=require", pg.DSN())
	assert.Equal(t, int32(8), pg.MaxConns)
	assert.Equal(t, 10*time.Minute, pg.MaxConnLifetime)

	rc := cfg.RedisConfig()
	assert.Equal(t, "cache:6380", rc.Addr())
	assert.Equal(t, 2, rc.DB)
	assert.NotZero(t, rc.DialTimeout)

	cfg.RedisHost = ""
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_RateLimit(t *testing.T) {
	setEnvs(t, map[string]string{"ENVIRONMENT": "development"})
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)

	t.Setenv("RATE_LIMIT_RPS", "-1")
	cfg, err = Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_RPS")
}
