package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "catalog", cfg.Mongo.Database)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"PORT":               "8080",
		"ENV":                "production",
		"CORS_ALLOW_ORIGINS": "https://a.example,https://b.example",
		"REDIS_ADDR":         "localhost:6379",
		"IDEMPOTENCY_TTL":    "1h",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Hour, cfg.Redis.IdempotencyTTL)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad port":       {"JWT_SECRET": "s", "PORT": "http"},
		"bcrypt too low": {"JWT_SECRET": "s", "BCRYPT_COST": "2"},
		"bad prefix":     {"JWT_SECRET": "s", "API_PREFIX": "api"},
		"bad log level":  {"JWT_SECRET": "s", "LOG_LEVEL": "loud"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadMongo_NoSecretNeeded(t *testing.T) {
	cfg, err := loadMongo(context.Background(), envconfig.MapLookuper(map[string]string{
		"MONGO_DB": "catalog_test",
	}))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.URI)
	assert.Equal(t, "catalog_test", cfg.Database)
}
