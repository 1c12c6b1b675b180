package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"   validate:"required,numeric"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"   validate:"oneof=trace debug info warn warning error"`

	JWTSecret  string `env:"JWT_SECRET"             validate:"required"`
	BcryptCost int    `env:"BCRYPT_COST, default=10" validate:"min=4,max=31"`

	APIPrefix       string        `env:"API_PREFIX,         default=/api" validate:"startswith=/"`
	CORSOrigins     []string      `env:"CORS_ALLOW_ORIGINS, default=*"    validate:"min=1"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,   default=30s"  validate:"gt=0"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017" validate:"required"`
	Database string `env:"MONGO_DB,  default=catalog"                   validate:"required"`
}

// RedisConfig is optional: an empty Addr disables idempotent create replay.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h" validate:"gt=0"`
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig and
// validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadMongo reads only the MongoDB settings, for tools that never sign tokens.
func LoadMongo(ctx context.Context) (MongoConfig, error) {
	return loadMongo(ctx, envconfig.OsLookuper())
}

func loadMongo(ctx context.Context, l envconfig.Lookuper) (MongoConfig, error) {
	var cfg MongoConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
