package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Pagination PaginationConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=boilerplate"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=3s"`
	StatsTTL time.Duration `env:"STATS_CACHE_TTL, default=30s"`
}

type PaginationConfig struct {
	DefaultLimit int `env:"PAGINATION_DEFAULT_LIMIT, default=20"`
	MaxLimit     int `env:"PAGINATION_MAX_LIMIT,     default=100"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Redis.Timeout <= 0 {
		return fmt.Errorf("REDIS_TIMEOUT must be positive")
	}
	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit <= 0 {
		return fmt.Errorf("pagination limits must be positive")
	}
	if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("PAGINATION_DEFAULT_LIMIT (%d) exceeds PAGINATION_MAX_LIMIT (%d)", c.Pagination.DefaultLimit, c.Pagination.MaxLimit)
	}
	return nil
}
