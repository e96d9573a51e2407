package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the employee store: mongo or postgres.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Identity IdentityConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Tracing  TracingConfig
}

type IdentityConfig struct {
	BaseURL         string        `env:"IDENTITY_SERVICE_URL,       default=http://localhost:8081"`
	Timeout         time.Duration `env:"IDENTITY_TIMEOUT,           default=3s"`
	CacheDriver     string        `env:"IDENTITY_CACHE_DRIVER,      default=memory"`
	CacheTTL        time.Duration `env:"IDENTITY_CACHE_TTL,         default=30s"`
	CacheMaxEntries int           `env:"IDENTITY_CACHE_MAX_ENTRIES, default=10000"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=employee_costs"`
}

type PostgresConfig struct {
	DSN      string `env:"POSTGRES_DSN,       default=postgres://localhost:5432/employee_costs?sslmode=disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS, default=8"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type TracingConfig struct {
	// Endpoint is the OTLP/HTTP collector; empty disables export.
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadPostgres reads only the PostgreSQL settings, for commands that do not
// serve traffic.
func LoadPostgres(ctx context.Context, l envconfig.Lookuper) (PostgresConfig, error) {
	var cfg PostgresConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return PostgresConfig{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.StoreDriver {
	case "mongo", "postgres":
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q: want mongo or postgres", c.StoreDriver))
	}
	switch c.Identity.CacheDriver {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("IDENTITY_CACHE_DRIVER %q: want memory or redis", c.Identity.CacheDriver))
	}
	if u, err := url.Parse(c.Identity.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("IDENTITY_SERVICE_URL %q is not an absolute URL", c.Identity.BaseURL))
	}
	if c.Identity.Timeout <= 0 {
		errs = append(errs, errors.New("IDENTITY_TIMEOUT must be positive"))
	}
	if c.Identity.CacheTTL < 0 {
		errs = append(errs, errors.New("IDENTITY_CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}
