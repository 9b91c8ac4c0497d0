package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DevSecret signs tokens in development when JWT_SECRET is unset.
const DevSecret = "dev-secret"

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=production"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// SeedFile optionally replaces the built-in demo board and users.
	SeedFile        string `env:"SEED_FILE"`
	DispatchWorkers int    `env:"DISPATCH_WORKERS, default=8"`
	CORSOrigins     string `env:"CORS_ORIGINS, default=*"`

	Mongo MongoConfig
	Redis RedisConfig
	NATS  NATSConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=taskboard"`
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB, default=0"`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL, default=0s"`
}

type NATSConfig struct {
	// URL is optional; events are dropped when it is empty.
	URL string `env:"NATS_URL"`
}

// Development reports whether the service runs with development settings:
// console logs and panics on board invariant violations.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

// Origins splits CORSOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" && !cfg.Development() {
		return nil, fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DevSecret
	}
	if cfg.DispatchWorkers <= 0 {
		return nil, fmt.Errorf("config: DISPATCH_WORKERS must be positive, got %d", cfg.DispatchWorkers)
	}
	return &cfg, nil
}
