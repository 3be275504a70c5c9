package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"

	"github.com/roach88/prefs/store"
	"github.com/roach88/prefs/store/redis"
	"github.com/roach88/prefs/store/sqlite"
)

// Supported backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ValidBackends defines the allowed --backend values.
var ValidBackends = []string{BackendSQLite, BackendRedis}

// Config selects and configures the backend. Fields are populated from the
// environment, then overridden by flags.
type Config struct {
	// Backend is "sqlite" or "redis". ENV: PREFS_BACKEND
	Backend string `env:"PREFS_BACKEND,default=sqlite"`

	// DBPath is the SQLite database file. ENV: PREFS_DB
	DBPath string `env:"PREFS_DB,default=prefs.db"`

	// RedisAddr like "localhost:6379". ENV: PREFS_REDIS_ADDR
	RedisAddr string `env:"PREFS_REDIS_ADDR,default=localhost:6379"`

	// RedisPrefix namespaces Redis keys. ENV: PREFS_REDIS_PREFIX
	RedisPrefix string `env:"PREFS_REDIS_PREFIX,default=prefs:"`
}

// DefaultConfig returns the configuration used when no environment
// variables are set.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendSQLite,
		DBPath:      "prefs.db",
		RedisAddr:   "localhost:6379",
		RedisPrefix: redis.DefaultKeyPrefix,
	}
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return DefaultConfig(), fmt.Errorf("load config from environment: %w", err)
	}
	return cfg, nil
}

// openBackend connects to the configured backend.
func openBackend(ctx context.Context, cfg Config) (store.Backend, error) {
	switch cfg.Backend {
	case BackendSQLite:
		return sqlite.Open(cfg.DBPath)
	case BackendRedis:
		return redis.New(ctx, redis.Config{Addr: cfg.RedisAddr, KeyPrefix: cfg.RedisPrefix})
	default:
		return nil, fmt.Errorf("invalid backend %q: must be one of %v", cfg.Backend, ValidBackends)
	}
}
