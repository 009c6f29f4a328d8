package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Local-store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	UI      UIConfig
	Store   StoreConfig
	Toasts  ToastConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type SessionConfig struct {
	LoginLatency  time.Duration `env:"LOGIN_LATENCY,    default=800ms"`
	ContextTTL    time.Duration `env:"CONTEXT_TTL,      default=720h"`
	IdleTTL       time.Duration `env:"SESSION_IDLE_TTL, default=30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL,   default=1m"`
}

type UIConfig struct {
	ShowTestAccounts  bool `env:"SHOW_TEST_ACCOUNTS,  default=true"`
	EnforceRouteRoles bool `env:"ENFORCE_ROUTE_ROLES, default=false"`
}

type StoreConfig struct {
	Backend string `env:"STORE_BACKEND, default=memory"`
}

type ToastConfig struct {
	Workers int `env:"TOAST_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=djabaro_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, redis, mongo (got %q)", c.Store.Backend)
	}
	if c.Session.LoginLatency < 0 {
		return fmt.Errorf("LOGIN_LATENCY must not be negative")
	}
	if c.Session.ContextTTL <= 0 || c.Session.IdleTTL <= 0 || c.Session.SweepInterval <= 0 {
		return fmt.Errorf("CONTEXT_TTL, SESSION_IDLE_TTL and SWEEP_INTERVAL must be positive")
	}
	if c.Toasts.Workers < 0 {
		return fmt.Errorf("TOAST_WORKERS must not be negative")
	}
	return nil
}

// Development reports whether the service runs in the development env.
func (c *Config) Development() bool {
	return c.Env == "development"
}
