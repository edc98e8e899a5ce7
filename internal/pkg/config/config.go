package config

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Store   StoreConfig
	Session SessionConfig
	Events  EventsConfig

	Mongo MongoConfig
	Redis RedisConfig
	Kafka KafkaConfig
}

type StoreConfig struct {
	// Backend is "memory" or "mongo".
	Backend string `env:"STORE_BACKEND, default=memory"`
	// Mode is "single", "multi" or empty to infer it from Generic.
	Mode string `env:"STORE_MODE"`
	// Generic configures the catch-all user repository.
	Generic bool `env:"GENERIC_STORE, default=false"`
}

type SessionConfig struct {
	// Backend is "memory" or "redis".
	Backend string `env:"SESSION_BACKEND, default=memory"`
	Scope   string `env:"SESSION_SCOPE,   default=default"`
}

type EventsConfig struct {
	// Sink is "none", "mongo" or "kafka".
	Sink    string `env:"EVENTS_SINK,   default=none"`
	Workers int    `env:"EVENT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	Topic   string   `env:"KAFKA_TOPIC,   default=account-events"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// UsesMongo reports whether any component needs a MongoDB connection.
func (c *Config) UsesMongo() bool {
	return c.Store.Backend == "mongo" || c.Events.Sink == "mongo"
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Session.Backend == "redis"
}

func (c *Config) validate() error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"STORE_BACKEND", c.Store.Backend, []string{"memory", "mongo"}},
		{"STORE_MODE", c.Store.Mode, []string{"", "single", "multi"}},
		{"SESSION_BACKEND", c.Session.Backend, []string{"memory", "redis"}},
		{"EVENTS_SINK", c.Events.Sink, []string{"none", "mongo", "kafka"}},
	}
	for _, chk := range checks {
		if !lo.Contains(chk.allowed, chk.value) {
			return fmt.Errorf("%s: unsupported value %q", chk.name, chk.value)
		}
	}
	if c.Events.Workers < 1 {
		return fmt.Errorf("EVENT_WORKERS must be positive, got %d", c.Events.Workers)
	}
	return nil
}
