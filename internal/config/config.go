// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"3000"`

	Storage    string `env:"THREAD_STORAGE" envDefault:"sqlite"`
	SQLitePath string `env:"THREAD_SQLITE_PATH" envDefault:"thread.db"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	// Idempotency replays POST responses keyed by Idempotency-Key through
	// redis at RedisAddr.
	Idempotency bool `env:"IDEMPOTENCY_ENABLED" envDefault:"false"`

	DB DBConfig `envPrefix:"DB_"`

	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	PasswordCost int           `env:"PASSWORD_COST" envDefault:"10"`

	KafkaBroker        string        `env:"KAFKA_BROKER"`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`

	LoginRatePerSec float64 `env:"LOGIN_RATE_PER_SEC" envDefault:"1"`
	LoginBurst      int     `env:"LOGIN_BURST" envDefault:"5"`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	ConnectRetries int `env:"CONNECT_RETRIES" envDefault:"5"`
}

type DBConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown THREAD_STORAGE %q", c.Storage)
	}
	if c.PasswordCost < bcrypt.MinCost || c.PasswordCost > bcrypt.MaxCost {
		return fmt.Errorf("PASSWORD_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
