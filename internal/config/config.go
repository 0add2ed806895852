package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evmarket/libs/config"
)

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"HTTP_PORT"`
}

// DatabaseConfig holds Postgres settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

// RedisConfig holds cache/ledger settings. An empty addr disables redis; the
// service then runs without the station cache and payment ledger.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

// PaymentConfig tunes the payment simulator.
type PaymentConfig struct {
	Delay       time.Duration `yaml:"delay" env:"PAYMENT_DELAY"`
	SuccessRate float64       `yaml:"success_rate" env:"PAYMENT_SUCCESS_RATE"`
	LedgerTTL   time.Duration `yaml:"ledger_ttl" env:"PAYMENT_LEDGER_TTL"`
}

// CacheConfig tunes the station listing cache.
type CacheConfig struct {
	StationTTL time.Duration `yaml:"station_ttl" env:"STATION_CACHE_TTL"`
}

// Config defines marketplace service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Payment  PaymentConfig  `yaml:"payment"`
	Cache    CacheConfig    `yaml:"cache"`
}

// Load configuration from file/env.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "8080"},
		Payment: PaymentConfig{
			Delay:       2 * time.Second,
			SuccessRate: 0.9,
			LedgerTTL:   24 * time.Hour,
		},
		Cache: CacheConfig{StationTTL: 30 * time.Second},
	}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
