// Package config loads service settings from defaults and ORDERDESK_
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"orderdesk/pkg/logger"
)

// EnvPrefix is stripped from environment variable names before lookup.
const EnvPrefix = "ORDERDESK_"

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds the service settings.
type Config struct {
	Addr             string        `koanf:"addr"`
	Store            string        `koanf:"store"`
	DatabaseURL      string        `koanf:"database_url"`
	RedisAddr        string        `koanf:"redis_addr"`
	RedisKey         string        `koanf:"redis_key"`
	Menu             string        `koanf:"menu"`
	OtelHost         string        `koanf:"otel_host"`
	TraceProbability float64       `koanf:"trace_probability"`
	TLSCert          string        `koanf:"tls_cert"`
	TLSKey           string        `koanf:"tls_key"`
	LogLevel         string        `koanf:"log_level"`
	SessionTTL       time.Duration `koanf:"session_ttl"`
	Auth             bool          `koanf:"auth"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"addr":              ":8443",
		"store":             StoreMemory,
		"redis_addr":        "localhost:6379",
		"redis_key":         "orders",
		"menu":              "Pizza,Burger,Pasta,Salad",
		"trace_probability": 1.0,
		"log_level":         "info",
		"session_ttl":       "1h",
		"auth":              false,
	}
}

// Load reads defaults and then overrides them from the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// ORDERDESK_DATABASE_URL -> database_url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the chosen store has what it needs.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store %q requires database_url", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.TraceProbability < 0 || c.TraceProbability > 1 {
		return fmt.Errorf("trace_probability must be within [0,1], got %v", c.TraceProbability)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// MenuItems splits the comma separated menu setting.
func (c *Config) MenuItems() []string {
	parts := strings.Split(c.Menu, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TLSEnabled reports whether both a certificate and key were configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}
