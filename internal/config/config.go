// Package config loads CLI and server settings from defaults, an optional
// maturity.{yaml,json,toml} file, MATURITY_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/maturity/internal/logging"
	"github.com/aretw0/maturity/pkg/persistence/middleware"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable: store.redis.addr -> MATURITY_STORE_REDIS_ADDR.
const EnvPrefix = "MATURITY"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the decoded configuration.
type Config struct {
	Questionnaire string        `mapstructure:"questionnaire"`
	Log           LogConfig     `mapstructure:"log"`
	Server        ServerConfig  `mapstructure:"server"`
	Store         StoreConfig   `mapstructure:"store"`
	Metrics       MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Watch bool `mapstructure:"watch"`
}

type StoreConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	LockTTL time.Duration `mapstructure:"lock_ttl"`
	Dir     string        `mapstructure:"dir"`
	Redis   RedisConfig   `mapstructure:"redis"`

	// EncryptionKey seals stored sessions with AES-256-GCM when set (hex or base64).
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys still open sessions sealed before a key rotation.
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var defaults = map[string]any{
	"questionnaire":        "",
	"log.level":            "info",
	"log.format":           "text",
	"server.port":          8080,
	"server.watch":         true,
	"store.backend":        BackendMemory,
	"store.ttl":            24 * time.Hour,
	"store.lock_ttl":       30 * time.Second,
	"store.dir":            ".maturity/sessions",
	"store.encryption_key": "",
	"store.redis.addr":     "localhost:6379",
	"store.redis.password": "",
	"store.redis.db":       0,
	"store.redis.prefix":   "maturity:session:",
	"metrics.enabled":      true,
}

// New returns a viper instance with defaults and environment binding applied.
// Callers bind cobra flags on top before calling Load.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("maturity")
	v.AddConfigPath(".")
	return v
}

// Load reads file (or maturity.* in the working directory when file is empty)
// and decodes the merged settings. A missing default config file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ConfigError{Field: "log.level", Message: err.Error()}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: fmt.Sprintf("unsupported format %q", c.Log.Format)}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: fmt.Sprintf("%d out of range", c.Server.Port)}
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Dir == "" {
			return &ConfigError{Field: "store.dir", Message: "required for the file backend"}
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return &ConfigError{Field: "store.redis.addr", Message: "required for the redis backend"}
		}
	default:
		return &ConfigError{Field: "store.backend", Message: fmt.Sprintf("unsupported backend %q", c.Store.Backend)}
	}
	if c.Store.TTL < 0 {
		return &ConfigError{Field: "store.ttl", Message: "must not be negative"}
	}
	if c.Store.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.Store.EncryptionKey); err != nil {
			return &ConfigError{Field: "store.encryption_key", Message: err.Error()}
		}
	}
	for _, k := range c.Store.FallbackKeys {
		if _, err := middleware.ParseKey(k); err != nil {
			return &ConfigError{Field: "store.fallback_keys", Message: err.Error()}
		}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
