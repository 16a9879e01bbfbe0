// Package config provides configuration management for the REST API server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort       = 8080
	DefaultLogLevel         = "info"
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultMetricsEnabled   = true
	DefaultSchemaValidation = true
	DefaultStoreBackend     = StoreBackendMongo
	DefaultConnectTimeout   = 10 * time.Second
)

// Store backends.
const (
	StoreBackendMongo  = "mongo"
	StoreBackendMemory = "memory"
)

// Environment variable names.
const (
	EnvConfigFile       = "APP_CONFIG_FILE"
	EnvServerPort       = "APP_SERVER_PORT"
	EnvLogLevel         = "APP_LOG_LEVEL"
	EnvShutdownTimeout  = "APP_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled   = "APP_METRICS_ENABLED"
	EnvSchemaValidation = "APP_SCHEMA_VALIDATION"
	EnvStoreBackend     = "APP_STORE_BACKEND"
	EnvConnectTimeout   = "APP_CONNECT_TIMEOUT"
	EnvMongoURI         = "MONGO_URI"
	EnvMongoDatabase    = "MONGO_DB"
	EnvMongoCollection  = "MONGO_COLLECTION"
)

const (
	appEnvPrefix   = "APP_"
	mongoEnvPrefix = "MONGO_"
)

// Config holds the application configuration.
type Config struct {
	// Server settings.
	ServerPort      int           `koanf:"server_port"`
	LogLevel        string        `koanf:"log_level"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MetricsEnabled  bool          `koanf:"metrics_enabled"`

	// SchemaValidation enforces the typed item schema on request bodies.
	// When false any JSON object is accepted.
	SchemaValidation bool `koanf:"schema_validation"`

	// Store settings.
	StoreBackend    string        `koanf:"store_backend"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	MongoURI        string        `koanf:"mongo_uri"`
	MongoDatabase   string        `koanf:"mongo_db"`
	MongoCollection string        `koanf:"mongo_collection"`
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidConnectTimeout  = errors.New("connect timeout must be positive")
	ErrInvalidStoreBackend    = errors.New("store backend must be one of: mongo, memory")
	ErrMissingMongoURI        = errors.New(EnvMongoURI + " must be set when store backend is mongo")
	ErrMissingMongoDatabase   = errors.New(EnvMongoDatabase + " must be set when store backend is mongo")
	ErrMissingMongoCollection = errors.New(EnvMongoCollection + " must be set when store backend is mongo")
)

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		ServerPort:       DefaultServerPort,
		LogLevel:         DefaultLogLevel,
		ShutdownTimeout:  DefaultShutdownTimeout,
		MetricsEnabled:   DefaultMetricsEnabled,
		SchemaValidation: DefaultSchemaValidation,
		StoreBackend:     DefaultStoreBackend,
		ConnectTimeout:   DefaultConnectTimeout,
	}
}

// Load builds a Config by layering defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// APP_SERVER_PORT -> server_port, MONGO_URI -> mongo_uri.
	// Empty variables are treated as unset.
	appEnv := env.ProviderWithValue(appEnvPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, appEnvPrefix)), value
	})
	if err := k.Load(appEnv, nil); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	mongoEnv := env.ProviderWithValue(mongoEnvPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	})
	if err := k.Load(mongoEnv, nil); err != nil {
		return nil, fmt.Errorf("loading mongo settings from environment: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if c.ConnectTimeout <= 0 {
		return ErrInvalidConnectTimeout
	}

	return c.validateStore()
}

// validateStore checks the backend selection and its required settings.
func (c *Config) validateStore() error {
	switch c.StoreBackend {
	case StoreBackendMemory:
		return nil
	case StoreBackendMongo:
	default:
		return ErrInvalidStoreBackend
	}

	if c.MongoURI == "" {
		return ErrMissingMongoURI
	}
	if c.MongoDatabase == "" {
		return ErrMissingMongoDatabase
	}
	if c.MongoCollection == "" {
		return ErrMissingMongoCollection
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
