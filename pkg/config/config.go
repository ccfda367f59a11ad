package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/larapida/go-webnode/pkg/logging"
	"github.com/larapida/go-webnode/pkg/middleware"
	"github.com/larapida/go-webnode/pkg/webnode"
)

// EnvPrefix prefixes every environment override, e.g. API_JWT_SECRET_KEY.
const EnvPrefix = "API"

// Config represents the api-service configuration
type Config struct {
	// Node is not read from API_* variables; PORT, SECURE, NODE_ENV and
	// BASE_DOMAIN are applied by the webnode normalizer.
	Node      NodeConfig                     `yaml:"node" ignored:"true"`
	Logging   logging.Config                 `yaml:"logging" envconfig:"LOGGING"`
	Storage   StorageConfig                  `yaml:"storage" envconfig:"STORAGE"`
	JWT       JWTConfig                      `yaml:"jwt" envconfig:"JWT"`
	RateLimit middleware.AuthRateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	Metrics   MetricsConfig                  `yaml:"metrics" envconfig:"METRICS"`
}

// NodeConfig mirrors the scalar webnode options.
type NodeConfig struct {
	ID              string `yaml:"id"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Secure          *bool  `yaml:"secure"`
	Environment     string `yaml:"environment"`
	BaseDomain      string `yaml:"base_domain"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

// StorageConfig contains storage configuration
type StorageConfig struct {
	Type    string        `yaml:"type" envconfig:"TYPE"` // memory, mongodb
	MongoDB MongoDBConfig `yaml:"mongodb" envconfig:"MONGODB"`
	// Seed users are created on startup when missing.
	Seed []SeedUser `yaml:"seed" ignored:"true"`
}

// MongoDBConfig contains MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string `yaml:"uri" envconfig:"URI"`
	Database string `yaml:"database" envconfig:"DATABASE"`
	Timeout  int    `yaml:"timeout" envconfig:"TIMEOUT"` // seconds
}

// SeedUser is a user provisioned from configuration.
type SeedUser struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
	IsAdmin      bool   `yaml:"is_admin"`
}

// JWTConfig contains JWT configuration
type JWTConfig struct {
	// Secret also falls back to the bare SECRET_KEY variable.
	Secret      string `yaml:"secret" envconfig:"SECRET_KEY"`
	ExpiryHours int    `yaml:"expiry_hours" envconfig:"EXPIRY_HOURS"`
	Issuer      string `yaml:"issuer" envconfig:"ISSUER"`
}

// MetricsConfig controls the Prometheus middleware and endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" envconfig:"ENABLED"`
	Namespace string `yaml:"namespace" envconfig:"NAMESPACE"`
	Route     string `yaml:"route" envconfig:"ROUTE"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// missing file: defaults and env vars only
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{
		Node: NodeConfig{
			ID:   "api",
			Port: 3100,
		},
		Storage: StorageConfig{
			Type: "memory",
			MongoDB: MongoDBConfig{
				URI:      "mongodb://localhost:27017",
				Database: "webnode",
				Timeout:  10,
			},
		},
		JWT: JWTConfig{
			ExpiryHours: 7 * 24,
			Issuer:      "api-service",
		},
		RateLimit: middleware.AuthRateLimitConfig{Enabled: true},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "api",
			Route:     "/metrics",
		},
	}
	cfg.RateLimit.SetDefaults()
	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Node.ID == "" {
		return fmt.Errorf("node id is required")
	}

	if c.Node.Environment != "" {
		if _, err := webnode.ParseEnvironment(c.Node.Environment); err != nil {
			return err
		}
	}

	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid logging format: %s (must be json or text)", c.Logging.Format)
	}

	if c.Storage.Type != "memory" && c.Storage.Type != "mongodb" {
		return fmt.Errorf("invalid storage type: %s (must be memory or mongodb)", c.Storage.Type)
	}

	if c.Storage.Type == "mongodb" && c.Storage.MongoDB.URI == "" {
		return fmt.Errorf("mongodb uri is required when using mongodb storage")
	}

	if c.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("jwt expiry_hours must be positive")
	}

	if c.Metrics.Enabled && (c.Metrics.Route == "" || c.Metrics.Route[0] != '/') {
		return fmt.Errorf("metrics route must start with '/'")
	}

	return nil
}

// NodeOptions converts the node section into webnode options. Logging, when
// configured, replaces the per-environment defaults for every environment.
func (c *Config) NodeOptions() webnode.Options {
	opts := webnode.Options{
		ID:          c.Node.ID,
		Host:        c.Node.Host,
		Port:        c.Node.Port,
		Secure:      c.Node.Secure,
		Environment: webnode.Environment(c.Node.Environment),
		BaseDomain:  c.Node.BaseDomain,
	}
	if c.Node.ShutdownSeconds > 0 {
		opts.ShutdownTimeout = time.Duration(c.Node.ShutdownSeconds) * time.Second
	}
	if c.Logging.Level != "" || c.Logging.Format != "" {
		lc := c.Logging
		if lc.Level == "" {
			lc.Level = logging.DefaultConfig().Level
		}
		if lc.Format == "" {
			lc.Format = logging.DefaultConfig().Format
		}
		envs := make(map[webnode.Environment]logging.Config, len(webnode.Environments))
		for _, env := range webnode.Environments {
			envs[env] = lc
		}
		opts.Logger = &webnode.LoggerOptions{Environments: envs}
	}
	return opts
}
