package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendHTTP   = "http"
	BackendMemory = "memory"
)

type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	Catalog CatalogConfig `envconfig:"CATALOG"`
	Session SessionConfig `envconfig:"SESSION"`
	OTLP    OTLPConfig    `envconfig:"OTEL"`
	Log     LogConfig     `envconfig:"LOG"`
}

type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"8080"`
}

type CatalogConfig struct {
	Backend          string        `envconfig:"BACKEND" default:"http"`
	APIURL           string        `envconfig:"API_URL" default:"http://localhost:5000"`
	APITimeout       time.Duration `envconfig:"API_TIMEOUT" default:"0s"`
	AlertAllFailures bool          `envconfig:"ALERT_ALL_FAILURES" default:"false"`
	MaxSessions      int           `envconfig:"MAX_SESSIONS" default:"1024"`
}

type SessionConfig struct {
	// Secret signs the session cookie; empty means a random per-process key
	Secret string `envconfig:"SECRET"`
}

type OTLPConfig struct {
	Enabled     bool   `envconfig:"ENABLED" default:"true"`
	Endpoint    string `envconfig:"EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"catalog-ui"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

type LogConfig struct {
	Level string `envconfig:"LEVEL" default:"debug"`
	File  string `envconfig:"FILE"`
}

// LoadConfig loads configuration from an optional .env file and the
// environment, environment variables taking precedence
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendHTTP, BackendMemory:
	default:
		return fmt.Errorf("CATALOG_BACKEND must be %q or %q, got %q", BackendHTTP, BackendMemory, c.Catalog.Backend)
	}
	if c.Catalog.Backend == BackendHTTP && c.Catalog.APIURL == "" {
		return errors.New("CATALOG_API_URL is required for the http backend")
	}
	if c.Catalog.MaxSessions <= 0 {
		return fmt.Errorf("CATALOG_MAX_SESSIONS must be positive, got %d", c.Catalog.MaxSessions)
	}
	if c.Catalog.APITimeout < 0 {
		return fmt.Errorf("CATALOG_API_TIMEOUT must not be negative, got %s", c.Catalog.APITimeout)
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
