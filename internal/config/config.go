package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Catalog backends.
const (
	BackendRemote   = "remote"
	BackendPostgres = "postgres"
	BackendSnapshot = "snapshot"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Catalog   CatalogConfig
	Render    RenderConfig
	Images    ImageConfig
	Database  DatabaseConfig
	Snapshot  SnapshotConfig
	S3        S3Config
	Telemetry TelemetryConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// CatalogConfig holds settings for the product catalog source.
type CatalogConfig struct {
	Backend  string
	BaseURL  string
	Timeout  int // seconds
	PageSize int
}

// RenderConfig selects how the list page is rendered.
type RenderConfig struct {
	Mode string // "server" or "client"
}

// ImageConfig is the allow-list for remote product images.
type ImageConfig struct {
	Protocol   string
	Host       string
	PathPrefix string
}

// DatabaseConfig holds settings for the PostgreSQL catalog mirror.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// SnapshotConfig holds settings for the static catalog snapshot.
type SnapshotConfig struct {
	Path string
}

// S3Config holds AWS S3 configuration for catalog snapshots.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "catalog/")
}

// TelemetryConfig holds tracing configuration.
type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Catalog: CatalogConfig{
			Backend:  getEnv("CATALOG_BACKEND", BackendRemote),
			BaseURL:  strings.TrimRight(getEnv("CATALOG_BASE_URL", "https://dummyjson.com"), "/"),
			Timeout:  getEnvAsInt("CATALOG_TIMEOUT", 10),
			PageSize: getEnvAsInt("CATALOG_PAGE_SIZE", 10),
		},
		Render: RenderConfig{
			Mode: getEnv("RENDER_MODE", "server"),
		},
		Images: ImageConfig{
			Protocol:   getEnv("IMAGE_PROTOCOL", "https"),
			Host:       getEnv("IMAGE_HOST", "cdn.dummyjson.com"),
			PathPrefix: getEnv("IMAGE_PATH_PREFIX", "/products/"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 2),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Snapshot: SnapshotConfig{
			Path: getEnv("SNAPSHOT_PATH", "data/catalog.json.gz"),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "catalog/"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("catalog page size must be at least 1")
	}

	if c.Catalog.Timeout < 1 {
		return fmt.Errorf("catalog timeout must be at least 1 second")
	}

	if c.Render.Mode != "server" && c.Render.Mode != "client" {
		return fmt.Errorf("invalid render mode: %s (must be server or client)", c.Render.Mode)
	}

	if c.Images.Host == "" {
		return fmt.Errorf("image host is required")
	}

	if !strings.HasPrefix(c.Images.PathPrefix, "/") {
		return fmt.Errorf("image path prefix must start with /: %s", c.Images.PathPrefix)
	}

	switch c.Catalog.Backend {
	case BackendRemote:
		u, err := url.Parse(c.Catalog.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid catalog base URL: %s", c.Catalog.BaseURL)
		}
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case BackendSnapshot:
		if c.Snapshot.Path == "" {
			return fmt.Errorf("snapshot path is required for the snapshot backend")
		}
		if c.S3.Enabled {
			if c.S3.Bucket == "" {
				return fmt.Errorf("S3 bucket is required when S3 is enabled")
			}
			if c.S3.Region == "" {
				return fmt.Errorf("S3 region is required when S3 is enabled")
			}
		}
	default:
		return fmt.Errorf("invalid catalog backend: %s (must be remote, postgres, or snapshot)", c.Catalog.Backend)
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when telemetry is enabled")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RequestTimeout returns the per-request catalog timeout.
func (c *CatalogConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
