// Package config provides configuration management for ArtFlow.
// It supports loading configuration from environment variables, config files, and defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration sections for ArtFlow.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Auth     AuthConfig     `mapstructure:"auth"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Environment  string `mapstructure:"environment"` // development, production
	ReadTimeout  int    `mapstructure:"readTimeout"`  // in seconds
	WriteTimeout int    `mapstructure:"writeTimeout"` // in seconds
}

// DatabaseConfig holds database connection configuration.
// Driver selects the backend: "sqlite3" (default) or "pgx" for PostgreSQL.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"` // SQLite file path
	URL      string `mapstructure:"url"`  // full PostgreSQL DSN, overrides the fields below
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbName"`
	SSLMode  string `mapstructure:"sslMode"`
	MaxConns int    `mapstructure:"maxConns"`
	MinConns int    `mapstructure:"minConns"`
}

// NATSConfig holds NATS messaging configuration.
// An empty URL selects the in-memory event bus.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	ClientID      string `mapstructure:"clientId"`
	MaxReconnects int    `mapstructure:"maxReconnects"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwtSecret"`
	TokenDuration int    `mapstructure:"tokenDuration"` // in seconds
}

// CORSConfig holds cross-origin configuration.
// Origin is the primary allowed origin; FrontendURL is accepted as a second
// origin so a deployed frontend and a local dev frontend can both connect.
type CORSConfig struct {
	Origin      string `mapstructure:"origin"`
	FrontendURL string `mapstructure:"frontendUrl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"outputPath"`
}

// ReadTimeoutDuration returns the read timeout as a time.Duration.
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the write timeout as a time.Duration.
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	env := strings.ToLower(s.Environment)
	return env == "production" || env == "prod"
}

// TokenDurationTime returns the token duration as a time.Duration.
func (a *AuthConfig) TokenDurationTime() time.Duration {
	return time.Duration(a.TokenDuration) * time.Second
}

// AllowedOrigins returns the distinct configured origins.
func (c *CORSConfig) AllowedOrigins() []string {
	origins := []string{}
	for _, o := range []string{c.Origin, c.FrontendURL} {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		seen := false
		for _, existing := range origins {
			if existing == o {
				seen = true
				break
			}
		}
		if !seen {
			origins = append(origins, o)
		}
	}
	return origins
}

// detectDefaultLogFormat returns the appropriate log format based on environment.
// Returns "json" if running in Kubernetes or other production environments.
// Returns "text" for terminal/development use (human-readable console format).
func detectDefaultLogFormat() string {
	// Check if running in Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "json"
	}

	// Check for explicit production environment
	if env := os.Getenv("NODE_ENV"); env == "production" || env == "prod" {
		return "json"
	}

	// Default to text format for terminal use (more readable than JSON)
	return "text"
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)

	// Database defaults - SQLite file in the working directory
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", "artflow.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "artflow")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbName", "artflow")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxConns", 25)
	v.SetDefault("database.minConns", 5)

	// NATS defaults - empty URL means use in-memory event bus
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.clientId", "artflow-backend")
	v.SetDefault("nats.maxReconnects", 10)

	// Auth defaults - no secret by default; auth routes refuse to
	// issue or verify tokens until one is configured
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenDuration", 604800) // 7 days

	// CORS defaults
	v.SetDefault("cors.origin", "http://localhost:5173")
	v.SetDefault("cors.frontendUrl", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", detectDefaultLogFormat())
	v.SetDefault("logging.outputPath", "stdout")
}

// Load reads configuration from environment variables, config file, and defaults.
// Environment variables use the prefix ARTFLOW_ with snake_case naming.
// Config file should be named config.yaml and placed in the current directory or /etc/artflow/.
func Load() (*Config, error) {
	return LoadWithPath("")
}

// LoadWithPath reads configuration from the specified path or default locations.
func LoadWithPath(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variables
	v.SetEnvPrefix("ARTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit bindings for the bare env names the deployment docs use,
	// plus snake_case aliases for camelCase config keys that
	// AutomaticEnv cannot derive on its own.
	_ = v.BindEnv("server.port", "PORT", "ARTFLOW_SERVER_PORT")
	_ = v.BindEnv("server.environment", "NODE_ENV", "ARTFLOW_ENV")
	_ = v.BindEnv("auth.jwtSecret", "JWT_SECRET", "ARTFLOW_AUTH_JWT_SECRET")
	_ = v.BindEnv("auth.tokenDuration", "ARTFLOW_AUTH_TOKEN_DURATION")
	_ = v.BindEnv("cors.origin", "CORS_ORIGIN", "ARTFLOW_CORS_ORIGIN")
	_ = v.BindEnv("cors.frontendUrl", "FRONTEND_URL", "ARTFLOW_CORS_FRONTEND_URL")
	_ = v.BindEnv("database.url", "DATABASE_URL", "ARTFLOW_DATABASE_URL")
	_ = v.BindEnv("database.driver", "ARTFLOW_DB_DRIVER", "ARTFLOW_DATABASE_DRIVER")
	_ = v.BindEnv("database.path", "ARTFLOW_DB_PATH", "ARTFLOW_DATABASE_PATH")

	// Configure config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/artflow/")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// A DATABASE_URL implies PostgreSQL unless the driver was set explicitly
	if cfg.Database.URL != "" && !v.IsSet("database.driver") {
		cfg.Database.Driver = "pgx"
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate checks that all required configuration fields are set.
// In development mode (default), most fields are optional.
func validate(cfg *Config) error {
	var errs []string

	// Server validation - always required
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	switch cfg.Database.Driver {
	case "sqlite3":
		if cfg.Database.Path == "" {
			errs = append(errs, "database.path is required for the sqlite3 driver")
		}
	case "pgx":
		if cfg.Database.URL == "" && cfg.Database.Host == "" {
			errs = append(errs, "database.url or database.host is required for the pgx driver")
		}
		if cfg.Database.URL == "" {
			if cfg.Database.User == "" {
				errs = append(errs, "database.user is required when database.host is set")
			}
			if cfg.Database.DBName == "" {
				errs = append(errs, "database.dbName is required when database.host is set")
			}
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be sqlite3 or pgx, got %q", cfg.Database.Driver))
	}

	// NATS validation - optional (uses in-memory event bus if not set)
	// No validation needed - empty URL means use in-memory

	// Auth validation - an empty secret is allowed; protected routes
	// answer 500 until one is configured
	if cfg.Auth.TokenDuration <= 0 {
		errs = append(errs, "auth.tokenDuration must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, "logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, "logging.format must be one of: json, text")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
