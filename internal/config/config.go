// Package config loads the server configuration from a YAML file.
//
// Values in the file may reference environment variables with ${VAR_NAME};
// the reference is expanded before parsing, so secrets stay out of the
// file itself:
//
//	auth:
//	  jwt_secret: ${BLOG_JWT_SECRET}
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the listen address and shutdown behaviour.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	ShutdownTimeoutRaw string `yaml:"shutdown_timeout"`
}

// StorageConfig picks the snapshot backend.
//
// Backend is one of "file", "sqlite", or "memory". Dir is the file
// backend's directory; Path is the sqlite database file. WatchInterval
// controls how often the watcher polls for out-of-band snapshot edits
// (zero disables the watcher).
type StorageConfig struct {
	Backend       string        `yaml:"backend"`
	Dir           string        `yaml:"dir"`
	Path          string        `yaml:"path"`
	WatchInterval time.Duration `yaml:"-"`

	WatchIntervalRaw string `yaml:"watch_interval"`
}

// AuthConfig selects the authentication mode.
//
// Mode "mock" checks credentials against the seeded store and issues local
// JWTs. Mode "remote" delegates to a hosted identity provider.
type AuthConfig struct {
	Mode      string `yaml:"mode"`
	JWTSecret string `yaml:"jwt_secret"`

	Remote RemoteAuthConfig       `yaml:"remote"`
	OAuth  map[string]OAuthConfig `yaml:"oauth"`
}

// RemoteAuthConfig holds the hosted identity provider endpoint.
type RemoteAuthConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// OAuthConfig holds one OAuth application's credentials.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Load reads and parses the configuration file at path. Environment
// variable references are expanded, duration strings parsed, defaults
// applied, and the result validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or the
// empty string when it is unset.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "data"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/blog.db"
	}
	if c.Auth.Mode == "" {
		c.Auth.Mode = "mock"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend must be file, sqlite, or memory, got %q", c.Storage.Backend)
	}

	switch c.Auth.Mode {
	case "mock":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required in mock mode")
		}
	case "remote":
		if c.Auth.Remote.URL == "" {
			return fmt.Errorf("auth.remote.url is required in remote mode")
		}
		if c.Auth.Remote.APIKey == "" {
			return fmt.Errorf("auth.remote.api_key is required in remote mode")
		}
	default:
		return fmt.Errorf("auth.mode must be mock or remote, got %q", c.Auth.Mode)
	}

	return nil
}

func parseDurations(cfg *Config) error {
	var err error

	if cfg.Server.ShutdownTimeoutRaw != "" {
		cfg.Server.ShutdownTimeout, err = time.ParseDuration(cfg.Server.ShutdownTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing shutdown_timeout %q: %w", cfg.Server.ShutdownTimeoutRaw, err)
		}
	}

	if cfg.Storage.WatchIntervalRaw != "" {
		cfg.Storage.WatchInterval, err = time.ParseDuration(cfg.Storage.WatchIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing watch_interval %q: %w", cfg.Storage.WatchIntervalRaw, err)
		}
	}

	return nil
}
