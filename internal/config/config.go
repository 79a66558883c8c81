// Package config loads and validates the gateway configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
// It is loaded once at startup and shared read-only across handlers.
type Config struct {
	Listen    ListenConfig    `yaml:"listen"`
	OAuth     OAuthConfig     `yaml:"oauth"`
	Directory DirectoryConfig `yaml:"directory"`
	Session   SessionConfig   `yaml:"session"`
	Pages     PagesConfig     `yaml:"pages"`
	TLS       TLSConfig       `yaml:"tls"`
	Log       LogConfig       `yaml:"log"`
}

// ListenConfig defines where the gateway listens for requests
type ListenConfig struct {
	HTTP string `yaml:"http"` // HTTP server address (e.g., ":8080")
}

// OAuthConfig defines the OAuth2/OIDC settings for the identity provider
type OAuthConfig struct {
	Issuer       string   `yaml:"issuer"`        // tenant authority URL
	ClientID     string   `yaml:"client_id"`     // OAuth2 client ID
	ClientSecret string   `yaml:"client_secret"` // OAuth2 client secret
	RedirectURI  string   `yaml:"redirect_uri"`  // callback URL
	Scopes       []string `yaml:"scopes"`        // requested scopes
}

// DirectoryConfig defines the role directory store settings
type DirectoryConfig struct {
	DSN          string `yaml:"dsn"`           // Postgres connection string
	Table        string `yaml:"table"`         // directory table name
	CacheSeconds int    `yaml:"cache_seconds"` // role lookup cache TTL (0 disables caching)
	QueryTimeout int    `yaml:"query_timeout"` // per-lookup timeout in seconds
}

// SessionConfig defines session lifecycle behavior
type SessionConfig struct {
	Timeout    int    `yaml:"timeout"`     // session lifetime in seconds
	CookieName string `yaml:"cookie_name"` // session cookie name
}

// PagesConfig points at the declarative permission table
type PagesConfig struct {
	File string `yaml:"file"` // path to the pages/permissions YAML
}

// TLSConfig defines TLS settings for the HTTP server
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// LogConfig defines logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Listen: ListenConfig{
			HTTP: ":8080",
		},
		OAuth: OAuthConfig{
			Scopes: []string{"openid", "profile", "email", "User.Read"},
		},
		Directory: DirectoryConfig{
			Table:        "acessos",
			CacheSeconds: 0, // fresh lookup per login unless enabled
			QueryTimeout: 5,
		},
		Session: SessionConfig{
			Timeout:    3600, // 1 hour
			CookieName: "dashboard_sso_session",
		},
		Pages: PagesConfig{
			File: "/etc/dashboard-sso/pages.yaml",
		},
		TLS: TLSConfig{
			Enabled: false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
// REDIRECT_URI is honored without a prefix for parity with the deploy
// environment; everything else uses the DASH_SSO_ prefix.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DASH_SSO_OAUTH_ISSUER"); v != "" {
		c.OAuth.Issuer = v
	}
	if v := os.Getenv("DASH_SSO_OAUTH_CLIENT_ID"); v != "" {
		c.OAuth.ClientID = v
	}
	if v := os.Getenv("DASH_SSO_OAUTH_CLIENT_SECRET"); v != "" {
		c.OAuth.ClientSecret = v
	}
	if v := os.Getenv("DASH_SSO_OAUTH_REDIRECT_URI"); v != "" {
		c.OAuth.RedirectURI = v
	}
	if v := os.Getenv("REDIRECT_URI"); v != "" {
		c.OAuth.RedirectURI = v
	}

	if v := os.Getenv("DASH_SSO_DIRECTORY_DSN"); v != "" {
		c.Directory.DSN = v
	}

	if v := os.Getenv("DASH_SSO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DASH_SSO_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	if v := os.Getenv("DASH_SSO_LISTEN_HTTP"); v != "" {
		c.Listen.HTTP = v
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.OAuth.Issuer == "" {
		return fmt.Errorf("oauth.issuer is required")
	}
	if !strings.HasPrefix(c.OAuth.Issuer, "http://") && !strings.HasPrefix(c.OAuth.Issuer, "https://") {
		return fmt.Errorf("oauth.issuer must be a valid HTTP(S) URL")
	}

	if c.OAuth.ClientID == "" {
		return fmt.Errorf("oauth.client_id is required")
	}
	if c.OAuth.ClientSecret == "" {
		return fmt.Errorf("oauth.client_secret is required")
	}

	if c.OAuth.RedirectURI == "" {
		return fmt.Errorf("oauth.redirect_uri is required")
	}
	if !strings.HasPrefix(c.OAuth.RedirectURI, "http://") && !strings.HasPrefix(c.OAuth.RedirectURI, "https://") {
		return fmt.Errorf("oauth.redirect_uri must be a valid HTTP(S) URL")
	}

	if len(c.OAuth.Scopes) == 0 {
		return fmt.Errorf("oauth.scopes must contain at least 'openid'")
	}
	hasOpenID := false
	for _, scope := range c.OAuth.Scopes {
		if scope == "openid" {
			hasOpenID = true
			break
		}
	}
	if !hasOpenID {
		return fmt.Errorf("oauth.scopes must include 'openid'")
	}

	if c.Directory.DSN == "" {
		return fmt.Errorf("directory.dsn is required")
	}
	if c.Directory.Table == "" {
		return fmt.Errorf("directory.table is required")
	}
	if c.Directory.CacheSeconds < 0 {
		return fmt.Errorf("directory.cache_seconds must not be negative")
	}
	if c.Directory.QueryTimeout <= 0 {
		return fmt.Errorf("directory.query_timeout must be positive")
	}

	if c.Session.Timeout <= 0 {
		return fmt.Errorf("session.timeout must be positive")
	}
	if c.Session.Timeout > 86400 {
		return fmt.Errorf("session.timeout should not exceed 86400 seconds (24 hours)")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}

	if c.Pages.File == "" {
		return fmt.Errorf("pages.file is required")
	}

	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return fmt.Errorf("tls.cert_file and tls.key_file are required when TLS is enabled")
		}

		if _, err := os.Stat(c.TLS.CertFile); err != nil {
			return fmt.Errorf("tls.cert_file not found: %w", err)
		}
		if _, err := os.Stat(c.TLS.KeyFile); err != nil {
			return fmt.Errorf("tls.key_file not found: %w", err)
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format must be one of: json, text")
	}

	if c.Listen.HTTP == "" {
		return fmt.Errorf("listen.http is required")
	}

	return nil
}

// SetupLogging configures the global slog logger based on the LogConfig.
func SetupLogging(cfg *LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// Redact returns a deep-enough copy of the config with secrets redacted for safe logging
func (c *Config) Redact() *Config {
	redacted := *c
	// Deep copy slices to avoid sharing underlying arrays with the original
	if c.OAuth.Scopes != nil {
		redacted.OAuth.Scopes = make([]string, len(c.OAuth.Scopes))
		copy(redacted.OAuth.Scopes, c.OAuth.Scopes)
	}
	if redacted.OAuth.ClientSecret != "" {
		redacted.OAuth.ClientSecret = "[REDACTED]"
	}
	if redacted.Directory.DSN != "" {
		redacted.Directory.DSN = "[REDACTED]"
	}
	return &redacted
}
