package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validYAML is a minimal complete configuration for tests.
const validYAML = `
listen:
  http: ":8080"
oauth:
  issuer: "https://login.microsoftonline.com/tenant/v2.0"
  client_id: "client"
  client_secret: "secret"
  redirect_uri: "https://paineis.example.com/"
directory:
  dsn: "postgres://u:p@localhost:5432/acessos"
pages:
  file: "/etc/dashboard-sso/pages.yaml"
log:
  level: "info"
  format: "json"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OAuth.ClientID != "client" {
		t.Errorf("ClientID = %q, want %q", cfg.OAuth.ClientID, "client")
	}

	// Defaults fill in what the file omits
	if cfg.Session.Timeout != 3600 {
		t.Errorf("Session.Timeout = %d, want 3600", cfg.Session.Timeout)
	}
	if cfg.Session.CookieName != "dashboard_sso_session" {
		t.Errorf("Session.CookieName = %q, want dashboard_sso_session", cfg.Session.CookieName)
	}
	if cfg.Directory.Table != "acessos" {
		t.Errorf("Directory.Table = %q, want acessos", cfg.Directory.Table)
	}

	hasUserRead := false
	for _, s := range cfg.OAuth.Scopes {
		if s == "User.Read" {
			hasUserRead = true
		}
	}
	if !hasUserRead {
		t.Errorf("default scopes %v missing User.Read", cfg.OAuth.Scopes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REDIRECT_URI", "https://override.example.com/")
	t.Setenv("DASH_SSO_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OAuth.RedirectURI != "https://override.example.com/" {
		t.Errorf("RedirectURI = %q, want env override", cfg.OAuth.RedirectURI)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing issuer",
			mutate:  func(c *Config) { c.OAuth.Issuer = "" },
			wantErr: "oauth.issuer",
		},
		{
			name:    "non-http issuer",
			mutate:  func(c *Config) { c.OAuth.Issuer = "ldap://x" },
			wantErr: "oauth.issuer",
		},
		{
			name:    "missing client id",
			mutate:  func(c *Config) { c.OAuth.ClientID = "" },
			wantErr: "oauth.client_id",
		},
		{
			name:    "missing client secret",
			mutate:  func(c *Config) { c.OAuth.ClientSecret = "" },
			wantErr: "oauth.client_secret",
		},
		{
			name:    "missing redirect uri",
			mutate:  func(c *Config) { c.OAuth.RedirectURI = "" },
			wantErr: "oauth.redirect_uri",
		},
		{
			name:    "scopes without openid",
			mutate:  func(c *Config) { c.OAuth.Scopes = []string{"User.Read"} },
			wantErr: "openid",
		},
		{
			name:    "missing dsn",
			mutate:  func(c *Config) { c.Directory.DSN = "" },
			wantErr: "directory.dsn",
		},
		{
			name:    "zero query timeout",
			mutate:  func(c *Config) { c.Directory.QueryTimeout = 0 },
			wantErr: "directory.query_timeout",
		},
		{
			name:    "negative session timeout",
			mutate:  func(c *Config) { c.Session.Timeout = -1 },
			wantErr: "session.timeout",
		},
		{
			name:    "missing pages file",
			mutate:  func(c *Config) { c.Pages.File = "" },
			wantErr: "pages.file",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.OAuth.Issuer = "https://issuer.example.com"
			cfg.OAuth.ClientID = "client"
			cfg.OAuth.ClientSecret = "secret"
			cfg.OAuth.RedirectURI = "https://app.example.com/"
			cfg.Directory.DSN = "postgres://u:p@localhost/acessos"

			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OAuth.ClientSecret = "topsecret"
	cfg.Directory.DSN = "postgres://u:p@localhost/acessos"

	redacted := cfg.Redact()

	if redacted.OAuth.ClientSecret != "[REDACTED]" {
		t.Errorf("ClientSecret = %q, want [REDACTED]", redacted.OAuth.ClientSecret)
	}
	if redacted.Directory.DSN != "[REDACTED]" {
		t.Errorf("DSN = %q, want [REDACTED]", redacted.Directory.DSN)
	}

	// Original must stay intact
	if cfg.OAuth.ClientSecret != "topsecret" {
		t.Error("Redact mutated the original config")
	}
}
