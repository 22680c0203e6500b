package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validRESTConfig() AppConfig {
	return AppConfig{
		DataBackend:     backendREST,
		RestURL:         "https://project.example.co/rest/v1",
		RestAPIKey:      "anon-key",
		SessionKey:      "a-very-long-production-session-key-0123456789",
		CSRFKey:         "0123456789abcdef0123456789abcdef",
		DirectoryTTL:    300 * time.Second,
		LoginRateLimit:  10,
		LoginRateWindow: time.Minute,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid rest", "dev", func(*AppConfig) {}, ""},
		{"valid mongo", "dev", func(c *AppConfig) {
			c.DataBackend = backendMongo
			c.MongoURI = "mongodb://localhost:27017"
			c.MongoDatabase = "pghub"
		}, ""},
		{"unknown backend", "dev", func(c *AppConfig) { c.DataBackend = "sqlite" }, "data_backend"},
		{"rest without url", "dev", func(c *AppConfig) { c.RestURL = "" }, "rest_url"},
		{"rest without key", "dev", func(c *AppConfig) { c.RestAPIKey = "" }, "rest_api_key"},
		{"rest url without scheme", "dev", func(c *AppConfig) { c.RestURL = "project.example.co" }, "invalid rest_url"},
		{"mongo without database", "dev", func(c *AppConfig) {
			c.DataBackend = backendMongo
			c.MongoURI = "mongodb://localhost:27017"
		}, "mongo_database"},
		{"zero ttl", "dev", func(c *AppConfig) { c.DirectoryTTL = 0 }, "directory_ttl"},
		{"negative refresh", "dev", func(c *AppConfig) { c.DirectoryRefreshInterval = -time.Second }, "directory_refresh_interval"},
		{"short csrf key", "dev", func(c *AppConfig) { c.CSRFKey = "short" }, "csrf_key"},
		{"bad audit mode", "dev", func(c *AppConfig) { c.AuditLogAdmin = "sometimes" }, "audit_log_admin"},
		{"zero login limit", "dev", func(c *AppConfig) { c.LoginRateLimit = 0 }, "login_rate_limit"},
		{"dev session key in prod", "prod", func(c *AppConfig) { c.SessionKey = "dev-only-change-me-please-0123456789ABCDEF" }, "session_key"},
		{"dev session key in dev", "dev", func(c *AppConfig) { c.SessionKey = "dev-only-change-me-please-0123456789ABCDEF" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRESTConfig()
			tt.mutate(&cfg)

			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, zap.NewNop())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAppConfigKeys_Unique(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range appConfigKeys {
		if seen[k.Name] {
			t.Errorf("duplicate config key %q", k.Name)
		}
		seen[k.Name] = true
	}
	for _, want := range []string{"data_backend", "rest_url", "rest_api_key", "directory_ttl", "directory_serve_stale", "session_idle_timeout", "csrf_key"} {
		if !seen[want] {
			t.Errorf("missing config key %q", want)
		}
	}
}
