// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/pghub/internal/app/system/auditlog"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	backendREST  = "rest"
	backendMongo = "mongo"
)

// appConfigKeys defines the configuration keys for PGHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: rest_url, session_name, etc.
//   - Environment variables: PGHUB_REST_URL, PGHUB_SESSION_NAME, etc.
//   - Command-line flags: --rest_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "data_backend", Default: backendREST, Desc: "Data backend: 'rest' or 'mongo'"},

	// REST table API
	{Name: "rest_url", Default: "", Desc: "Base URL of the REST table API (e.g. https://project.example.co/rest/v1)"},
	{Name: "rest_api_key", Default: "", Desc: "API key for the REST table API"},
	{Name: "rest_connect_timeout", Default: "5s", Desc: "REST dial timeout"},
	{Name: "rest_timeout", Default: "15s", Desc: "REST whole-request timeout"},

	// MongoDB
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (mongo backend)"},
	{Name: "mongo_database", Default: "pghub", Desc: "MongoDB database name (mongo backend)"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "pghub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_idle_timeout", Default: "30m", Desc: "Sign admins out after this much inactivity (0 disables)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-change-me-0123", Desc: "32-byte CSRF authentication key"},

	// Building directory
	{Name: "directory_ttl", Default: "300s", Desc: "How long a building directory snapshot stays fresh"},
	{Name: "directory_serve_stale", Default: false, Desc: "Serve the previous building snapshot when a refresh fails"},
	{Name: "directory_refresh_interval", Default: "0s", Desc: "Background directory refresh interval (0 disables)"},

	// Dashboard
	{Name: "recent_list_size", Default: 10, Desc: "Rows shown in the recent students and payments tables"},
	{Name: "currency_symbol", Default: "₹", Desc: "Currency symbol for money values"},
	{Name: "locale", Default: "en-IN", Desc: "Locale used to format numbers"},
	{Name: "site_name", Default: "PGHub", Desc: "Name shown in the page header"},

	// Audit logging
	{Name: "audit_log_auth", Default: "all", Desc: "Sign-in event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Building change logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Login throttling
	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts allowed per client IP per window"},
	{Name: "login_rate_window", Default: "1m", Desc: "Login rate limit window"},

	// Data store timeouts
	{Name: "ping_timeout", Default: "2s", Desc: "Timeout for health check pings"},
	{Name: "short_timeout", Default: "5s", Desc: "Timeout for single-row data store calls"},
	{Name: "medium_timeout", Default: "15s", Desc: "Timeout for page loads that read several tables"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// PGHUB_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PGHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DataBackend: strings.ToLower(strings.TrimSpace(appValues.String("data_backend"))),

		RestURL:            strings.TrimSpace(appValues.String("rest_url")),
		RestAPIKey:         appValues.String("rest_api_key"),
		RestConnectTimeout: appValues.Duration("rest_connect_timeout", 5*time.Second),
		RestTimeout:        appValues.Duration("rest_timeout", 15*time.Second),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		SessionKey:         appValues.String("session_key"),
		SessionName:        appValues.String("session_name"),
		SessionDomain:      appValues.String("session_domain"),
		SessionIdleTimeout: appValues.Duration("session_idle_timeout", 30*time.Minute),

		CSRFKey: appValues.String("csrf_key"),

		DirectoryTTL:             appValues.Duration("directory_ttl", 300*time.Second),
		DirectoryServeStale:      appValues.Bool("directory_serve_stale"),
		DirectoryRefreshInterval: appValues.Duration("directory_refresh_interval", 0),

		RecentListSize: appValues.Int("recent_list_size"),
		CurrencySymbol: appValues.String("currency_symbol"),
		Locale:         appValues.String("locale"),
		SiteName:       appValues.String("site_name"),

		AuditLogAuth:  strings.ToLower(appValues.String("audit_log_auth")),
		AuditLogAdmin: strings.ToLower(appValues.String("audit_log_admin")),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),

		PingTimeout:   appValues.Duration("ping_timeout", timeouts.DefaultPing),
		ShortTimeout:  appValues.Duration("short_timeout", timeouts.DefaultShort),
		MediumTimeout: appValues.Duration("medium_timeout", timeouts.DefaultMedium),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.DataBackend {
	case backendREST:
		if appCfg.RestURL == "" || appCfg.RestAPIKey == "" {
			return fmt.Errorf("rest backend requires rest_url and rest_api_key")
		}
		u, err := url.Parse(appCfg.RestURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid rest_url %q", appCfg.RestURL)
		}
	case backendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo backend requires mongo_database")
		}
	default:
		return fmt.Errorf("data_backend must be %q or %q, got %q", backendREST, backendMongo, appCfg.DataBackend)
	}

	if appCfg.DirectoryTTL <= 0 {
		return fmt.Errorf("directory_ttl must be positive")
	}
	if appCfg.DirectoryRefreshInterval < 0 {
		return fmt.Errorf("directory_refresh_interval cannot be negative")
	}
	if len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}
	for key, mode := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch mode {
		case "", auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
		default:
			return fmt.Errorf("%s must be all, db, log or off, got %q", key, mode)
		}
	}
	if appCfg.LoginRateLimit < 1 {
		return fmt.Errorf("login_rate_limit must be at least 1")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key must be set in production")
	}

	return nil
}
