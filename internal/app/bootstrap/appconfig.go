// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (PGHUB_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, log level and request limits; everything here is
// specific to the hostel dashboard.
type AppConfig struct {
	// Data backend: "rest" (hosted REST table API) or "mongo".
	DataBackend string

	// REST table API
	RestURL            string        // e.g. https://project.example.co/rest/v1
	RestAPIKey         string        // sent as apikey and bearer token
	RestConnectTimeout time.Duration // dial/TLS timeout
	RestTimeout        time.Duration // whole-request timeout

	// MongoDB (only used when DataBackend is "mongo")
	MongoURI      string
	MongoDatabase string

	// Session management
	SessionKey         string        // secret for signing session cookies
	SessionName        string        // cookie name (default: pghub-session)
	SessionDomain      string        // cookie domain (blank means current host)
	SessionIdleTimeout time.Duration // idle sessions are dropped after this

	// CSRF
	CSRFKey string // 32-byte key for gorilla/csrf

	// Building directory cache
	DirectoryTTL             time.Duration
	DirectoryServeStale      bool          // serve the previous snapshot when a refresh fails
	DirectoryRefreshInterval time.Duration // 0 disables the background refresh worker

	// Dashboard
	RecentListSize int    // rows in the recent students / payments tables
	CurrencySymbol string // e.g. "₹"
	Locale         string // BCP 47 tag used for number formatting
	SiteName       string // shown in the page header

	// Audit trail modes: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Login throttling
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Timeouts for data store calls
	PingTimeout   time.Duration
	ShortTimeout  time.Duration
	MediumTimeout time.Duration
}
