// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/pghub/internal/app/features/auditlog"
	buildingsfeature "github.com/dalemusser/pghub/internal/app/features/buildings"
	dashboardfeature "github.com/dalemusser/pghub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/pghub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/pghub/internal/app/features/health"
	homefeature "github.com/dalemusser/pghub/internal/app/features/home"
	loginfeature "github.com/dalemusser/pghub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/pghub/internal/app/features/logout"
	adminstore "github.com/dalemusser/pghub/internal/app/store/admins"
	"github.com/dalemusser/pghub/internal/app/store/audit"
	"github.com/dalemusser/pghub/internal/app/system/auditlog"
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/app/system/display"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It boots the template engine, installs
// the session and CSRF middleware, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionIdleTimeout, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Re-read the admin on each request so deactivation and role changes
	// take effect immediately.
	sessionMgr.SetUserFetcher(adminstore.NewFetcher(deps.Store))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler(logger)
	auditLog := auditlog.New(audit.New(deps.Store), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	format := display.New(appCfg.Locale, appCfg.CurrencySymbol)

	r := chi.NewRouter()

	// Set before any Mount so mounted sub-routers inherit it.
	r.NotFound(errorsHandler.NotFound)

	// Health check endpoint for load balancers; no session or CSRF needed.
	healthHandler := healthfeature.NewHandler(deps.Store, deps.Directory, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			r.Use(markPlaintext)
		}
		r.Use(csrf.Protect([]byte(appCfg.CSRFKey),
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(errorsHandler.InvalidCSRF)),
		))

		// Loads SessionUser into context if signed in, available via auth.CurrentUser(r).
		r.Use(sessionMgr.LoadSessionUser)

		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		loginHandler := loginfeature.NewHandler(deps.Store, sessionMgr, deps.LoginLimiter, errLog, auditLog, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler, sessionMgr))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Error pages
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		dashboardHandler := dashboardfeature.NewHandler(deps.Store, deps.Directory, format, appCfg.RecentListSize, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		buildingsHandler := buildingsfeature.NewHandler(deps.Store, deps.Directory, errLog, auditLog, logger)
		r.Mount("/buildings", buildingsfeature.Routes(buildingsHandler, sessionMgr))

		auditHandler := auditlogfeature.NewHandler(deps.Store, errLog, logger)
		r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))
	})

	return r, nil
}

// markPlaintext tells the CSRF middleware the request arrived over plain
// HTTP, which skips its HTTPS-only Referer check in development.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
