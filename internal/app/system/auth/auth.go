// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey   = "is_authenticated"
	userIDKey   = "user_id"
	userNameKey = "user_name"
	usernameKey = "username"
	userRoleKey = "user_role"
	lastSeenKey = "last_seen"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID       string
	Name     string
	Username string
	Role     string
}

// UserFetcher re-reads an admin on each request so that deactivated
// accounts lose access immediately. Returning ok=false signs the user out.
type UserFetcher interface {
	FetchUser(ctx context.Context, id string) (*SessionUser, bool)
}

type ctxKey string

const (
	currentUserKey    ctxKey = "currentUser"
	sessionExpiredKey ctxKey = "sessionExpired"
)

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// SessionExpired reports whether this request arrived with a session that
// was dropped for inactivity.
func SessionExpired(r *http.Request) bool {
	v, _ := r.Context().Value(sessionExpiredKey).(bool)
	return v
}

// WithTestUser injects u into the request context. Handler tests use it to
// bypass the cookie round trip.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and the auth middleware.
type SessionManager struct {
	store       *sessions.CookieStore
	name        string
	idleTimeout time.Duration
	fetcher     UserFetcher
	log         *zap.Logger
	now         func() time.Time
}

// NewSessionManager builds the cookie store. The `secure` flag controls
// whether cookies are marked Secure; idleTimeout <= 0 disables inactivity
// expiry.
func NewSessionManager(sessionKey, name, domain string, idleTimeout time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "pghub-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("idle_timeout", idleTimeout))

	return &SessionManager{
		store:       store,
		name:        name,
		idleTimeout: idleTimeout,
		log:         logger,
		now:         time.Now,
	}, nil
}

// SetUserFetcher installs the per-request account check.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// Store exposes the underlying cookie store (logout copies its options).
func (sm *SessionManager) Store() *sessions.CookieStore {
	return sm.store
}

// GetSession returns the named session. On a decode error (rotated key,
// tampered cookie) a fresh session is returned together with the error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SignIn marks the session authenticated for u.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logDecodeError(err, "sign-in")
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[usernameKey] = u.Username
	sess.Values[userRoleKey] = u.Role
	sess.Values[lastSeenKey] = sm.now().Unix()
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logDecodeError(err, "sign-out")
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options = &sessions.Options{
		Domain:   sm.store.Options.Domain,
		Path:     sm.store.Options.Path,
		Secure:   sm.store.Options.Secure,
		HttpOnly: sm.store.Options.HttpOnly,
		SameSite: sm.store.Options.SameSite,
		MaxAge:   -1,
	}
	return sess.Save(r, w)
}

// LoadSessionUser injects the user into context if they are logged in.
// Sessions idle past the timeout are cleared and flagged as expired.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			sm.logDecodeError(err, "load")
			next.ServeHTTP(w, r)
			return
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
			next.ServeHTTP(w, r)
			return
		}

		now := sm.now()
		if sm.idleTimeout > 0 {
			last, _ := sess.Values[lastSeenKey].(int64)
			if last == 0 || now.Sub(time.Unix(last, 0)) > sm.idleTimeout {
				sm.log.Info("session expired for inactivity",
					zap.String("user_id", getString(sess, userIDKey)))
				_ = sm.SignOut(w, r)
				r = r.WithContext(context.WithValue(r.Context(), sessionExpiredKey, true))
				next.ServeHTTP(w, r)
				return
			}
		}

		u := &SessionUser{
			ID:       getString(sess, userIDKey),
			Name:     getString(sess, userNameKey),
			Username: getString(sess, usernameKey),
			Role:     getString(sess, userRoleKey),
		}

		if sm.fetcher != nil {
			fresh, ok := sm.fetcher.FetchUser(r.Context(), u.ID)
			if !ok {
				sm.log.Info("session user no longer active", zap.String("user_id", u.ID))
				_ = sm.SignOut(w, r)
				next.ServeHTTP(w, r)
				return
			}
			u = fresh
		}

		sess.Values[lastSeenKey] = now.Unix()
		if err := sess.Save(r, w); err != nil {
			sm.log.Warn("session touch failed", zap.Error(err))
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		denyUnauthenticated(w, r)
	})
}

// RequireRole ensures there is a user with one of the allowed roles.
// Signed-out users get the RequireSignedIn treatment; signed-in users with
// the wrong role go to /forbidden (or get a 403 for API callers).
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				denyUnauthenticated(w, r)
				return
			}

			if _, has := set[strings.ToLower(u.Role)]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	dest := "/login?return=" + url.QueryEscape(currentURI(r))
	if SessionExpired(r) {
		dest += "&expired=1"
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func (sm *SessionManager) logDecodeError(err error, during string) {
	if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
		sm.log.Warn("session cookie invalid, using fresh session",
			zap.String("during", during), zap.Error(err))
		return
	}
	sm.log.Error("session store error", zap.String("during", during), zap.Error(err))
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
