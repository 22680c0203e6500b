// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/pghub/internal/app/features/errors"
	adminstore "github.com/dalemusser/pghub/internal/app/store/admins"
	"github.com/dalemusser/pghub/internal/app/store/audit"
	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/system/auditlog"
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/app/system/authutil"
	"github.com/dalemusser/pghub/internal/app/system/navigation"
	"github.com/dalemusser/pghub/internal/app/system/normalize"
	"github.com/dalemusser/pghub/internal/app/system/ratelimit"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Admins     *adminstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter // nil disables throttling
	Audit      *auditlog.Logger

	// CheckPassword compares a submitted password with a stored hash.
	CheckPassword func(pw, hash string) bool
}

func NewHandler(
	ds datastore.Store,
	sessionMgr *auth.SessionManager,
	limiter *ratelimit.LoginLimiter,
	errLog *uierrors.ErrorLogger,
	auditLog *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Admins:     adminstore.New(ds),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Limiter:    limiter,
		Audit:      auditLog,

		CheckPassword: authutil.CheckPassword,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Notice    string
	Username  string
	ReturnURL string
}

const (
	msgMissing  = "Please enter your username and password."
	msgInvalid  = "Invalid username or password."
	msgInactive = "Your account is inactive. Please contact an administrator."
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.LoginReturnURL), http.StatusSeeOther)
		return
	}

	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: query.Get(r, "return"),
	}
	if query.Get(r, "expired") == "1" {
		data.Notice = "Your session expired. Please sign in again."
	}
	templates.Render(w, r, "login", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := normalize.Username(r.FormValue("username"))
	password := r.FormValue("password")

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, username); !ok {
			h.Log.Warn("login rate limited",
				zap.String("username", username),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.Audit.LoginFailed(r.Context(), r, audit.EventLoginFailedRateLimit, username, "rate limited")
			w.WriteHeader(http.StatusTooManyRequests)
			h.renderFormWithError(w, r, reason, username)
			return
		}
	}

	if username == "" || password == "" {
		h.renderFormWithError(w, r, msgMissing, username)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Admins.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, adminstore.ErrNotFound):
		h.CheckPassword(password, authutil.DummyHash())
		h.Log.Info("login failed: unknown username", zap.String("username", username))
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUserNotFound, username, "user not found")
		h.renderFormWithError(w, r, msgInvalid, username)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "load admin for login", err, "A server error occurred.", "/login")
		return
	}

	if !h.CheckPassword(password, a.PasswordHash) {
		h.Log.Info("login failed: wrong password", zap.String("user_id", a.ID.String()))
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, username, "wrong password")
		h.renderFormWithError(w, r, msgInvalid, username)
		return
	}

	/*── disabled accounts cannot sign in ──────────────────────────────────*/

	if normalize.Status(a.Status) != models.StatusActive {
		h.Log.Info("login failed: inactive account", zap.String("user_id", a.ID.String()))
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUserDisabled, username, "user disabled")
		h.renderFormWithError(w, r, msgInactive, username)
		return
	}

	h.createSessionAndRedirect(w, r, a)
}

// createSessionAndRedirect signs a in and sends them to the return URL.
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, a models.AdminUser) {
	err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:       a.ID.String(),
		Name:     a.FullName,
		Username: a.Username,
		Role:     normalize.Role(a.Role),
	})
	if err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("username", a.Username))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", a.Username)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetUser(a.Username)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Admins.TouchLastLogin(ctx, a.ID, time.Now()); err != nil {
		h.Log.Warn("stamp last login failed", zap.Error(err), zap.String("user_id", a.ID.String()))
	}

	h.Log.Info("admin signed in", zap.String("user_id", a.ID.String()), zap.String("role", a.Role))
	h.Audit.LoginSuccess(ctx, r, a)

	dest := navigation.SafeBackURL(r, navigation.LoginReturnURL)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form with an error                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username string) {
	ret := r.FormValue("return")
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:     msg,
		Username:  username,
		ReturnURL: ret,
	})
}
