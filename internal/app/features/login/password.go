// internal/app/features/login/password.go
package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/app/system/authutil"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type passwordFormData struct {
	viewdata.BaseVM
	Error string
	Rules string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login/password                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeChangePassword shows the change-password form for the signed-in admin.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	h.renderPasswordForm(w, r, "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login/password                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleChangePassword verifies the current password and stores a new hash.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login/password")
		return
	}

	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if current == "" || next == "" {
		h.renderPasswordForm(w, r, "Please fill in every field.")
		return
	}
	if next != confirm {
		h.renderPasswordForm(w, r, "The new passwords do not match.")
		return
	}
	if err := authutil.ValidatePassword(next); err != nil {
		h.renderPasswordForm(w, r, passwordErrorMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Admins.GetByID(ctx, models.RowID(u.ID))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load admin for password change", err, "A server error occurred.", "/dashboard")
		return
	}
	if !h.CheckPassword(current, a.PasswordHash) {
		h.renderPasswordForm(w, r, "Your current password is incorrect.")
		return
	}

	hash, err := authutil.HashPassword(next)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.", "/dashboard")
		return
	}
	if err := h.Admins.SetPassword(ctx, a.ID, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "store password", err, "A server error occurred.", "/dashboard")
		return
	}

	h.Log.Info("admin changed password", zap.String("user_id", u.ID))
	h.Audit.PasswordChanged(ctx, r)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) renderPasswordForm(w http.ResponseWriter, r *http.Request, msg string) {
	templates.Render(w, r, "login_password", passwordFormData{
		BaseVM: viewdata.NewBaseVM(r, "Change password", "/dashboard"),
		Error:  msg,
		Rules:  authutil.PasswordRules(),
	})
}

func passwordErrorMessage(err error) string {
	switch {
	case errors.Is(err, authutil.ErrPasswordTooShort), errors.Is(err, authutil.ErrPasswordTooLong):
		return authutil.PasswordRules()
	case errors.Is(err, authutil.ErrPasswordCommon):
		return "That password is too common. Please choose another."
	default:
		return "That password cannot be used."
	}
}
