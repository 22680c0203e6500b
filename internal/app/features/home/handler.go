// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/pghub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the site root. There is no public landing page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeRoot sends signed-in admins to the dashboard and everyone else to
// the login form.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
