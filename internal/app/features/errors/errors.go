// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// pageData is the view model for every error page.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler serves the static error pages. No store needed.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// Forbidden renders the "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", "/dashboard"),
		Message: "You don't have permission to view this page.",
	})
}

// Unauthorized renders the "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required", "/login"),
		Message: "Please sign in to continue.",
	})
}

// NotFound is installed as the router's 404 handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Not found", "/dashboard"),
		Message: "The page you asked for does not exist.",
	})
}

// InvalidCSRF is installed as the CSRF middleware's failure handler.
func (h *Handler) InvalidCSRF(w http.ResponseWriter, r *http.Request) {
	h.Log.Warn("csrf check failed", append(requestFields(r), zap.Error(csrf.FailureReason(r)))...)
	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Form expired", "/dashboard"),
		Message: "Your form expired or was submitted from another site. Go back, reload the page and try again.",
	})
}
