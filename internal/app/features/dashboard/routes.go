// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature under whatever mount point the
// top-level router chooses (e.g., "/dashboard"). Every signed-in admin sees
// the same dashboard; ?building= narrows it to one building.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
		pr.Get("/stats.json", h.ServeStats)
	})

	return r
}
