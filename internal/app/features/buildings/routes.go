// internal/app/features/buildings/routes.go
package buildings

import (
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the building pages under the base path (typically
// "/buildings" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Any signed-in admin can browse.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
	})

	// Changes are limited to the managing roles.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.ManageRoles()...))

		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)

		pr.Post("/{id}/status", h.HandleStatus)
	})

	return r
}
