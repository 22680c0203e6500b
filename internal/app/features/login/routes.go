// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLoginPost)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/password", h.ServeChangePassword)
		pr.Post("/password", h.HandleChangePassword)
	})
	return r
}
