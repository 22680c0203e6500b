// internal/app/features/buildings/new.go
package buildings

import (
	"context"
	"errors"
	"net/http"

	buildingstore "github.com/dalemusser/pghub/internal/app/store/buildings"
	"github.com/dalemusser/pghub/internal/app/system/directory"
	"github.com/dalemusser/pghub/internal/app/system/formutil"
	"github.com/dalemusser/pghub/internal/app/system/navigation"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeNew renders the "New Building" form.
// Authorization: RequireRole(authz.ManageRoles()...) in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := formData{Status: models.StatusActive}
	formutil.SetBase(&data.Base, r, "New Building", "/buildings")
	templates.Render(w, r, "building_form", data)
}

// HandleCreate processes the New Building form submission.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/buildings")
		return
	}

	form := readForm(r)
	renderWithError := func(msg string) {
		formutil.SetBase(&form.Base, r, "New Building", "/buildings")
		form.SetError(msg)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "building_form", form)
	}

	in, msg := form.toInput()
	if msg != "" {
		renderWithError(msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Buildings.GetByCode(ctx, in.Code); err == nil {
		renderWithError("A building with that code already exists.")
		return
	} else if !errors.Is(err, buildingstore.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "check building code failed", err, "A database error occurred.", "/buildings")
		return
	}

	b, err := h.Directory.Create(ctx, in)
	if err != nil {
		if errors.Is(err, directory.ErrInvalidCode) {
			renderWithError("Code must be one uppercase letter followed by digits (for example A1).")
			return
		}
		h.Log.Error("create building failed", zap.String("code", in.Code), zap.Error(err))
		renderWithError("Database error while creating building.")
		return
	}

	h.Log.Info("building created via form", zap.String("code", b.Code))
	h.Audit.BuildingCreated(ctx, r, b)
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.BuildingsBackURL), http.StatusSeeOther)
}
