// internal/app/features/buildings/edit.go
package buildings

import (
	"context"
	"errors"
	"net/http"

	buildingstore "github.com/dalemusser/pghub/internal/app/store/buildings"
	"github.com/dalemusser/pghub/internal/app/system/formutil"
	"github.com/dalemusser/pghub/internal/app/system/navigation"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeEdit renders the edit form for one building.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, ok := h.load(ctx, w, r)
	if !ok {
		return
	}

	data := fromBuilding(b)
	data.IsEdit = true
	formutil.SetBase(&data.Base, r, "Edit "+b.Code, "/buildings")
	templates.Render(w, r, "building_form", data)
}

// HandleEdit saves the edit form.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/buildings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, ok := h.load(ctx, w, r)
	if !ok {
		return
	}

	form := readForm(r)
	form.ID = existing.ID.String()
	form.IsEdit = true
	renderWithError := func(msg string) {
		formutil.SetBase(&form.Base, r, "Edit "+existing.Code, "/buildings")
		form.SetError(msg)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "building_form", form)
	}

	in, msg := form.toInput()
	if msg != "" {
		renderWithError(msg)
		return
	}

	if in.Code != existing.Code {
		other, err := h.Buildings.GetByCode(ctx, in.Code)
		switch {
		case err == nil && other.ID != existing.ID:
			renderWithError("A building with that code already exists.")
			return
		case err != nil && !errors.Is(err, buildingstore.ErrNotFound):
			h.ErrLog.LogServerError(w, r, "check building code failed", err, "A database error occurred.", "/buildings")
			return
		}
	}

	b, err := h.Directory.Update(ctx, existing.ID, in)
	if err != nil {
		if errors.Is(err, buildingstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "building vanished during edit", "Building not found.", "/buildings")
			return
		}
		h.Log.Error("update building failed", zap.String("id", existing.ID.String()), zap.Error(err))
		renderWithError("Database error while saving building.")
		return
	}
	h.Audit.BuildingUpdated(ctx, r, b, existing.Code)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.BuildingsBackURL), http.StatusSeeOther)
}

// load fetches the {id} building, rendering the error page itself when it
// cannot.
func (h *Handler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Building, bool) {
	id := models.RowID(chi.URLParam(r, "id"))
	if id.IsZero() {
		h.ErrLog.LogNotFound(w, r, "missing building id", "Building not found.", "/buildings")
		return models.Building{}, false
	}

	b, err := h.Buildings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, buildingstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "building not found", "Building not found.", "/buildings")
			return models.Building{}, false
		}
		h.ErrLog.LogServerError(w, r, "load building failed", err, "A database error occurred.", "/buildings")
		return models.Building{}, false
	}
	return b, true
}
