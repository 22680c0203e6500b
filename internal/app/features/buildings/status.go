// internal/app/features/buildings/status.go
package buildings

import (
	"context"
	"errors"
	"net/http"

	buildingstore "github.com/dalemusser/pghub/internal/app/store/buildings"
	"github.com/dalemusser/pghub/internal/app/system/navigation"
	"github.com/dalemusser/pghub/internal/app/system/normalize"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleStatus activates or deactivates a building. Buildings are never
// deleted; deactivating one removes it from the directory.
// POST /buildings/{id}/status  status=active|inactive
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/buildings")
		return
	}

	status := normalize.Status(r.FormValue("status"))
	if status != models.StatusActive && status != models.StatusInactive {
		h.ErrLog.LogBadRequest(w, r, "invalid status", nil, "Invalid status value.", "/buildings")
		return
	}

	id := models.RowID(chi.URLParam(r, "id"))
	if id.IsZero() {
		h.ErrLog.LogNotFound(w, r, "missing building id", "Building not found.", "/buildings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.Directory.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, buildingstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "building not found", "Building not found.", "/buildings")
			return
		}
		h.ErrLog.LogServerError(w, r, "set building status failed", err, "A database error occurred.", "/buildings")
		return
	}

	h.Log.Info("building status changed", zap.String("code", b.Code), zap.String("status", status))
	h.Audit.BuildingStatusChanged(ctx, r, b)
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.BuildingsBackURL), http.StatusSeeOther)
}
