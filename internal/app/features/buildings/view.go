// internal/app/features/buildings/view.go
package buildings

import (
	"context"
	"net/http"

	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeView shows one building read-only.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, ok := h.load(ctx, w, r)
	if !ok {
		return
	}

	data := viewData{
		BaseVM:           viewdata.NewBaseVM(r, b.Code+" · "+b.Name, "/buildings"),
		ID:               b.ID.String(),
		Code:             b.Code,
		Name:             b.Name,
		Address:          b.Address,
		ContactPerson:    b.ContactPerson,
		ContactPhone:     b.ContactPhone,
		Status:           b.Status,
		Active:           b.IsActive(),
		TotalRooms:       b.TotalRooms,
		TotalCapacity:    b.TotalCapacity,
		CurrentOccupancy: b.CurrentOccupancy,
		Rate:             rateText(b),
	}
	if !b.CreatedAt.IsZero() {
		data.CreatedAt = b.CreatedAt.Format("02 Jan 2006 15:04")
	}
	if !b.UpdatedAt.IsZero() {
		data.UpdatedAt = b.UpdatedAt.Format("02 Jan 2006 15:04")
	}

	templates.Render(w, r, "building_view", data)
}
