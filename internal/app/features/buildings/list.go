// internal/app/features/buildings/list.go
package buildings

import (
	"context"
	"net/http"
	"sort"

	"github.com/dalemusser/pghub/internal/app/system/normalize"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList renders every building, active and inactive, sorted by code.
// ?status=active|inactive narrows the list.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Buildings.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list buildings failed", err, "Unable to load buildings.", "/dashboard")
		return
	}

	shown := normalize.Status(query.Get(r, "status"))
	if shown != models.StatusActive && shown != models.StatusInactive {
		shown = "all"
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Buildings", "/dashboard"),
		Shown:  shown,
	}
	for _, b := range sortByCode(all) {
		if b.IsActive() {
			data.ActiveCount++
		}
		if shown != "all" && normalize.Status(b.Status) != shown {
			continue
		}
		data.Items = append(data.Items, listItem{
			ID:               b.ID.String(),
			Code:             b.Code,
			Name:             b.Name,
			ContactPerson:    b.ContactPerson,
			ContactPhone:     b.ContactPhone,
			Status:           b.Status,
			Active:           b.IsActive(),
			TotalRooms:       b.TotalRooms,
			TotalCapacity:    b.TotalCapacity,
			CurrentOccupancy: b.CurrentOccupancy,
			Rate:             rateText(b),
		})
	}

	templates.Render(w, r, "buildings_list", data)
}

func sortByCode(in []models.Building) []models.Building {
	out := append([]models.Building(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
