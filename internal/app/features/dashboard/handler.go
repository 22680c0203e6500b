// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	_ "github.com/dalemusser/pghub/internal/app/features/dashboard/views"
	"github.com/dalemusser/pghub/internal/app/store/datastore"
	metricsstore "github.com/dalemusser/pghub/internal/app/store/metrics"
	paymentstore "github.com/dalemusser/pghub/internal/app/store/payments"
	roomstore "github.com/dalemusser/pghub/internal/app/store/rooms"
	studentstore "github.com/dalemusser/pghub/internal/app/store/students"
	"github.com/dalemusser/pghub/internal/app/system/dashstats"
	"github.com/dalemusser/pghub/internal/app/system/display"
	"github.com/dalemusser/pghub/internal/app/system/normalize"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Directory is the part of the building directory the dashboard reads.
type Directory interface {
	All(ctx context.Context, forceRefresh bool) []models.Building
	Unavailable() bool
}

type Handler struct {
	Sources   metricsstore.Sources
	Directory Directory
	Format    *display.Formatter
	Recent    int
	Log       *zap.Logger

	now func() time.Time
}

func NewHandler(ds datastore.Store, dir Directory, format *display.Formatter, recent int, logger *zap.Logger) *Handler {
	if recent <= 0 {
		recent = dashstats.DefaultRecent
	}
	if format == nil {
		format = display.New("en", "")
	}
	return &Handler{
		Sources: metricsstore.Sources{
			Rooms:    roomstore.New(ds),
			Students: studentstore.New(ds),
			Payments: paymentstore.New(ds),
		},
		Directory: dir,
		Format:    format,
		Recent:    recent,
		Log:       logger,
		now:       time.Now,
	}
}

// result is everything both the page and the JSON endpoint render from.
type result struct {
	Buildings            []models.Building
	Summary              dashstats.Summary
	Degraded             bool
	DirectoryUnavailable bool
}

// load resolves the ?building= filter and computes the summary. Unknown
// codes fall back to all buildings.
func (h *Handler) load(r *http.Request) result {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard load")
	defer cancel()

	buildings := h.Directory.All(ctx, false)

	filter := normalize.BuildingFilter(query.Get(r, "building"))
	if filter != "" && !hasCode(buildings, filter) {
		h.Log.Debug("unknown building filter, showing all", zap.String("building", filter))
		filter = ""
	}
	if filter == "" {
		filter = dashstats.All
	}

	snap := metricsstore.Fetch(ctx, h.Sources, h.Log)
	sum := dashstats.Summarize(dashstats.Input{
		Buildings: buildings,
		Rooms:     snap.Rooms,
		Students:  snap.Students,
		Payments:  snap.Payments,
	}, filter, h.now(), h.Recent)

	return result{
		Buildings:            buildings,
		Summary:              sum,
		Degraded:             snap.Degraded(),
		DirectoryUnavailable: h.Directory.Unavailable(),
	}
}

// hasCode reports whether code is one of the loaded buildings.
func hasCode(buildings []models.Building, code string) bool {
	for _, b := range buildings {
		if b.Code == code {
			return true
		}
	}
	return false
}
