// internal/app/features/dashboard/stats.go
package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/pghub/internal/app/system/dashstats"
	"go.uber.org/zap"
)

type buildingStats struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Rooms          int     `json:"rooms"`
	Capacity       int     `json:"capacity"`
	Occupied       int     `json:"occupied"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	Revenue        float64 `json:"revenue"`
	ActiveStudents int     `json:"active_students"`
	Pending        int     `json:"pending_payments"`
	Tier           string  `json:"tier"`
}

type statsResponse struct {
	Building        string          `json:"building"`
	Month           string          `json:"month"`
	PreviousMonth   string          `json:"previous_month"`
	Rooms           int             `json:"rooms"`
	Capacity        int             `json:"capacity"`
	Occupied        int             `json:"occupied"`
	OccupancyRate   float64         `json:"occupancy_rate"`
	Revenue         float64         `json:"revenue"`
	PreviousRevenue float64         `json:"previous_revenue"`
	Growth          float64         `json:"growth"`
	ActiveStudents  int             `json:"active_students"`
	Pending         int             `json:"pending_payments"`
	Buildings       []buildingStats `json:"buildings"`

	Degraded           bool `json:"degraded"`
	DirectoryAvailable bool `json:"directory_available"`
}

// ServeStats handles GET /dashboard/stats.json. Same numbers as the page,
// unformatted.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	res := h.load(r)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(toStats(res)); err != nil {
		h.Log.Warn("encode dashboard stats failed", zap.Error(err))
	}
}

func toStats(res result) statsResponse {
	s := res.Summary
	out := statsResponse{
		Building:           s.Filter,
		Month:              s.Month,
		PreviousMonth:      s.PreviousMonth,
		Rooms:              s.Occupancy.Rooms,
		Capacity:           s.Occupancy.Capacity,
		Occupied:           s.Occupancy.Occupied,
		OccupancyRate:      s.Occupancy.Rate,
		Revenue:            s.Revenue,
		PreviousRevenue:    s.PreviousRevenue,
		Growth:             s.Growth,
		ActiveStudents:     s.ActiveStudents,
		Pending:            s.Pending,
		Buildings:          make([]buildingStats, 0, len(s.Performance)),
		Degraded:           res.Degraded,
		DirectoryAvailable: !res.DirectoryUnavailable,
	}
	for _, p := range s.Performance {
		out.Buildings = append(out.Buildings, fromPerformance(p))
	}
	return out
}

func fromPerformance(p dashstats.Performance) buildingStats {
	return buildingStats{
		Code:           p.Code,
		Name:           p.Name,
		Rooms:          p.Rooms,
		Capacity:       p.Capacity,
		Occupied:       p.Occupied,
		OccupancyRate:  p.OccupancyRate,
		Revenue:        p.Revenue,
		ActiveStudents: p.ActiveStudents,
		Pending:        p.Pending,
		Tier:           p.Tier,
	}
}
