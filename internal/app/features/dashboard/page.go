// internal/app/features/dashboard/page.go
package dashboard

import (
	"net/http"
	"time"

	"github.com/dalemusser/pghub/internal/app/system/dashstats"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type buildingOption struct {
	Code     string
	Name     string
	Selected bool
}

type card struct {
	Label string
	Value string
	Hint  string
}

type performanceRow struct {
	dashstats.Performance
	RateText    string
	RevenueText string
	TierLabel   string
}

type studentRow struct {
	Name         string
	StudentID    string
	BuildingCode string
	RoomNumber   string
	Joined       string
}

type paymentRow struct {
	StudentName  string
	BuildingCode string
	Month        string
	Method       string
	Amount       string
	Paid         string
}

type pageData struct {
	viewdata.BaseVM

	Filter      string
	FilterLabel string
	Options     []buildingOption
	Cards       []card
	Performance []performanceRow
	Students    []studentRow
	Payments    []paymentRow

	Degraded             bool
	DirectoryUnavailable bool
}

var tierLabels = map[string]string{
	dashstats.TierExcellent:      "Excellent",
	dashstats.TierGood:           "Good",
	dashstats.TierFair:           "Fair",
	dashstats.TierNeedsAttention: "Needs attention",
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	res := h.load(r)
	data := h.buildPage(r, res)

	h.Log.Debug("dashboard served",
		zap.String("filter", res.Summary.Filter),
		zap.Bool("degraded", res.Degraded))

	templates.Render(w, r, "dashboard", data)
}

func (h *Handler) buildPage(r *http.Request, res result) pageData {
	s := res.Summary
	f := h.Format

	data := pageData{
		BaseVM:               viewdata.NewBaseVM(r, "Dashboard", "/dashboard"),
		Filter:               s.Filter,
		FilterLabel:          "All buildings",
		Degraded:             res.Degraded,
		DirectoryUnavailable: res.DirectoryUnavailable,
	}

	for _, b := range res.Buildings {
		selected := b.Code == s.Filter
		if selected {
			data.FilterLabel = b.Code + " · " + b.Name
		}
		data.Options = append(data.Options, buildingOption{Code: b.Code, Name: b.Name, Selected: selected})
	}

	data.Cards = []card{
		{Label: "Total capacity", Value: f.Count(s.Occupancy.Capacity), Hint: f.Count(s.Occupancy.Rooms) + " rooms"},
		{Label: "Occupied beds", Value: f.Count(s.Occupancy.Occupied)},
		{Label: "Occupancy rate", Value: f.Percent(s.Occupancy.Rate)},
		{Label: "Revenue " + s.Month, Value: f.Money(s.Revenue), Hint: f.Growth(s.Growth) + " vs " + s.PreviousMonth},
		{Label: "Active students", Value: f.Count(s.ActiveStudents)},
		{Label: "Pending payments", Value: f.Count(s.Pending), Hint: "for " + s.Month},
	}

	for _, p := range s.Performance {
		data.Performance = append(data.Performance, performanceRow{
			Performance: p,
			RateText:    f.Percent(p.OccupancyRate),
			RevenueText: f.Money(p.Revenue),
			TierLabel:   tierLabels[p.Tier],
		})
	}

	for _, st := range s.RecentStudents {
		data.Students = append(data.Students, studentRow{
			Name:         st.FullName,
			StudentID:    st.StudentID,
			BuildingCode: st.BuildingCode,
			RoomNumber:   st.RoomNumber,
			Joined:       shortDate(st.CreatedAt.Time),
		})
	}

	for _, p := range s.RecentPayments {
		data.Payments = append(data.Payments, paymentRow{
			StudentName:  p.StudentName,
			BuildingCode: p.BuildingCode,
			Month:        p.MonthYear,
			Method:       p.PaymentMethod,
			Amount:       f.Money(p.AmountPaid),
			Paid:         shortDate(p.CreatedAt.Time),
		})
	}

	return data
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}
