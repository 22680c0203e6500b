package dashstats

import (
	"time"

	"github.com/dalemusser/pghub/internal/domain/models"
)

// Performance is one row of the per-building table.
type Performance struct {
	Code           string
	Name           string
	Rooms          int
	Capacity       int
	Occupied       int
	OccupancyRate  float64
	Revenue        float64
	ActiveStudents int
	Pending        int
	Tier           string
}

// BuildingPerformance returns one row per building, in the order given.
func BuildingPerformance(buildings []models.Building, rooms []models.Room, students []models.Student, payments []models.Payment, monthYear string) []Performance {
	out := make([]Performance, 0, len(buildings))
	for _, b := range buildings {
		occ := Occupancy(rooms, b.Code)
		rev := Revenue(payments, monthYear, b.Code)
		out = append(out, Performance{
			Code:           b.Code,
			Name:           b.Name,
			Rooms:          occ.Rooms,
			Capacity:       occ.Capacity,
			Occupied:       occ.Occupied,
			OccupancyRate:  occ.Rate,
			Revenue:        rev,
			ActiveStudents: ActiveStudents(students, b.Code),
			Pending:        PendingPayments(students, payments, monthYear, b.Code),
			Tier:           Tier(rev, occ.Rate),
		})
	}
	return out
}

// Input is everything the dashboard needs, already loaded.
type Input struct {
	Buildings []models.Building
	Rooms     []models.Room
	Students  []models.Student
	Payments  []models.Payment
}

// Summary is the full set of dashboard numbers for one filter.
type Summary struct {
	Filter          string
	Month           string
	PreviousMonth   string
	Occupancy       Totals
	Revenue         float64
	PreviousRevenue float64
	Growth          float64
	ActiveStudents  int
	Pending         int
	Performance     []Performance
	RecentStudents  []models.Student
	RecentPayments  []PaymentRow
}

// Summarize computes the dashboard for filter as of now. The performance
// table lists every building when filter is all, otherwise just that one.
func Summarize(in Input, filter string, now time.Time, recent int) Summary {
	if IsAll(filter) {
		filter = All
	}
	month := MonthKey(now)
	prev := PreviousMonthKey(now)

	rev := Revenue(in.Payments, month, filter)
	prevRev := Revenue(in.Payments, prev, filter)

	buildings := in.Buildings
	if filter != All {
		buildings = nil
		for _, b := range in.Buildings {
			if b.Code == filter {
				buildings = append(buildings, b)
			}
		}
	}

	return Summary{
		Filter:          filter,
		Month:           month,
		PreviousMonth:   prev,
		Occupancy:       Occupancy(in.Rooms, filter),
		Revenue:         rev,
		PreviousRevenue: prevRev,
		Growth:          Growth(rev, prevRev),
		ActiveStudents:  ActiveStudents(in.Students, filter),
		Pending:         PendingPayments(in.Students, in.Payments, month, filter),
		Performance:     BuildingPerformance(buildings, in.Rooms, in.Students, in.Payments, month),
		RecentStudents:  RecentStudents(in.Students, filter, recent),
		RecentPayments:  RecentPayments(in.Payments, in.Students, filter, recent),
	}
}
