// Package dashstats computes the dashboard numbers from rows already
// loaded from the data store. Every function is pure: callers fetch, this
// package filters and sums.
//
// A building filter is either "all" (or empty) or one building code.
package dashstats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/pghub/internal/domain/models"
)

// All selects every building.
const All = "all"

// Performance tiers, best first.
const (
	TierExcellent      = "excellent"
	TierGood           = "good"
	TierFair           = "fair"
	TierNeedsAttention = "needs_attention"
)

// UnknownStudent labels payments whose student_id matches no student.
const UnknownStudent = "Unknown Student"

// DefaultRecent is the length of the recent students/payments lists.
const DefaultRecent = 5

// Matches reports whether code falls under filter.
func Matches(filter, code string) bool {
	if IsAll(filter) {
		return true
	}
	return code == filter
}

// IsAll reports whether filter selects every building.
func IsAll(filter string) bool {
	f := strings.TrimSpace(filter)
	return f == "" || strings.EqualFold(f, All)
}

// Totals is the capacity/occupancy sum for a set of rooms.
type Totals struct {
	Rooms    int
	Capacity int
	Occupied int
	Rate     float64
}

// Occupancy sums room capacity and current occupancy for filter.
func Occupancy(rooms []models.Room, filter string) Totals {
	var t Totals
	for _, r := range rooms {
		if !Matches(filter, r.BuildingCode) {
			continue
		}
		t.Rooms++
		t.Capacity += r.Capacity
		t.Occupied += r.CurrentOccupancy
	}
	t.Rate = OccupancyRate(t.Occupied, t.Capacity)
	return t
}

// OccupancyRate returns occupied/capacity as a percentage rounded to one
// decimal and clamped to [0, 100]. Zero capacity yields 0.
func OccupancyRate(occupied, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	rate := round1(float64(occupied) / float64(capacity) * 100)
	return clamp(rate, 0, 100)
}

// Revenue sums amount_paid for monthYear under filter.
func Revenue(payments []models.Payment, monthYear, filter string) float64 {
	var sum float64
	for _, p := range payments {
		if p.MonthYear == monthYear && Matches(filter, p.BuildingCode) {
			sum += p.AmountPaid
		}
	}
	return sum
}

// Growth is the month-over-month change in percent, rounded to one decimal.
// Without a previous baseline it is 0.
func Growth(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return round1((current - previous) / previous * 100)
}

// PendingPayments counts active students under filter with no payment for
// monthYear under the same filter.
func PendingPayments(students []models.Student, payments []models.Payment, monthYear, filter string) int {
	paid := make(map[string]struct{})
	for _, p := range payments {
		if p.MonthYear == monthYear && Matches(filter, p.BuildingCode) {
			paid[p.StudentID] = struct{}{}
		}
	}
	pending := 0
	for _, s := range students {
		if !s.IsActive() || !Matches(filter, s.BuildingCode) {
			continue
		}
		if _, ok := paid[s.StudentID]; !ok {
			pending++
		}
	}
	return pending
}

// ActiveStudents counts active students under filter.
func ActiveStudents(students []models.Student, filter string) int {
	n := 0
	for _, s := range students {
		if s.IsActive() && Matches(filter, s.BuildingCode) {
			n++
		}
	}
	return n
}

// Tier labels a building by its revenue and occupancy rate. The checks run
// in order and the first match wins.
func Tier(revenue, occupancyRate float64) string {
	switch {
	case revenue > 0 && occupancyRate > 70:
		return TierExcellent
	case revenue > 0 && occupancyRate > 50:
		return TierGood
	case revenue > 0 || occupancyRate > 30:
		return TierFair
	default:
		return TierNeedsAttention
	}
}

// RecentStudents returns up to n students under filter, newest first.
func RecentStudents(students []models.Student, filter string, n int) []models.Student {
	if n <= 0 {
		n = DefaultRecent
	}
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if Matches(filter, s.BuildingCode) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// PaymentRow is a payment joined to its student's name.
type PaymentRow struct {
	models.Payment
	StudentName string
}

// RecentPayments returns up to n payments under filter, newest first, each
// joined to the student's name by student_id.
func RecentPayments(payments []models.Payment, students []models.Student, filter string, n int) []PaymentRow {
	if n <= 0 {
		n = DefaultRecent
	}
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.StudentID] = s.FullName
	}

	filtered := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if Matches(filter, p.BuildingCode) {
			filtered = append(filtered, p)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt.Time)
	})
	if len(filtered) > n {
		filtered = filtered[:n]
	}

	out := make([]PaymentRow, 0, len(filtered))
	for _, p := range filtered {
		name, ok := names[p.StudentID]
		if !ok {
			name = UnknownStudent
		}
		out = append(out, PaymentRow{Payment: p, StudentName: name})
	}
	return out
}

// MonthKey returns the YYYY-MM billing key for t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousMonthKey returns the billing key of the month before t.
func PreviousMonthKey(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthKey(first.AddDate(0, -1, 0))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
