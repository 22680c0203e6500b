package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	adminstore "github.com/dalemusser/pghub/internal/app/store/admins"
	buildingstore "github.com/dalemusser/pghub/internal/app/store/buildings"
	"github.com/dalemusser/pghub/internal/app/store/datastore"
	paymentstore "github.com/dalemusser/pghub/internal/app/store/payments"
	roomstore "github.com/dalemusser/pghub/internal/app/store/rooms"
	studentstore "github.com/dalemusser/pghub/internal/app/store/students"
	"github.com/dalemusser/pghub/internal/app/system/authutil"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestContext returns a context with a timeout suitable for tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// Fixtures seeds a MemStore with domain rows.
type Fixtures struct {
	Store *MemStore
	t     *testing.T
}

// NewFixtures creates fixtures over a fresh MemStore.
func NewFixtures(t *testing.T) *Fixtures {
	t.Helper()
	return &Fixtures{Store: NewMemStore(), t: t}
}

// Building seeds an active building with one room's worth of counters.
func (f *Fixtures) Building(code, name string, capacity, occupancy int) models.Building {
	f.t.Helper()
	now := models.NewTimestamp(time.Now())
	b := models.Building{
		Code:             code,
		Name:             name,
		Address:          "1 Test Road",
		ContactPerson:    "Warden " + code,
		ContactPhone:     "9845000000",
		Status:           models.StatusActive,
		TotalRooms:       1,
		TotalCapacity:    capacity,
		CurrentOccupancy: occupancy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	b.ID = f.seed(buildingstore.Table, b)
	return b
}

// InactiveBuilding seeds a building with status inactive.
func (f *Fixtures) InactiveBuilding(code, name string) models.Building {
	f.t.Helper()
	b := models.Building{Code: code, Name: name, Status: models.StatusInactive}
	b.ID = f.seed(buildingstore.Table, b)
	return b
}

// Room seeds an active room.
func (f *Fixtures) Room(buildingCode, number string, capacity, occupancy int) models.Room {
	f.t.Helper()
	r := models.Room{
		RoomNumber:       number,
		BuildingCode:     buildingCode,
		Capacity:         capacity,
		CurrentOccupancy: occupancy,
		Status:           models.StatusActive,
	}
	r.ID = f.seed(roomstore.Table, r)
	return r
}

// Student seeds a student.
func (f *Fixtures) Student(studentID, name, buildingCode, status string, createdAt time.Time) models.Student {
	f.t.Helper()
	s := models.Student{
		StudentID:    studentID,
		FullName:     name,
		Phone:        "9000000000",
		BuildingCode: buildingCode,
		RoomNumber:   "101",
		Status:       status,
		CreatedAt:    models.NewTimestamp(createdAt),
	}
	s.ID = f.seed(studentstore.Table, s)
	return s
}

// Payment seeds a payment.
func (f *Fixtures) Payment(paymentID, studentID, buildingCode string, amount float64, monthYear string, createdAt time.Time) models.Payment {
	f.t.Helper()
	p := models.Payment{
		PaymentID:     paymentID,
		StudentID:     studentID,
		BuildingCode:  buildingCode,
		AmountPaid:    amount,
		MonthYear:     monthYear,
		PaymentMethod: "upi",
		CreatedAt:     models.NewTimestamp(createdAt),
	}
	p.ID = f.seed(paymentstore.Table, p)
	return p
}

// Admin seeds an admin user whose password hashes password.
func (f *Fixtures) Admin(username, password, role, status string) models.AdminUser {
	f.t.Helper()
	hash, err := authutil.HashPasswordCost(password, bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	a := models.AdminUser{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Admin " + username,
		Role:         role,
		Status:       status,
	}
	a.ID = f.seed(adminstore.Table, a)
	return a
}

func (f *Fixtures) seed(table string, v any) models.RowID {
	f.t.Helper()
	row, err := datastore.EncodeRow(v)
	if err != nil {
		f.t.Fatalf("encode %s row: %v", table, err)
	}
	delete(row, "id")
	return models.RowID(f.Store.Seed(table, row)[0])
}
