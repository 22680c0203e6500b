package metricsstore

import (
	"context"

	"github.com/dalemusser/pghub/internal/domain/models"
	"go.uber.org/zap"
)

// RoomLister, StudentLister and PaymentLister are the repository reads the
// dashboard needs.
type RoomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

type StudentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type PaymentLister interface {
	List(ctx context.Context) ([]models.Payment, error)
}

// Sources groups the repositories Fetch reads from.
type Sources struct {
	Rooms    RoomLister
	Students StudentLister
	Payments PaymentLister
}

// LoadError records one table that could not be loaded.
type LoadError struct {
	Source string
	Err    error
}

// Snapshot is the raw data behind the dashboard.
type Snapshot struct {
	Rooms    []models.Room
	Students []models.Student
	Payments []models.Payment
	Errors   []LoadError
}

// Degraded reports whether any source failed to load.
func (s Snapshot) Degraded() bool { return len(s.Errors) > 0 }

// Fetch loads rooms, students and payments.
// Intentionally tolerant: a failed source is logged, left empty, and
// reported in Errors so the page still renders.
func Fetch(ctx context.Context, src Sources, logger *zap.Logger) Snapshot {
	var out Snapshot

	// rooms
	if rooms, err := src.Rooms.List(ctx); err != nil {
		out.fail("rooms", err, logger)
	} else {
		out.Rooms = rooms
	}

	// students
	if students, err := src.Students.List(ctx); err != nil {
		out.fail("students", err, logger)
	} else {
		out.Students = students
	}

	// payments
	if payments, err := src.Payments.List(ctx); err != nil {
		out.fail("payments", err, logger)
	} else {
		out.Payments = payments
	}

	return out
}

func (s *Snapshot) fail(source string, err error, logger *zap.Logger) {
	logger.Error("dashboard data load failed", zap.String("source", source), zap.Error(err))
	s.Errors = append(s.Errors, LoadError{Source: source, Err: err})
}
