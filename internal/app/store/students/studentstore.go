// internal/app/store/students/studentstore.go
package studentstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/domain/models"
)

const Table = "students"

type Store struct {
	ds datastore.Store
}

func New(ds datastore.Store) *Store {
	return &Store{ds: ds}
}

// List returns every student, active or not.
func (s *Store) List(ctx context.Context) ([]models.Student, error) {
	return s.list(ctx)
}

// ListActive returns students whose status is active.
func (s *Store) ListActive(ctx context.Context) ([]models.Student, error) {
	return s.list(ctx, datastore.Eq("status", models.StatusActive))
}

// ListByBuilding returns the students assigned to one building.
func (s *Store) ListByBuilding(ctx context.Context, code string) ([]models.Student, error) {
	return s.list(ctx, datastore.Eq("building_code", code))
}

func (s *Store) list(ctx context.Context, filters ...datastore.Filter) ([]models.Student, error) {
	rows, err := s.ds.Select(ctx, datastore.Query{Table: Table, Columns: models.StudentColumns, Filters: filters})
	if err != nil {
		return nil, fmt.Errorf("select students: %w", err)
	}
	var out []models.Student
	if err := datastore.DecodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}
