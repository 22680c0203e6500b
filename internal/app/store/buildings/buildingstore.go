// internal/app/store/buildings/buildingstore.go
package buildingstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/domain/models"
)

// Table is the data store table holding buildings.
const Table = "buildings"

var ErrNotFound = errors.New("building not found")

type Store struct {
	ds datastore.Store
}

func New(ds datastore.Store) *Store {
	return &Store{ds: ds}
}

// ListActive returns buildings whose status is active, in store order.
func (s *Store) ListActive(ctx context.Context) ([]models.Building, error) {
	return s.list(ctx, datastore.Eq("status", models.StatusActive))
}

// ListAll returns every building regardless of status.
func (s *Store) ListAll(ctx context.Context) ([]models.Building, error) {
	return s.list(ctx)
}

// GetByID loads one building by row id.
func (s *Store) GetByID(ctx context.Context, id models.RowID) (models.Building, error) {
	out, err := s.list(ctx, datastore.Eq("id", id))
	if err != nil {
		return models.Building{}, err
	}
	if len(out) == 0 {
		return models.Building{}, ErrNotFound
	}
	return out[0], nil
}

// GetByCode loads one building by code, whatever its status.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Building, error) {
	out, err := s.list(ctx, datastore.Eq("code", code))
	if err != nil {
		return models.Building{}, err
	}
	if len(out) == 0 {
		return models.Building{}, ErrNotFound
	}
	return out[0], nil
}

// Create inserts b and returns the stored row.
func (s *Store) Create(ctx context.Context, b models.Building) (models.Building, error) {
	row, err := datastore.EncodeRow(b)
	if err != nil {
		return models.Building{}, err
	}
	delete(row, "id")
	rows, err := s.ds.Insert(ctx, Table, row)
	if err != nil {
		return models.Building{}, fmt.Errorf("insert building: %w", err)
	}
	return first(rows, b)
}

// Update writes fields to the building with the given id and returns the
// stored row. Only the columns present in fields are touched.
func (s *Store) Update(ctx context.Context, id models.RowID, fields datastore.Row) (models.Building, error) {
	rows, err := s.ds.Update(ctx, Table, fields, datastore.Eq("id", id))
	if err != nil {
		return models.Building{}, fmt.Errorf("update building %s: %w", id, err)
	}
	if len(rows) == 0 {
		return models.Building{}, ErrNotFound
	}
	return first(rows, models.Building{})
}

func (s *Store) list(ctx context.Context, filters ...datastore.Filter) ([]models.Building, error) {
	rows, err := s.ds.Select(ctx, datastore.Query{
		Table:   Table,
		Columns: models.BuildingColumns,
		Filters: filters,
	})
	if err != nil {
		return nil, fmt.Errorf("select buildings: %w", err)
	}
	var out []models.Building
	if err := datastore.DecodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// first decodes the first returned row, falling back to fallback when the
// backend answered without a representation.
func first(rows []datastore.Row, fallback models.Building) (models.Building, error) {
	if len(rows) == 0 {
		return fallback, nil
	}
	var out []models.Building
	if err := datastore.DecodeRows(rows[:1], &out); err != nil {
		return models.Building{}, err
	}
	return out[0], nil
}
