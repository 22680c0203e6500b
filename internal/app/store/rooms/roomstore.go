// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/domain/models"
)

const Table = "rooms"

type Store struct {
	ds datastore.Store
}

func New(ds datastore.Store) *Store {
	return &Store{ds: ds}
}

// List returns every room.
func (s *Store) List(ctx context.Context) ([]models.Room, error) {
	return s.list(ctx)
}

// ListByBuilding returns the rooms of one building.
func (s *Store) ListByBuilding(ctx context.Context, code string) ([]models.Room, error) {
	return s.list(ctx, datastore.Eq("building_code", code))
}

func (s *Store) list(ctx context.Context, filters ...datastore.Filter) ([]models.Room, error) {
	rows, err := s.ds.Select(ctx, datastore.Query{Table: Table, Columns: models.RoomColumns, Filters: filters})
	if err != nil {
		return nil, fmt.Errorf("select rooms: %w", err)
	}
	var out []models.Room
	if err := datastore.DecodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}
