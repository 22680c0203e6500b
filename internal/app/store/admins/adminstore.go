// internal/app/store/admins/adminstore.go
package adminstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/domain/models"
)

const Table = "admin_users"

var ErrNotFound = errors.New("admin user not found")

type Store struct {
	ds datastore.Store
}

func New(ds datastore.Store) *Store {
	return &Store{ds: ds}
}

// GetByUsername loads the admin with the given (already normalized) username.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.AdminUser, error) {
	return s.getOne(ctx, datastore.Eq("username", username))
}

// GetByID loads the admin with the given row id.
func (s *Store) GetByID(ctx context.Context, id models.RowID) (models.AdminUser, error) {
	return s.getOne(ctx, datastore.Eq("id", id))
}

// TouchLastLogin stamps last_login_at with now.
func (s *Store) TouchLastLogin(ctx context.Context, id models.RowID, now time.Time) error {
	row := datastore.Row{"last_login_at": datastore.TimeValue(now)}
	if _, err := s.ds.Update(ctx, Table, row, datastore.Eq("id", id)); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (s *Store) getOne(ctx context.Context, f datastore.Filter) (models.AdminUser, error) {
	rows, err := s.ds.Select(ctx, datastore.Query{Table: Table, Columns: models.AdminUserColumns, Filters: []datastore.Filter{f}})
	if err != nil {
		return models.AdminUser{}, fmt.Errorf("select admin user: %w", err)
	}
	var out []models.AdminUser
	if err := datastore.DecodeRows(rows, &out); err != nil {
		return models.AdminUser{}, err
	}
	if len(out) == 0 {
		return models.AdminUser{}, ErrNotFound
	}
	return out[0], nil
}

// SetPassword replaces the stored bcrypt hash.
func (s *Store) SetPassword(ctx context.Context, id models.RowID, hash string) error {
	rows, err := s.ds.Update(ctx, Table, datastore.Row{"password_hash": hash}, datastore.Eq("id", id))
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}
