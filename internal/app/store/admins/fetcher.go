// internal/app/store/admins/fetcher.go
package adminstore

import (
	"context"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/app/system/normalize"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/domain/models"
)

// Fetcher implements auth.UserFetcher on top of the admin_users table.
type Fetcher struct {
	store *Store
}

func NewFetcher(ds datastore.Store) *Fetcher {
	return &Fetcher{store: New(ds)}
}

// FetchUser reloads the admin behind a session. Missing or inactive admins,
// and any lookup error, report ok=false so the session is dropped.
func (f *Fetcher) FetchUser(ctx context.Context, id string) (*auth.SessionUser, bool) {
	if id == "" {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	a, err := f.store.GetByID(ctx, models.RowID(id))
	if err != nil {
		return nil, false
	}
	if normalize.Status(a.Status) != models.StatusActive {
		return nil, false
	}

	return &auth.SessionUser{
		ID:       a.ID.String(),
		Name:     a.FullName,
		Username: a.Username,
		Role:     normalize.Role(a.Role),
	}, true
}
