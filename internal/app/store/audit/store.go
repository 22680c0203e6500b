// internal/app/store/audit/store.go
package audit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/domain/models"
)

// Table is the data store table holding audit events.
const Table = "audit_events"

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLoginFailedRateLimit     = "login_failed_rate_limit"
	EventLogout                   = "logout"
	EventPasswordChanged          = "password_changed"
)

// Admin event types
const (
	EventBuildingCreated       = "building_created"
	EventBuildingUpdated       = "building_updated"
	EventBuildingStatusChanged = "building_status_changed"
)

// Store manages audit event rows.
type Store struct {
	ds  datastore.Store
	now func() time.Time
}

func New(ds datastore.Store) *Store {
	return &Store{ds: ds, now: time.Now}
}

// Log inserts event, stamping the timestamp when it is unset.
func (s *Store) Log(ctx context.Context, event models.AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = models.NewTimestamp(s.now())
	}
	row, err := datastore.EncodeRow(event)
	if err != nil {
		return err
	}
	delete(row, "id")
	if _, err := s.ds.Insert(ctx, Table, row); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first. An empty category means
// every category. Filters are equality-only, so sorting and the limit are
// applied here.
func (s *Store) Recent(ctx context.Context, category string, limit int) ([]models.AuditEvent, error) {
	q := datastore.Query{Table: Table, Columns: models.AuditEventColumns}
	if category != "" {
		q.Filters = []datastore.Filter{datastore.Eq("category", category)}
	}
	rows, err := s.ds.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select audit events: %w", err)
	}
	var out []models.AuditEvent
	if err := datastore.DecodeRows(rows, &out); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp.Time)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
