package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/pghub/internal/app/store/audit"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/pghub/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestLogAndRecent(t *testing.T) {
	ms := testutil.NewMemStore()
	s := audit.New(ms)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Log(ctx, models.AuditEvent{
		Timestamp: models.NewTimestamp(base),
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		Subject:   "warden",
		Success:   true,
	}))
	require.NoError(t, s.Log(ctx, models.AuditEvent{
		Timestamp: models.NewTimestamp(base.Add(time.Hour)),
		Category:  audit.CategoryAdmin,
		EventType: audit.EventBuildingCreated,
		Subject:   "A1",
		Success:   true,
		Details:   map[string]string{"name": "Sunrise"},
	}))
	require.NoError(t, s.Log(ctx, models.AuditEvent{
		Timestamp: models.NewTimestamp(base.Add(2 * time.Hour)),
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		Subject:   "warden",
		Success:   true,
	}))

	all, err := s.Recent(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, audit.EventLogout, all[0].EventType, "newest first")
	require.Equal(t, "Sunrise", all[1].Details["name"])

	auth, err := s.Recent(ctx, audit.CategoryAuth, 1)
	require.NoError(t, err)
	require.Len(t, auth, 1)
	require.Equal(t, audit.EventLogout, auth[0].EventType)
}

func TestLog_StampsTimestamp(t *testing.T) {
	ms := testutil.NewMemStore()
	s := audit.New(ms)

	require.NoError(t, s.Log(context.Background(), models.AuditEvent{Category: audit.CategoryAuth, EventType: audit.EventLogout}))

	got, err := s.Recent(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.False(t, got[0].Timestamp.IsZero())
}

func TestLog_StoreFailure(t *testing.T) {
	ms := testutil.NewMemStore()
	ms.FailTable(audit.Table, errors.New("down"))

	err := audit.New(ms).Log(context.Background(), models.AuditEvent{Category: audit.CategoryAuth})
	require.Error(t, err)
}
