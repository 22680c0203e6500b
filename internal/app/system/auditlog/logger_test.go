package auditlog_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/pghub/internal/app/store/audit"
	"github.com/dalemusser/pghub/internal/app/system/auditlog"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/pghub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLogger(cfg auditlog.Config) (*auditlog.Logger, *testutil.MemStore, *observer.ObservedLogs) {
	ms := testutil.NewMemStore()
	core, logs := observer.New(zapcore.DebugLevel)
	return auditlog.New(audit.New(ms), zap.New(core), cfg), ms, logs
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	// All of these are no-ops on a nil logger.
	logger.Log(ctx, models.AuditEvent{EventType: "test"})
	logger.LoginSuccess(ctx, req, models.AdminUser{Username: "warden"})
	logger.Logout(ctx, req)
	logger.BuildingCreated(ctx, req, models.Building{Code: "A1"})
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode      string
		wantRows  int
		wantLines int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
		{"", 1, 1},
	}

	for _, tt := range tests {
		t.Run("mode="+tt.mode, func(t *testing.T) {
			logger, ms, logs := newLogger(auditlog.Config{Auth: tt.mode, Admin: auditlog.ModeOff})
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger.Logout(ctx, testutil.NewAuthenticatedRequest("POST", "/logout", testutil.AdminUser()))

			if got := len(ms.Rows(audit.Table)); got != tt.wantRows {
				t.Errorf("rows: got %d, want %d", got, tt.wantRows)
			}
			if got := logs.FilterMessage("audit event").Len(); got != tt.wantLines {
				t.Errorf("log lines: got %d, want %d", got, tt.wantLines)
			}
		})
	}
}

func TestLogger_CategoriesAreIndependent(t *testing.T) {
	logger, ms, _ := newLogger(auditlog.Config{Auth: auditlog.ModeOff, Admin: auditlog.ModeDB})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := testutil.NewAuthenticatedRequest("POST", "/buildings", testutil.AdminUser())

	logger.Logout(ctx, req)
	logger.BuildingCreated(ctx, req, models.Building{Code: "A1", Name: "Sunrise", Status: models.StatusActive})

	rows := ms.Rows(audit.Table)
	if len(rows) != 1 {
		t.Fatalf("expected only the admin event, got %d rows", len(rows))
	}
	if rows[0]["event_type"] != audit.EventBuildingCreated || rows[0]["subject"] != "A1" {
		t.Errorf("unexpected row: %v", rows[0])
	}
}

func TestLogger_LoginFailedIsWarn(t *testing.T) {
	logger, ms, logs := newLogger(auditlog.Config{Auth: auditlog.ModeAll})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	logger.LoginFailed(ctx, req, audit.EventLoginFailedWrongPassword, "warden", "wrong password")

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warn entry, got %v", entries)
	}
	rows := ms.Rows(audit.Table)
	if len(rows) != 1 || rows[0]["success"] != false || rows[0]["ip"] != "203.0.113.9" {
		t.Errorf("unexpected row: %v", rows)
	}
}

func TestLogger_StoreFailureIsSwallowed(t *testing.T) {
	logger, ms, logs := newLogger(auditlog.Config{Admin: auditlog.ModeAll})
	ms.FailTable(audit.Table, errors.New("down"))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.BuildingStatusChanged(ctx, testutil.NewAuthenticatedRequest("POST", "/", testutil.AdminUser()), models.Building{Code: "A1"})

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Error("expected the storage failure to be logged")
	}
}
