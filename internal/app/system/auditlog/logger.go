// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/pghub/internal/app/store/audit"
	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/app/system/ratelimit"
	"github.com/dalemusser/pghub/internal/domain/models"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // data store + zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-in, sign-out and password events.
	Auth string
	// Admin controls building changes.
	Admin string
}

// Logger records audit events to the data store (via audit.Store) and to
// structured logs (via zap). A nil *Logger is a no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event with a consistent structure.
func (l *Logger) logToZap(event models.AuditEvent) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.Subject != "" {
		fields = append(fields, zap.String("subject", event.Subject))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the category's configured mode. Storage
// failures are logged and swallowed; auditing never fails a request.
func (l *Logger) Log(ctx context.Context, event models.AuditEvent) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if setting == ModeAll || setting == ModeDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// base fills in the request context: client IP, user agent and the
// signed-in actor, if any.
func base(r *http.Request, category, eventType string) models.AuditEvent {
	ev := models.AuditEvent{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if u, ok := auth.CurrentUser(r); ok {
		ev.ActorID = u.ID
		ev.ActorName = u.Name
	}
	return ev
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in. The session user is not in the
// request context yet, so the admin is passed in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, admin models.AdminUser) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginSuccess)
	ev.ActorID = admin.ID.String()
	ev.ActorName = admin.FullName
	ev.Subject = admin.Username
	l.Log(ctx, ev)
}

// LoginFailed logs a rejected sign-in. eventType is one of the
// audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, username, reason string) {
	ev := base(r, audit.CategoryAuth, eventType)
	ev.Subject = username
	ev.Success = false
	ev.FailureReason = reason
	l.Log(ctx, ev)
}

// Logout logs a sign-out by the current user.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	ev := base(r, audit.CategoryAuth, audit.EventLogout)
	if u, ok := auth.CurrentUser(r); ok {
		ev.Subject = u.Username
	}
	l.Log(ctx, ev)
}

// PasswordChanged logs a password change by the current user.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request) {
	ev := base(r, audit.CategoryAuth, audit.EventPasswordChanged)
	if u, ok := auth.CurrentUser(r); ok {
		ev.Subject = u.Username
	}
	l.Log(ctx, ev)
}

// --- Admin Events ---

// BuildingCreated logs a new building.
func (l *Logger) BuildingCreated(ctx context.Context, r *http.Request, b models.Building) {
	ev := base(r, audit.CategoryAdmin, audit.EventBuildingCreated)
	ev.Subject = b.Code
	ev.Details = map[string]string{"name": b.Name, "status": b.Status}
	l.Log(ctx, ev)
}

// BuildingUpdated logs an edit. previousCode is set when the code changed.
func (l *Logger) BuildingUpdated(ctx context.Context, r *http.Request, b models.Building, previousCode string) {
	ev := base(r, audit.CategoryAdmin, audit.EventBuildingUpdated)
	ev.Subject = b.Code
	ev.Details = map[string]string{"name": b.Name}
	if previousCode != "" && previousCode != b.Code {
		ev.Details["previous_code"] = previousCode
	}
	l.Log(ctx, ev)
}

// BuildingStatusChanged logs an activation or deactivation.
func (l *Logger) BuildingStatusChanged(ctx context.Context, r *http.Request, b models.Building) {
	ev := base(r, audit.CategoryAdmin, audit.EventBuildingStatusChanged)
	ev.Subject = b.Code
	ev.Details = map[string]string{"status": b.Status}
	l.Log(ctx, ev)
}
