// internal/domain/models/audit.go
package models

// AuditEvent records one sign-in or building change.
type AuditEvent struct {
	ID            RowID             `json:"id,omitempty"`
	Timestamp     Timestamp         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	ActorID       string            `json:"actor_id,omitempty"`
	ActorName     string            `json:"actor_name,omitempty"`
	Subject       string            `json:"subject,omitempty"` // username or building code
	IP            string            `json:"ip"`
	UserAgent     string            `json:"user_agent,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// AuditEventColumns is the projection used when loading audit events.
var AuditEventColumns = []string{
	"id", "timestamp", "category", "event_type", "actor_id", "actor_name", "subject",
	"ip", "user_agent", "success", "failure_reason", "details",
}
