// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	When      string
	Category  string
	EventType string
	ActorName string
	Subject   string
	IP        string
	Success   bool
	Reason    string
	Details   string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items    []listItem
	Category string // "", "auth" or "admin"
	Limit    int
}
