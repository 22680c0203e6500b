// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/pghub/internal/app/store/audit"
	"github.com/dalemusser/pghub/internal/app/system/normalize"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

const pageSize = 100

// ServeList handles GET /audit?category=auth|admin and shows the most
// recent events, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	category := strings.ToLower(normalize.QueryParam(query.Get(r, "category")))
	if category != audit.CategoryAuth && category != audit.CategoryAdmin {
		category = ""
	}

	events, err := h.Events.Recent(ctx, category, pageSize)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list audit events failed", err, "Unable to load the audit log.", "/dashboard")
		return
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, "Audit log", "/dashboard"),
		Category: category,
		Limit:    pageSize,
	}
	for _, e := range events {
		data.Items = append(data.Items, listItem{
			When:      e.Timestamp.Local().Format("02 Jan 2006 15:04"),
			Category:  e.Category,
			EventType: strings.ReplaceAll(e.EventType, "_", " "),
			ActorName: e.ActorName,
			Subject:   e.Subject,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   detailText(e.Details),
		})
	}

	templates.Render(w, r, "audit_list", data)
}

// detailText renders details as "k=v, k=v" in key order.
func detailText(d map[string]string) string {
	if len(d) == 0 {
		return ""
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+d[k])
	}
	return strings.Join(parts, ", ")
}
