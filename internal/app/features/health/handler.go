// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// DirectoryState is what the health check needs from the building directory.
type DirectoryState interface {
	Unavailable() bool
	FetchedAt() time.Time
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Store     datastore.Store
	Directory DirectoryState
	Log       *zap.Logger
}

// NewHandler constructs a health Handler. dir may be nil.
func NewHandler(store datastore.Store, dir DirectoryState, logger *zap.Logger) *Handler {
	return &Handler{
		Store:     store,
		Directory: dir,
		Log:       logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status    string           `json:"status"`
	Database  string           `json:"database"`
	Message   string           `json:"message,omitempty"`
	Error     string           `json:"error,omitempty"`
	Directory *directoryStatus `json:"directory,omitempty"`
}

type directoryStatus struct {
	Available bool   `json:"available"`
	FetchedAt string `json:"fetched_at,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "directory":{"available":true} }
//
// On store failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
//
// A failed directory refresh is reported but does not fail the check; pages
// still render with empty building lists.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if h.Directory != nil {
		ds := &directoryStatus{Available: !h.Directory.Unavailable()}
		if at := h.Directory.FetchedAt(); !at.IsZero() {
			ds.FetchedAt = at.UTC().Format(time.RFC3339)
		}
		resp.Directory = ds
	}

	if err := h.Store.Ping(ctx); err != nil {
		h.Log.Error("health-check: store ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
