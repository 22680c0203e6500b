// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/pghub/internal/app/features/errors"
	"github.com/dalemusser/pghub/internal/app/store/audit"
	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"go.uber.org/zap"
)

type Handler struct {
	Events *audit.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an Audit Log feature handler bound to the given
// data store and logger.
func NewHandler(ds datastore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: audit.New(ds),
		Log:    logger,
		ErrLog: errLog,
	}
}
