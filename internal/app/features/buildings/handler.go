// internal/app/features/buildings/handler.go
package buildings

import (
	"context"

	uierrors "github.com/dalemusser/pghub/internal/app/features/errors"
	buildingstore "github.com/dalemusser/pghub/internal/app/store/buildings"
	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/system/auditlog"
	"github.com/dalemusser/pghub/internal/app/system/directory"
	"github.com/dalemusser/pghub/internal/domain/models"
	"go.uber.org/zap"
)

// Directory is the write side of the building directory. Every change goes
// through it so the cached snapshot is invalidated.
type Directory interface {
	Create(ctx context.Context, in directory.Input) (models.Building, error)
	Update(ctx context.Context, id models.RowID, in directory.Input) (models.Building, error)
	SetStatus(ctx context.Context, id models.RowID, status string) (models.Building, error)
}

// Handler serves the building management pages. Reads go straight to the
// store so inactive buildings are listed too.
type Handler struct {
	Buildings *buildingstore.Store
	Directory Directory
	ErrLog    *uierrors.ErrorLogger
	Audit     *auditlog.Logger
	Log       *zap.Logger
}

func NewHandler(ds datastore.Store, dir Directory, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Buildings: buildingstore.New(ds),
		Directory: dir,
		ErrLog:    errLog,
		Audit:     auditLog,
		Log:       logger,
	}
}
