// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/system/directory"
	"github.com/dalemusser/pghub/internal/app/system/ratelimit"
	"github.com/dalemusser/pghub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	// Store is the table accessor every repository reads through.
	Store datastore.Store

	// MongoClient is set only for the mongo backend.
	MongoClient *mongo.Client

	// Directory is the process-wide building directory cache.
	Directory *directory.Cache

	// Refresher is nil unless directory_refresh_interval > 0.
	Refresher *workers.DirectoryRefresh

	// LoginLimiter throttles sign-in attempts. Its sweeper is stopped in Shutdown.
	LoginLimiter *ratelimit.LoginLimiter
}
