// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	buildingstore "github.com/dalemusser/pghub/internal/app/store/buildings"
	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/store/mongostore"
	"github.com/dalemusser/pghub/internal/app/store/restdb"
	"github.com/dalemusser/pghub/internal/app/system/directory"
	"github.com/dalemusser/pghub/internal/app/system/indexes"
	"github.com/dalemusser/pghub/internal/app/system/ratelimit"
	"github.com/dalemusser/pghub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB builds the data store for the configured backend, then the
// building directory over it. No remote call is made for the REST backend;
// the first page load (or the Startup warm-up) is the first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	switch appCfg.DataBackend {
	case backendMongo:
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(appCfg.MongoURI).
			SetConnectTimeout(appCfg.ShortTimeout).
			SetServerSelectionTimeout(appCfg.ShortTimeout))
		if err != nil {
			return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
		}
		deps.MongoClient = client
		deps.Store = mongostore.New(client.Database(appCfg.MongoDatabase), logger)
		logger.Info("data backend: mongo", zap.String("database", appCfg.MongoDatabase))

	default:
		client, err := restdb.New(restdb.Config{
			BaseURL:        appCfg.RestURL,
			APIKey:         appCfg.RestAPIKey,
			ConnectTimeout: appCfg.RestConnectTimeout,
			Timeout:        appCfg.RestTimeout,
			PingTable:      buildingstore.Table,
		}, logger)
		if err != nil {
			return DBDeps{}, err
		}
		deps.Store = client
		logger.Info("data backend: rest", zap.String("url", appCfg.RestURL))
	}

	deps.Directory = newDirectory(deps.Store, appCfg, logger)

	deps.LoginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)

	if appCfg.DirectoryRefreshInterval > 0 {
		deps.Refresher = workers.NewDirectoryRefresh(deps.Directory, logger, appCfg.DirectoryRefreshInterval, appCfg.MediumTimeout)
	}

	return deps, nil
}

func newDirectory(ds datastore.Store, appCfg AppConfig, logger *zap.Logger) *directory.Cache {
	return directory.New(buildingstore.New(ds), logger, directory.Options{
		TTL:        appCfg.DirectoryTTL,
		ServeStale: appCfg.DirectoryServeStale,
	})
}

// EnsureSchema creates the MongoDB indexes the repositories rely on. The
// REST backend's schema is owned by the hosted database, so there is
// nothing to do for it.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return indexes.EnsureAll(ctx, deps.MongoClient.Database(appCfg.MongoDatabase), logger)
}
