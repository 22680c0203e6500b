package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	buildingstore "github.com/dalemusser/pghub/internal/app/store/buildings"
	"github.com/dalemusser/pghub/internal/app/store/restdb"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func TestConnectDB_RESTBackend(t *testing.T) {
	cfg := validRESTConfig()
	cfg.DirectoryRefreshInterval = time.Minute

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	defer deps.LoginLimiter.Stop()

	if _, ok := deps.Store.(*restdb.Client); !ok {
		t.Errorf("expected a restdb client, got %T", deps.Store)
	}
	if deps.MongoClient != nil {
		t.Error("rest backend should not open a mongo client")
	}
	if deps.Directory == nil || deps.Refresher == nil || deps.LoginLimiter == nil {
		t.Errorf("missing deps: %+v", deps)
	}

	// No indexes to build for the REST backend.
	if err := EnsureSchema(context.Background(), nil, cfg, deps, zap.NewNop()); err != nil {
		t.Errorf("EnsureSchema: %v", err)
	}
}

func TestConnectDB_NoRefresherByDefault(t *testing.T) {
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{Env: "dev"}, validRESTConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	defer deps.LoginLimiter.Stop()

	if deps.Refresher != nil {
		t.Error("refresh worker should be off when the interval is zero")
	}
}

func TestStartup_WarmsDirectory(t *testing.T) {
	t.Cleanup(timeouts.Reset)
	fx := testutil.NewFixtures(t)
	fx.Building("A1", "Sunrise", 10, 7)

	cfg := validRESTConfig()
	deps := DBDeps{Store: fx.Store}
	deps.Directory = newDirectory(fx.Store, cfg, zap.NewNop())

	cfg.ShortTimeout = 3 * time.Second
	if err := Startup(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	if got := fx.Store.Calls("select", buildingstore.Table); got != 1 {
		t.Errorf("expected one warm-up select, got %d", got)
	}
	if timeouts.Short() != 3*time.Second {
		t.Errorf("timeouts not configured: short=%v", timeouts.Short())
	}

	// Warm: a page load right after startup does not hit the store.
	deps.Directory.All(context.Background(), false)
	if got := fx.Store.Calls("select", buildingstore.Table); got != 1 {
		t.Errorf("expected the warm snapshot to be reused, got %d selects", got)
	}
}

func TestStartup_WarmUpFailureIsNotFatal(t *testing.T) {
	t.Cleanup(timeouts.Reset)
	fx := testutil.NewFixtures(t)
	fx.Store.FailTable(buildingstore.Table, errors.New("connection refused"))

	cfg := validRESTConfig()
	deps := DBDeps{Store: fx.Store, Directory: newDirectory(fx.Store, cfg, zap.NewNop())}

	if err := Startup(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("Startup should tolerate a cold directory: %v", err)
	}
	if !deps.Directory.Unavailable() {
		t.Error("directory should report unavailable after a failed warm-up")
	}
}
