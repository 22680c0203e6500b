// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/pghub/internal/app/resources"
	"github.com/dalemusser/pghub/internal/app/system/timeouts"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// The directory warm-up is best effort: a failure is logged and the first
// page load retries, since reads fail open anyway.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.PingTimeout,
		Short:  appCfg.ShortTimeout,
		Medium: appCfg.MediumTimeout,
	})
	viewdata.SetSiteName(appCfg.SiteName)
	resources.LoadSharedTemplates()

	if deps.Directory != nil {
		wctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()
		if buildings, err := deps.Directory.Load(wctx, true); err != nil {
			logger.Warn("building directory warm-up failed", zap.Error(err))
		} else {
			logger.Info("building directory warmed", zap.Int("buildings", len(buildings)))
		}
	}

	if deps.Refresher != nil {
		deps.Refresher.Start()
	}
	return nil
}
