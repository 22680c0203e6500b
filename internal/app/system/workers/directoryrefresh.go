// internal/app/system/workers/directoryrefresh.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/pghub/internal/domain/models"
	"go.uber.org/zap"
)

// Refresher is what DirectoryRefresh keeps warm.
type Refresher interface {
	Load(ctx context.Context, forceRefresh bool) ([]models.Building, error)
}

// DirectoryRefresh is a background worker that force-refreshes the building
// directory on a fixed interval so page loads rarely find it Cold.
type DirectoryRefresh struct {
	dir      Refresher
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDirectoryRefresh creates the worker.
//
// Parameters:
//   - dir: the directory cache
//   - logger: zap logger for logging
//   - interval: how often to refresh (e.g., 4 minutes, under the cache TTL)
//   - timeout: deadline for each refresh call
func NewDirectoryRefresh(dir Refresher, logger *zap.Logger, interval, timeout time.Duration) *DirectoryRefresh {
	return &DirectoryRefresh{
		dir:      dir,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop.
func (w *DirectoryRefresh) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("directory refresh worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *DirectoryRefresh) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("directory refresh worker stopped")
	})
}

func (w *DirectoryRefresh) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *DirectoryRefresh) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	list, err := w.dir.Load(ctx, true)
	if err != nil {
		w.log.Warn("scheduled directory refresh failed", zap.Error(err))
		return
	}
	w.log.Debug("scheduled directory refresh", zap.Int("buildings", len(list)))
}
