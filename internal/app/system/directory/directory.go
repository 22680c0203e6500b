// internal/app/system/directory/directory.go
//
// Package directory keeps an in-memory, time-bounded copy of the active
// buildings and answers the lookups every page needs (codes, names, stats)
// without a round trip to the data store.
//
// The cache is Cold when it holds no snapshot or the snapshot is older than
// the TTL, and Warm otherwise. Reads fail open: when a refresh fails the
// caller gets an empty list (or the previous snapshot when ServeStale is
// set) and Unavailable reports true until the next successful refresh.
// Writes go through the repository and always invalidate the snapshot.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/system/dashstats"
	"github.com/dalemusser/pghub/internal/app/system/inputval"
	"github.com/dalemusser/pghub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a snapshot stays fresh.
const DefaultTTL = 300 * time.Second

// ErrInvalidCode is returned by Create and Update for a malformed code.
var ErrInvalidCode = errors.New("building code must be one uppercase letter followed by digits")

// Repository is the subset of the building store the cache needs.
type Repository interface {
	ListActive(ctx context.Context) ([]models.Building, error)
	Create(ctx context.Context, b models.Building) (models.Building, error)
	Update(ctx context.Context, id models.RowID, fields datastore.Row) (models.Building, error)
}

// Options tunes a Cache. Zero values pick the defaults.
type Options struct {
	TTL        time.Duration
	ServeStale bool
	Now        func() time.Time
}

// Cache is the building directory.
type Cache struct {
	repo       Repository
	log        *zap.Logger
	ttl        time.Duration
	serveStale bool
	now        func() time.Time

	flight singleflight.Group

	mu          sync.RWMutex
	snapshot    []models.Building
	fetchedAt   time.Time
	unavailable bool
	generation  uint64 // bumped by Invalidate
}

// New builds an empty (Cold) cache over repo.
func New(repo Repository, logger *zap.Logger, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		repo:       repo,
		log:        logger,
		ttl:        opts.TTL,
		serveStale: opts.ServeStale,
		now:        opts.Now,
	}
}

// Stats holds building counters and the derived occupancy rate.
type Stats struct {
	Rooms         int
	Capacity      int
	Occupancy     int
	OccupancyRate float64
}

// All returns the active buildings sorted by code. Failures are logged and
// yield an empty list (or the stale snapshot when ServeStale is set).
func (c *Cache) All(ctx context.Context, forceRefresh bool) []models.Building {
	out, _ := c.Load(ctx, forceRefresh)
	return out
}

// Load is All with the refresh error returned. When ServeStale is set and a
// previous snapshot exists, that snapshot is returned alongside the error.
//
// The fetch runs outside the lock, so warm readers never wait on the data
// store. Concurrent callers with the same forceRefresh share one fetch.
func (c *Cache) Load(ctx context.Context, forceRefresh bool) ([]models.Building, error) {
	if !forceRefresh {
		if out, ok := c.warmSnapshot(); ok {
			return out, nil
		}
	}

	key := "cold"
	if forceRefresh {
		key = "forced"
	}
	v, err, _ := c.flight.Do(key, func() (any, error) {
		return c.refresh(ctx, forceRefresh)
	})
	list, _ := v.([]models.Building)
	return clone(list), err
}

// refresh fetches the active buildings and installs them as the snapshot
// unless Invalidate ran while the fetch was in flight.
func (c *Cache) refresh(ctx context.Context, forceRefresh bool) ([]models.Building, error) {
	if !forceRefresh {
		// A previous flight may have finished after our warm check.
		if out, ok := c.warmSnapshot(); ok {
			return out, nil
		}
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	list, err := c.repo.ListActive(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.unavailable = true
		c.log.Error("building directory refresh failed",
			zap.Bool("forced", forceRefresh),
			zap.Bool("serve_stale", c.serveStale),
			zap.Error(err))
		err = fmt.Errorf("load building directory: %w", err)
		if c.serveStale && c.snapshot != nil {
			return clone(c.snapshot), err
		}
		return []models.Building{}, err
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	if list == nil {
		list = []models.Building{}
	}
	c.unavailable = false
	if c.generation != gen {
		c.log.Debug("building directory invalidated during refresh; result not cached")
		return list, nil
	}
	c.snapshot = list
	c.fetchedAt = c.now()
	c.log.Debug("building directory refreshed", zap.Int("count", len(list)))
	return list, nil
}

func (c *Cache) warmSnapshot() ([]models.Building, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.warmLocked() {
		return nil, false
	}
	return clone(c.snapshot), true
}

// Unavailable reports whether the most recent refresh failed.
func (c *Cache) Unavailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unavailable
}

// ServeStale reports the stale-serving policy.
func (c *Cache) ServeStale() bool { return c.serveStale }

// FetchedAt returns when the current snapshot was loaded; zero when Cold
// after an invalidation.
func (c *Cache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// Invalidate drops the snapshot so the next read refreshes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.fetchedAt = time.Time{}
	c.generation++
	c.mu.Unlock()
}

// Codes returns building codes in ascending order.
func (c *Cache) Codes(ctx context.Context) []string {
	list := c.All(ctx, false)
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.Code
	}
	return out
}

// Names maps code to name. Duplicate codes keep the last name seen.
func (c *Cache) Names(ctx context.Context) map[string]string {
	list := c.All(ctx, false)
	out := make(map[string]string, len(list))
	for _, b := range list {
		out[b.Code] = b.Name
	}
	return out
}

// ByCode finds an active building by exact code.
func (c *Cache) ByCode(ctx context.Context, code string) (models.Building, bool) {
	for _, b := range c.All(ctx, false) {
		if b.Code == code {
			return b, true
		}
	}
	return models.Building{}, false
}

// Exists reports whether code names an active building.
func (c *Cache) Exists(ctx context.Context, code string) bool {
	_, ok := c.ByCode(ctx, code)
	return ok
}

// Stats returns the stored counters for code, or their sum across the
// directory when code is empty.
func (c *Cache) Stats(ctx context.Context, code string) (Stats, bool) {
	if code != "" {
		b, ok := c.ByCode(ctx, code)
		if !ok {
			return Stats{}, false
		}
		return newStats(b.TotalRooms, b.TotalCapacity, b.CurrentOccupancy), true
	}

	var rooms, capacity, occ int
	for _, b := range c.All(ctx, false) {
		rooms += b.TotalRooms
		capacity += b.TotalCapacity
		occ += b.CurrentOccupancy
	}
	return newStats(rooms, capacity, occ), true
}

// IsValidCode checks format only, not existence.
func IsValidCode(code string) bool {
	return inputval.IsValidBuildingCode(code)
}

func (c *Cache) warmLocked() bool {
	return !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl
}

func newStats(rooms, capacity, occ int) Stats {
	return Stats{
		Rooms:         rooms,
		Capacity:      capacity,
		Occupancy:     occ,
		OccupancyRate: dashstats.OccupancyRate(occ, capacity),
	}
}

func clone(in []models.Building) []models.Building {
	out := make([]models.Building, len(in))
	copy(out, in)
	return out
}
