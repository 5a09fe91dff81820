package dataset

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/bloom"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// DefaultMinRefreshInterval bounds how often TryRefresh reloads the dataset.
const DefaultMinRefreshInterval = time.Minute

// Snapshot is an immutable, fully loaded version of the dataset.
type Snapshot struct {
	Rows     []*linkopp.Row
	Pages    *bloom.PageIndex
	LoadedAt time.Time
}

func newSnapshot(rows []*linkopp.Row, loadedAt time.Time) *Snapshot {
	pages := make([]string, 0, len(rows))
	for _, row := range rows {
		pages = append(pages, row.SourcePageURL)
	}
	return &Snapshot{Rows: rows, Pages: bloom.NewPageIndex(pages), LoadedAt: loadedAt}
}

// Cache owns the in-memory dataset. Readers always see a complete snapshot;
// a failed reload keeps the previous one.
type Cache struct {
	source linkopp.RowSource
	logger *slog.Logger
	now    func() time.Time

	mu   sync.RWMutex
	snap *Snapshot

	group   singleflight.Group
	limiter *rate.Limiter
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithMinRefreshInterval sets the minimum interval between reloads
// triggered through TryRefresh.
func WithMinRefreshInterval(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger used by background refreshes.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithClock overrides the clock used to stamp snapshots.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a Cache over source. Nothing is loaded until first use.
func NewCache(source linkopp.RowSource, opts ...CacheOption) *Cache {
	c := &Cache{
		source:  source,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		limiter: rate.NewLimiter(rate.Every(DefaultMinRefreshInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current snapshot, loading the dataset on first use.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return c.load(ctx)
}

// Rows returns the rows of the current snapshot.
func (c *Cache) Rows(ctx context.Context) ([]*linkopp.Row, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Rows, nil
}

// Refresh reloads the dataset. Concurrent calls share a single load.
func (c *Cache) Refresh(ctx context.Context) error {
	_, err := c.load(ctx)
	return err
}

// TryRefresh reloads the dataset unless a reload happened too recently.
// It reports whether a reload was attempted.
func (c *Cache) TryRefresh(ctx context.Context) (bool, error) {
	if !c.limiter.Allow() {
		return false, nil
	}
	return true, c.Refresh(ctx)
}

// Run refreshes the dataset every interval until ctx is done.
// Failures are logged and the previous snapshot stays in place.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error("dataset refresh failed", "err", err)
			}
		}
	}
}

func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	// The shared load outlives any single caller; each caller still stops
	// waiting when its own ctx is done.
	ch := c.group.DoChan("load", func() (any, error) {
		rows, err := c.source.LoadRows(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		snap := newSnapshot(rows, c.now())
		c.mu.Lock()
		c.snap = snap
		c.mu.Unlock()

		c.logger.Info("dataset loaded", "rows", len(rows))
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}
