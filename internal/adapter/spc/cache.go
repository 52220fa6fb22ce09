package spc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cirruswx/pointcast/internal/domain"
	"github.com/cirruswx/pointcast/internal/observability"
)

// Fetcher retrieves outlook and mesoscale feeds. Implemented by Client.
type Fetcher interface {
	Outlooks(ctx context.Context) ([]*domain.OutlookDocument, error)
	Mesoscale(ctx context.Context) (*domain.MesoscaleFeed, error)
}

// Publisher receives a summary after each successful refresh. Optional.
type Publisher interface {
	PublishRefresh(ctx context.Context, summary RefreshSummary) error
}

// RefreshSummary describes one completed refresh cycle.
type RefreshSummary struct {
	FetchedAt      time.Time `json:"fetched_at"`
	OutlookDays    int       `json:"outlook_days"`
	MesoscaleCount int       `json:"mesoscale_count"`
}

// Snapshot is one immutable fetch of SPC data. Callers must not mutate it.
type Snapshot struct {
	Outlooks  []*domain.OutlookDocument `json:"outlooks"`
	Mesoscale *domain.MesoscaleFeed     `json:"mesoscale"`
	FetchedAt time.Time                 `json:"fetched_at"`
}

// Cache holds the latest SPC snapshot and refreshes it in the background.
// SPC data is point-independent, so one snapshot serves every request.
type Cache struct {
	fetcher   Fetcher
	path      string
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	publisher Publisher

	mu   sync.RWMutex
	snap *Snapshot
}

// NewCache creates a Cache. publisher may be nil. If path names an existing
// snapshot file, it is loaded so the service can serve risk data before the
// first refresh completes.
func NewCache(fetcher Fetcher, path string, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics, publisher Publisher) *Cache {
	c := &Cache{
		fetcher:   fetcher,
		path:      path,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
		publisher: publisher,
	}
	if snap, err := loadSnapshot(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("outlook cache file unreadable, starting cold", "path", path, "error", err)
		}
	} else {
		c.snap = snap
		logger.Info("outlook cache restored", "path", path, "fetched_at", snap.FetchedAt)
	}
	return c
}

// Snapshot returns the latest snapshot, or false if none has been loaded yet.
func (c *Cache) Snapshot() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return Snapshot{}, false
	}
	return *c.snap, true
}

// CheckReadiness returns nil once a snapshot is available.
func (c *Cache) CheckReadiness(_ context.Context) error {
	if _, ok := c.Snapshot(); !ok {
		return errors.New("no outlook snapshot loaded yet")
	}
	return nil
}

// Run refreshes immediately, then on the configured interval until the
// context is cancelled. Failed refreshes retry with exponential backoff and
// keep serving the previous snapshot.
func (c *Cache) Run(ctx context.Context) error {
	c.logger.Info("outlook cache started", "interval", c.interval)

	backoff := 200 * time.Millisecond
	maxBackoff := 30 * time.Second

	for {
		if err := c.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("outlook refresh failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = 200 * time.Millisecond

		if !sleepWithContext(ctx, c.interval) {
			c.logger.Info("outlook cache stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// Refresh fetches a new snapshot, swaps it in, persists it, and notifies the
// publisher. Mesoscale failures degrade to an empty feed rather than failing
// the whole cycle.
func (c *Cache) Refresh(ctx context.Context) error {
	outlooks, err := c.fetcher.Outlooks(ctx)
	if err != nil {
		c.metrics.OutlookRefreshErrors.Inc()
		return fmt.Errorf("fetch outlooks: %w", err)
	}

	mesoscale, err := c.fetcher.Mesoscale(ctx)
	if err != nil {
		c.logger.Warn("mesoscale fetch failed, keeping outlooks", "error", err)
		mesoscale = nil
	}

	snap := &Snapshot{
		Outlooks:  outlooks,
		Mesoscale: mesoscale,
		FetchedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	c.metrics.OutlookRefreshes.Inc()
	c.metrics.OutlookAgeSeconds.Set(0)

	if err := saveSnapshot(c.path, snap); err != nil {
		c.logger.Warn("outlook cache persist failed", "path", c.path, "error", err)
	}

	if c.publisher != nil {
		summary := RefreshSummary{
			FetchedAt:      snap.FetchedAt,
			OutlookDays:    countDays(snap.Outlooks),
			MesoscaleCount: countDiscussions(snap.Mesoscale),
		}
		if err := c.publisher.PublishRefresh(ctx, summary); err != nil {
			c.logger.Warn("refresh publish failed", "error", err)
		}
	}

	c.logger.Info("outlook snapshot refreshed",
		"outlook_days", countDays(snap.Outlooks),
		"mesoscale_discussions", countDiscussions(snap.Mesoscale),
	)
	return nil
}

// ObserveAge updates the snapshot age gauge. Called by the request path so
// the gauge stays current without a dedicated ticker.
func (c *Cache) ObserveAge() {
	if snap, ok := c.Snapshot(); ok {
		c.metrics.OutlookAgeSeconds.Set(time.Since(snap.FetchedAt).Seconds())
	}
}

func countDays(outlooks []*domain.OutlookDocument) int {
	n := 0
	for _, doc := range outlooks {
		if doc != nil {
			n++
		}
	}
	return n
}

func countDiscussions(feed *domain.MesoscaleFeed) int {
	if feed == nil {
		return 0
	}
	return len(feed.Features)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// saveSnapshot writes atomically via a temp file so a crash mid-write never
// leaves a truncated cache behind.
func saveSnapshot(path string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
