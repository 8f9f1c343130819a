package collector

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/store"
)

// CachingFetcher serves repeated requests for the same window from a BarStore
// while the last fetch of that window is younger than TTL.
type CachingFetcher struct {
	Next    Fetcher
	Store   store.BarStore
	TTL     time.Duration
	Now     func() time.Time
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// NewCachingFetcher wraps next with the given store.
func NewCachingFetcher(next Fetcher, st store.BarStore, ttl time.Duration, m *metrics.Metrics, log *zap.Logger) *CachingFetcher {
	return &CachingFetcher{Next: next, Store: st, TTL: ttl, Now: time.Now, Metrics: m, Log: log}
}

func (c *CachingFetcher) Name() string { return c.Next.Name() + "+cache" }

func (c *CachingFetcher) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) (model.Series, error) {
	now := c.Now()

	rec, err := c.Store.LastFetch(ctx, symbol, from, to)
	if err != nil {
		// A broken cache must not block a scan.
		c.Log.Warn("bar cache lookup failed", zap.String("symbol", symbol), zap.Error(err))
	} else if rec != nil && now.Sub(rec.FetchedAt) < c.TTL {
		bars, err := c.Store.LoadBars(ctx, symbol, from, to)
		if err == nil {
			c.Metrics.CacheHit()
			c.Log.Debug("bar cache hit", zap.String("symbol", symbol), zap.Int("bars", len(bars)))
			return bars, nil
		}
		c.Log.Warn("bar cache load failed", zap.String("symbol", symbol), zap.Error(err))
	}

	bars, err := c.Next.FetchDailyBars(ctx, symbol, from, to)
	if err != nil {
		return nil, errors.Wrapf(err, "%s fetch %s", c.Next.Name(), symbol)
	}
	if err := c.Store.SaveFetch(ctx, symbol, from, to, bars, now); err != nil {
		c.Log.Warn("bar cache save failed", zap.String("symbol", symbol), zap.Error(err))
	}
	return bars, nil
}
