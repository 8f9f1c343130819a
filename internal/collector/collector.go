package collector

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/strategy"
)

// Collector fetches a trailing window of daily bars per ticker and runs the
// signal engine on it. Each ticker is isolated: its failure is reported in its
// own result and never stops the others.
type Collector struct {
	Fetcher      Fetcher
	Params       strategy.Params
	LookbackDays int
	FetchTimeout time.Duration
	Concurrency  int
	Now          func() time.Time
	Metrics      *metrics.Metrics
	Log          *zap.Logger
}

// NewCollector creates a new Collector reading the wall clock for its window.
func NewCollector(fetcher Fetcher, params strategy.Params, lookbackDays int, m *metrics.Metrics, log *zap.Logger) *Collector {
	return &Collector{
		Fetcher:      fetcher,
		Params:       params,
		LookbackDays: lookbackDays,
		FetchTimeout: 30 * time.Second,
		Concurrency:  4,
		Now:          time.Now,
		Metrics:      m,
		Log:          log,
	}
}

// Range resolves the trailing calendar window ending on now's date.
func (c *Collector) Range(now time.Time) (from, to time.Time) {
	to = model.DateOf(now)
	return to.AddDate(0, 0, -c.LookbackDays), to
}

// Collect fetches and analyses one ticker.
func (c *Collector) Collect(ctx context.Context, symbol string) model.TickerResult {
	now := c.Now()
	from, to := c.Range(now)
	res := model.TickerResult{Symbol: symbol, From: from, To: to, ScannedAt: now}

	fetchCtx := ctx
	if c.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	series, err := c.Fetcher.FetchDailyBars(fetchCtx, symbol, from, to)
	c.Metrics.ObserveFetch(time.Since(start))
	if err != nil {
		res.Status = model.StatusFailed
		res.Err = errors.Wrap(err, "fetch daily bars")
		return c.finish(res)
	}
	res.Series = series

	analysis, err := strategy.Analyze(series, c.Params)
	switch {
	case errors.Is(err, strategy.ErrEmptySeries):
		res.Status = model.StatusNoData
		res.Err = err
	case err != nil:
		res.Status = model.StatusFailed
		res.Err = errors.Wrap(err, "analyze")
	default:
		res.Status = model.StatusOK
		res.Analysis = analysis
	}
	return c.finish(res)
}

func (c *Collector) finish(res model.TickerResult) model.TickerResult {
	c.Metrics.ObserveResult(res)
	fields := []zap.Field{zap.String("symbol", res.Symbol), zap.String("status", string(res.Status))}
	switch res.Status {
	case model.StatusOK:
		fields = append(fields, zap.Int("bars", len(res.Series)))
		if s := res.Analysis.Summary.LastSignal; s != nil {
			fields = append(fields, zap.Stringer("last_signal", s.Direction), zap.Time("signal_date", s.Date))
		}
		c.Log.Info("ticker analysed", fields...)
	case model.StatusNoData:
		c.Log.Warn("no data for ticker", fields...)
	default:
		c.Log.Error("ticker scan failed", append(fields, zap.Error(res.Err))...)
	}
	return res
}

// Scan analyses every symbol concurrently and returns results in input order.
func (c *Collector) Scan(ctx context.Context, symbols []string) []model.TickerResult {
	results := make([]model.TickerResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i, sym := range symbols {
		g.Go(func() error {
			results[i] = c.Collect(gctx, sym)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
