package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"TrendSentinel/internal/model"
)

// Metrics holds the Prometheus collectors for ticker scans.
type Metrics struct {
	ScansTotal        *prometheus.CounterVec // labels: outcome
	CrossSignalsTotal *prometheus.CounterVec // labels: direction
	VolumeSpikesTotal prometheus.Counter
	FetchDur          prometheus.Histogram
	CacheHitsTotal    prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// Pass prometheus.NewRegistry() in tests to keep runs isolated.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_scans_total",
			Help: "Ticker scans by outcome",
		}, []string{"outcome"}),
		CrossSignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_cross_signals_total",
			Help: "EMA crossover events found in scanned windows",
		}, []string{"direction"}),
		VolumeSpikesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_volume_spikes_total",
			Help: "Volume spikes found in scanned windows",
		}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trendsentinel_fetch_duration_seconds",
			Help:    "Daily bar fetch latency per ticker",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_cache_hits_total",
			Help: "Daily bar requests served from the local cache",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.ScansTotal,
		m.CrossSignalsTotal,
		m.VolumeSpikesTotal,
		m.FetchDur,
		m.CacheHitsTotal,
	)
	return m
}

// ObserveResult records the outcome of one ticker scan.
func (m *Metrics) ObserveResult(res model.TickerResult) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(string(res.Status)).Inc()
	if res.Analysis == nil {
		return
	}
	d := res.Analysis.Derived
	for _, c := range d.Cross {
		if c != model.CrossNone {
			m.CrossSignalsTotal.WithLabelValues(c.String()).Inc()
		}
	}
	for _, s := range d.VolumeSpike {
		if s {
			m.VolumeSpikesTotal.Inc()
		}
	}
}

// ObserveFetch records the latency of one provider fetch.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDur.Observe(d.Seconds())
}

// CacheHit counts a request answered from the bar cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server stopped", zap.Error(err))
	}
}
