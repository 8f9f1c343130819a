package metrics

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"TrendSentinel/internal/model"
)

func TestObserveResult(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveResult(model.TickerResult{
		Symbol: "AAA",
		Status: model.StatusOK,
		Analysis: &model.Analysis{
			Derived: &model.DerivedSeries{
				Cross:          []model.CrossSignal{model.CrossNone, model.CrossBullish, model.CrossBearish, model.CrossBullish},
				VolumeSpike:    []bool{false, true, false, true},
				VolumeBaseline: []null.Float{{}, {}, {}, {}},
			},
		},
	})
	m.ObserveResult(model.TickerResult{Symbol: "BBB", Status: model.StatusNoData})
	m.ObserveResult(model.TickerResult{Symbol: "CCC", Status: model.StatusFailed})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("NO_DATA")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("FAILED")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CrossSignalsTotal.WithLabelValues("BULLISH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CrossSignalsTotal.WithLabelValues("BEARISH")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.VolumeSpikesTotal))
}

func TestCacheHitAndFetch(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.CacheHit()
	m.CacheHit()
	m.ObserveFetch(150 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchDur))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveResult(model.TickerResult{Status: model.StatusOK})
		m.ObserveFetch(time.Second)
		m.CacheHit()
	})
}
