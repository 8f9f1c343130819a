package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// CrossSignal marks a fast/slow EMA crossover at a given bar.
type CrossSignal int8

const (
	CrossNone    CrossSignal = 0
	CrossBullish CrossSignal = 1
	CrossBearish CrossSignal = -1
)

func (c CrossSignal) String() string {
	switch c {
	case CrossBullish:
		return "BULLISH"
	case CrossBearish:
		return "BEARISH"
	default:
		return "NONE"
	}
}

// DerivedSeries holds per-bar indicator values, index-aligned with the Series
// they were computed from.
type DerivedSeries struct {
	EMAFast        []float64
	EMASlow        []float64
	EMALong        []float64
	VolumeBaseline []null.Float // invalid until the window has filled
	Cross          []CrossSignal
	VolumeSpike    []bool
}

// Len returns the number of bars covered.
func (d *DerivedSeries) Len() int { return len(d.EMAFast) }

// SignalEvent is a single crossover occurrence.
type SignalEvent struct {
	Index     int
	Date      time.Time
	Direction CrossSignal
	Close     float64
}

// SpikeEvent is a single abnormal-volume occurrence.
type SpikeEvent struct {
	Index    int
	Date     time.Time
	Volume   int64
	Baseline float64
}

// Summary carries the values a report needs about one analysed series.
type Summary struct {
	LatestDate  time.Time
	LatestClose float64
	LastSignal  *SignalEvent // nil when no crossover exists
	LastSpike   *SpikeEvent  // nil when no spike exists
}

// Analysis is the engine output for one series.
type Analysis struct {
	Derived *DerivedSeries
	Summary *Summary
}
