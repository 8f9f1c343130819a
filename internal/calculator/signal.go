package calculator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"TrendSentinel/internal/model"
)

// DetectCrossings marks where fast crosses slow. Index 0 never carries a signal.
// Bullish: fast moves from <= slow to > slow. Bearish: fast moves from >= slow
// to < slow. The two inputs must be index-aligned.
func DetectCrossings(fast, slow []float64) ([]model.CrossSignal, error) {
	if len(fast) != len(slow) {
		return nil, fmt.Errorf("misaligned series: fast has %d values, slow has %d", len(fast), len(slow))
	}
	signals := make([]model.CrossSignal, len(fast))
	for i := 1; i < len(fast); i++ {
		switch {
		case fast[i] > slow[i] && fast[i-1] <= slow[i-1]:
			signals[i] = model.CrossBullish
		case fast[i] < slow[i] && fast[i-1] >= slow[i-1]:
			signals[i] = model.CrossBearish
		}
	}
	return signals, nil
}

// DetectVolumeSpikes flags bars whose volume is strictly above multiplier times
// the baseline. Bars without a baseline are never spikes.
func DetectVolumeSpikes(volumes []int64, baseline []null.Float, multiplier float64) ([]bool, error) {
	if len(volumes) != len(baseline) {
		return nil, fmt.Errorf("misaligned series: %d volumes, %d baseline values", len(volumes), len(baseline))
	}
	spikes := make([]bool, len(volumes))
	for i, v := range volumes {
		if !baseline[i].Valid {
			continue
		}
		spikes[i] = float64(v) > multiplier*baseline[i].Float64
	}
	return spikes, nil
}
