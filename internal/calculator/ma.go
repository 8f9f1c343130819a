package calculator

import (
	"errors"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/guregu/null/v6"
)

// ComputeEMA returns the exponential moving average of values at every index.
// The first value seeds the average and no warm-up bars are dropped:
// ema[0] = values[0], ema[i] = a*values[i] + (1-a)*ema[i-1] with a = 2/(span+1).
func ComputeEMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	ema := make([]float64, len(values))
	if len(values) == 0 {
		return ema, nil
	}
	alpha := 2.0 / float64(span+1)
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		// Same recurrence in increment form; keeps a flat input exactly flat.
		ema[i] = ema[i-1] + alpha*(values[i]-ema[i-1])
	}
	return ema, nil
}

// ComputeVolumeBaseline returns the trailing simple moving average of volume
// over exactly window samples. Index i is defined only once i >= window-1;
// earlier indices stay invalid rather than averaging a partial window.
func ComputeVolumeBaseline(volumes []int64, window int) ([]null.Float, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	baseline := make([]null.Float, len(volumes))
	if len(volumes) < window {
		return baseline, nil
	}

	vols := make([]float64, len(volumes))
	for i, v := range volumes {
		vols[i] = float64(v)
	}
	sma := trend.NewSmaWithPeriod[float64](window)
	avgs := helper.ChanToSlice(sma.Compute(helper.SliceToChan(vols)))

	// The first average covers volumes[0..window-1].
	offset := window - 1
	for i, avg := range avgs {
		if offset+i >= len(baseline) {
			break
		}
		baseline[offset+i] = null.FloatFrom(avg)
	}
	return baseline, nil
}
