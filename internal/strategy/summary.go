package strategy

import (
	"github.com/pkg/errors"

	"TrendSentinel/internal/model"
)

// Summarize extracts the latest close and the most recent crossover and volume
// spike. An empty series yields ErrEmptySeries before anything else is read.
func Summarize(series model.Series, derived *model.DerivedSeries) (*model.Summary, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	if derived == nil ||
		len(derived.Cross) != len(series) ||
		len(derived.VolumeSpike) != len(series) ||
		len(derived.VolumeBaseline) != len(series) {
		return nil, errors.Wrap(ErrInvalidSeries, "derived columns not aligned with series")
	}

	last := series.Last()
	summary := &model.Summary{
		LatestDate:  last.Date,
		LatestClose: last.Close,
	}

	for i := len(series) - 1; i >= 0; i-- {
		if derived.Cross[i] != model.CrossNone {
			summary.LastSignal = &model.SignalEvent{
				Index:     i,
				Date:      series[i].Date,
				Direction: derived.Cross[i],
				Close:     series[i].Close,
			}
			break
		}
	}

	for i := len(series) - 1; i >= 0; i-- {
		if derived.VolumeSpike[i] {
			summary.LastSpike = &model.SpikeEvent{
				Index:    i,
				Date:     series[i].Date,
				Volume:   series[i].Volume,
				Baseline: derived.VolumeBaseline[i].Float64,
			}
			break
		}
	}

	return summary, nil
}
