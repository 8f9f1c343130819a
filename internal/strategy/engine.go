package strategy

import (
	"github.com/pkg/errors"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

var (
	// ErrEmptySeries reports that no price data exists for the requested
	// instrument and range. Callers treat it as "no data", not as a failure.
	ErrEmptySeries = errors.New("empty price series")

	// ErrInvalidSeries reports a series that breaks the provider contract
	// (ordering, duplicate dates, negative volume) or misaligned derived data.
	ErrInvalidSeries = errors.New("invalid price series")
)

// Params tunes signal sensitivity.
type Params struct {
	FastSpan        int     // EMA span of the fast line used for crossovers
	SlowSpan        int     // EMA span of the slow line used for crossovers
	LongSpan        int     // EMA span of the long trend line; informational only
	VolumeWindow    int     // bars in the volume baseline
	SpikeMultiplier float64 // volume must exceed baseline times this to spike
}

// DefaultParams returns EMA 20/50/200, a 20-bar volume baseline and a 2x spike multiplier.
func DefaultParams() Params {
	return Params{
		FastSpan:        20,
		SlowSpan:        50,
		LongSpan:        200,
		VolumeWindow:    20,
		SpikeMultiplier: 2.0,
	}
}

// Validate rejects parameter sets the engine cannot compute with.
func (p Params) Validate() error {
	if p.FastSpan <= 0 || p.SlowSpan <= 0 || p.LongSpan <= 0 {
		return errors.Errorf("ema spans must be positive, got %d/%d/%d", p.FastSpan, p.SlowSpan, p.LongSpan)
	}
	if p.VolumeWindow <= 0 {
		return errors.Errorf("volume window must be positive, got %d", p.VolumeWindow)
	}
	if p.SpikeMultiplier <= 0 {
		return errors.Errorf("spike multiplier must be positive, got %g", p.SpikeMultiplier)
	}
	return nil
}

// Analyze runs the full signal pipeline on one series:
// non-empty check, contract check, EMAs, crossovers, volume baseline, spikes, summary.
// It reads no clock and keeps no state, so identical input gives identical output.
func Analyze(series model.Series, p Params) (*model.Analysis, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid params")
	}
	if err := series.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidSeries, err.Error())
	}

	derived, err := Derive(series, p)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(series, derived)
	if err != nil {
		return nil, err
	}
	return &model.Analysis{Derived: derived, Summary: summary}, nil
}

// Derive computes the per-bar indicator columns for a non-empty series.
func Derive(series model.Series, p Params) (*model.DerivedSeries, error) {
	closes := series.Closes()
	volumes := series.Volumes()

	fast, err := calculator.ComputeEMA(closes, p.FastSpan)
	if err != nil {
		return nil, errors.Wrap(err, "fast ema")
	}
	slow, err := calculator.ComputeEMA(closes, p.SlowSpan)
	if err != nil {
		return nil, errors.Wrap(err, "slow ema")
	}
	long, err := calculator.ComputeEMA(closes, p.LongSpan)
	if err != nil {
		return nil, errors.Wrap(err, "long ema")
	}

	cross, err := calculator.DetectCrossings(fast, slow)
	if err != nil {
		return nil, errors.Wrap(err, "crossings")
	}

	baseline, err := calculator.ComputeVolumeBaseline(volumes, p.VolumeWindow)
	if err != nil {
		return nil, errors.Wrap(err, "volume baseline")
	}
	spikes, err := calculator.DetectVolumeSpikes(volumes, baseline, p.SpikeMultiplier)
	if err != nil {
		return nil, errors.Wrap(err, "volume spikes")
	}

	return &model.DerivedSeries{
		EMAFast:        fast,
		EMASlow:        slow,
		EMALong:        long,
		VolumeBaseline: baseline,
		Cross:          cross,
		VolumeSpike:    spikes,
	}, nil
}
