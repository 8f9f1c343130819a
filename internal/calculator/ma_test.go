package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEMA_SeedsFromFirstValue(t *testing.T) {
	values := []float64{42.5, 40, 44, 47.25, 39}
	for _, span := range []int{1, 2, 20, 50, 200} {
		ema, err := ComputeEMA(values, span)
		require.NoError(t, err)
		require.Len(t, ema, len(values))
		assert.Equal(t, values[0], ema[0], "span %d", span)
	}
}

func TestComputeEMA_Recurrence(t *testing.T) {
	values := []float64{10, 12, 11}
	ema, err := ComputeEMA(values, 3)
	require.NoError(t, err)

	// alpha = 2/(3+1) = 0.5
	assert.InDelta(t, 10.0, ema[0], 1e-12)
	assert.InDelta(t, 11.0, ema[1], 1e-12)
	assert.InDelta(t, 11.0, ema[2], 1e-12)
}

func TestComputeEMA_SpanOneTracksInput(t *testing.T) {
	values := []float64{3, 9, 1, 7}
	ema, err := ComputeEMA(values, 1)
	require.NoError(t, err)
	assert.Equal(t, values, ema)
}

func TestComputeEMA_FlatInputStaysFlat(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 10
	}
	for _, span := range []int{20, 50, 200} {
		ema, err := ComputeEMA(values, span)
		require.NoError(t, err)
		for i, v := range ema {
			assert.Equal(t, 10.0, v, "span %d index %d", span, i)
		}
	}
}

func TestComputeEMA_InvalidSpan(t *testing.T) {
	_, err := ComputeEMA([]float64{1, 2}, 0)
	assert.Error(t, err)
	_, err = ComputeEMA([]float64{1, 2}, -5)
	assert.Error(t, err)
}

func TestComputeEMA_Empty(t *testing.T) {
	ema, err := ComputeEMA(nil, 20)
	require.NoError(t, err)
	assert.Empty(t, ema)
}

func TestComputeVolumeBaseline_StrictWindow(t *testing.T) {
	tests := []struct {
		name        string
		length      int
		wantDefined []int
	}{
		{"single bar", 1, nil},
		{"one short of window", 19, nil},
		{"exactly one window", 20, []int{19}},
		{"two past window", 22, []int{19, 20, 21}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vols := make([]int64, tt.length)
			for i := range vols {
				vols[i] = 100
			}
			baseline, err := ComputeVolumeBaseline(vols, 20)
			require.NoError(t, err)
			require.Len(t, baseline, tt.length)

			var defined []int
			for i, b := range baseline {
				if b.Valid {
					defined = append(defined, i)
					assert.InDelta(t, 100.0, b.Float64, 1e-9)
				}
			}
			assert.Equal(t, tt.wantDefined, defined)
		})
	}
}

func TestComputeVolumeBaseline_TrailingMean(t *testing.T) {
	vols := []int64{1, 2, 3, 4, 5, 6}
	baseline, err := ComputeVolumeBaseline(vols, 3)
	require.NoError(t, err)

	assert.False(t, baseline[0].Valid)
	assert.False(t, baseline[1].Valid)
	assert.InDelta(t, 2.0, baseline[2].Float64, 1e-9)
	assert.InDelta(t, 3.0, baseline[3].Float64, 1e-9)
	assert.InDelta(t, 4.0, baseline[4].Float64, 1e-9)
	assert.InDelta(t, 5.0, baseline[5].Float64, 1e-9)
}

func TestComputeVolumeBaseline_InvalidWindow(t *testing.T) {
	_, err := ComputeVolumeBaseline([]int64{1}, 0)
	assert.Error(t, err)
}
