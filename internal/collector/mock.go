package collector

import (
	"context"
	"sync/atomic"
	"time"

	"TrendSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Data  map[string]model.Series // per symbol; a present but empty entry means "no data"
	Err   map[string]error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many fetches were made.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) (model.Series, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Err[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Data[symbol]; ok {
		return normalize(append(model.Series(nil), bars...), from, to), nil
	}
	return generateMockBars(m.Price, from, to), nil
}

// generateMockBars builds weekday bars with a gentle upward drift and flat volume.
func generateMockBars(basePrice float64, from, to time.Time) model.Series {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars model.Series
	i := 0
	for d := model.DateOf(from); !d.After(model.DateOf(to)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.PricePoint{
			Date:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1_000_000,
		})
		i++
	}
	return bars
}
