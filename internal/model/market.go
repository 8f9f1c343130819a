package model

import (
	"fmt"
	"time"
)

// PricePoint represents a single daily bar.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is a chronologically ordered run of daily bars. An empty Series is a
// valid "no data" result, not an error.
type Series []PricePoint

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Volumes returns the traded volumes in series order.
func (s Series) Volumes() []int64 {
	vols := make([]int64, len(s))
	for i, p := range s {
		vols[i] = p.Volume
	}
	return vols
}

// Last returns the final bar. It panics on an empty series.
func (s Series) Last() PricePoint {
	return s[len(s)-1]
}

// Validate checks the ordering and volume contract a data provider must honour:
// strictly ascending dates and non-negative volume.
func (s Series) Validate() error {
	for i, p := range s {
		if p.Volume < 0 {
			return fmt.Errorf("negative volume %d on %s", p.Volume, p.Date.Format(DateLayout))
		}
		if i > 0 && !p.Date.After(s[i-1].Date) {
			return fmt.Errorf("date %s at index %d does not follow %s",
				p.Date.Format(DateLayout), i, s[i-1].Date.Format(DateLayout))
		}
	}
	return nil
}

// DateLayout is the calendar-date format used across storage and reports.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
