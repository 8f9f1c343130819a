// Package store caches raw daily bars fetched from a data provider so that
// repeated scans of the same window do not hit the provider again.
package store

import (
	"context"
	"time"

	"TrendSentinel/internal/model"
)

// FetchRecord describes one completed provider fetch for a symbol and range.
type FetchRecord struct {
	Symbol    string
	From      time.Time
	To        time.Time
	Bars      int
	FetchedAt time.Time
}

// BarStore persists daily bars per symbol and the ranges they were fetched for.
type BarStore interface {
	// SaveFetch replaces the stored bars for symbol within [from, to] with bars
	// and logs the fetch. An empty series clears the range and is logged too,
	// so a known-empty range is also served from cache.
	SaveFetch(ctx context.Context, symbol string, from, to time.Time, bars model.Series, fetchedAt time.Time) error
	// LastFetch returns the most recent fetch of exactly [from, to], or nil.
	LastFetch(ctx context.Context, symbol string, from, to time.Time) (*FetchRecord, error)
	// LoadBars returns the stored bars for symbol within [from, to] in date order.
	LoadBars(ctx context.Context, symbol string, from, to time.Time) (model.Series, error)
	Close() error
}
