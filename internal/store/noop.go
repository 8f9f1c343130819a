package store

import (
	"context"
	"time"

	"TrendSentinel/internal/model"
)

// NoopStore is used when no cache path is configured. It never reports a hit.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveFetch(_ context.Context, _ string, _, _ time.Time, _ model.Series, _ time.Time) error {
	return nil
}

func (n *NoopStore) LastFetch(_ context.Context, _ string, _, _ time.Time) (*FetchRecord, error) {
	return nil, nil
}

func (n *NoopStore) LoadBars(_ context.Context, _ string, _, _ time.Time) (model.Series, error) {
	return model.Series{}, nil
}

func (n *NoopStore) Close() error { return nil }
