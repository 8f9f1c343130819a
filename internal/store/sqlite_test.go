package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"TrendSentinel/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "bars.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	bars := model.Series{
		{Date: day(0), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000},
		{Date: day(1), Open: 10.5, High: 12, Low: 10, Close: 11.75, Volume: 2500},
		{Date: day(4), Open: 11.75, High: 12, Low: 11, Close: 11.1, Volume: 800},
	}
	fetchedAt := time.Unix(1_740_000_000, 0)
	require.NoError(t, s.SaveFetch(ctx, "AAPL", day(0), day(5), bars, fetchedAt))

	got, err := s.LoadBars(ctx, "AAPL", day(0), day(5))
	require.NoError(t, err)
	assert.Equal(t, bars, got)

	partial, err := s.LoadBars(ctx, "AAPL", day(1), day(3))
	require.NoError(t, err)
	require.Len(t, partial, 1)
	assert.Equal(t, 11.75, partial[0].Close)

	other, err := s.LoadBars(ctx, "MSFT", day(0), day(5))
	require.NoError(t, err)
	assert.Empty(t, other)

	rec, err := s.LastFetch(ctx, "AAPL", day(0), day(5))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.Bars)
	assert.Equal(t, fetchedAt.Unix(), rec.FetchedAt.Unix())
}

func TestSQLiteStore_UpsertReplacesBar(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := model.Series{{Date: day(0), Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}}
	second := model.Series{{Date: day(0), Open: 2, High: 2, Low: 2, Close: 2, Volume: 2}}
	require.NoError(t, s.SaveFetch(ctx, "X", day(0), day(0), first, time.Unix(100, 0)))
	require.NoError(t, s.SaveFetch(ctx, "X", day(0), day(0), second, time.Unix(200, 0)))

	got, err := s.LoadBars(ctx, "X", day(0), day(0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Close)
	assert.Equal(t, int64(2), got[0].Volume)

	rec, err := s.LastFetch(ctx, "X", day(0), day(0))
	require.NoError(t, err)
	assert.Equal(t, int64(200), rec.FetchedAt.Unix())
}

func TestSQLiteStore_EmptyFetchIsLogged(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveFetch(ctx, "GONE", day(0), day(9), model.Series{}, time.Unix(500, 0)))

	rec, err := s.LastFetch(ctx, "GONE", day(0), day(9))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.Bars)
}

func TestSQLiteStore_RefetchReplacesRange(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	old := model.Series{
		{Date: day(0), Close: 1, Volume: 10},
		{Date: day(2), Close: 2, Volume: 20},
		{Date: day(6), Close: 6, Volume: 60},
	}
	require.NoError(t, s.SaveFetch(ctx, "X", day(0), day(6), old, time.Unix(100, 0)))

	fresh := model.Series{{Date: day(1), Close: 1.5, Volume: 15}}
	require.NoError(t, s.SaveFetch(ctx, "X", day(0), day(3), fresh, time.Unix(200, 0)))

	got, err := s.LoadBars(ctx, "X", day(0), day(3))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(1), got[0].Date)

	// Outside the refetched range the older bars stay.
	rest, err := s.LoadBars(ctx, "X", day(4), day(6))
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, 6.0, rest[0].Close)

	require.NoError(t, s.SaveFetch(ctx, "X", day(0), day(3), model.Series{}, time.Unix(300, 0)))
	empty, err := s.LoadBars(ctx, "X", day(0), day(3))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteStore_LastFetchMiss(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.LastFetch(context.Background(), "NONE", day(0), day(1))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestNoopStore(t *testing.T) {
	ctx := context.Background()
	n := NewNoopStore()
	require.NoError(t, n.SaveFetch(ctx, "A", day(0), day(1), model.Series{{Date: day(0)}}, time.Now()))

	rec, err := n.LastFetch(ctx, "A", day(0), day(1))
	require.NoError(t, err)
	assert.Nil(t, rec)

	bars, err := n.LoadBars(ctx, "A", day(0), day(1))
	require.NoError(t, err)
	assert.Empty(t, bars)
	assert.NoError(t, n.Close())
}
