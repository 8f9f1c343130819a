package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"TrendSentinel/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
//
// Implementations return bars in strictly ascending date order with no
// duplicate dates. A symbol or range with no data yields an empty Series and
// a nil error.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) (model.Series, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// normalize sorts bars by date, keeps the last bar seen for a repeated date,
// and drops bars outside [from, to].
func normalize(bars model.Series, from, to time.Time) model.Series {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	from, to = model.DateOf(from), model.DateOf(to)
	out := make(model.Series, 0, len(bars))
	for _, b := range bars {
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
