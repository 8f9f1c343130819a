package notifier

import (
	"context"

	"TrendSentinel/internal/model"
)

// Notifier delivers the results of one batch scan.
type Notifier interface {
	Notify(ctx context.Context, results []model.TickerResult) error
}
