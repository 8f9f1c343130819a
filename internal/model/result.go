package model

import "time"

// ResultStatus classifies the outcome of one ticker scan.
type ResultStatus string

const (
	StatusOK     ResultStatus = "OK"
	StatusNoData ResultStatus = "NO_DATA"
	StatusFailed ResultStatus = "FAILED"
)

// TickerResult is the isolated outcome for a single instrument in a batch scan.
// Analysis is set only for StatusOK; Err is set for every other status.
type TickerResult struct {
	Symbol    string
	Status    ResultStatus
	From      time.Time
	To        time.Time
	Series    Series
	Analysis  *Analysis
	Err       error
	ScannedAt time.Time
}
