// Package provider defines the contract between the sync engine and external
// quote providers. Implementations perform no retries themselves; retry
// policy lives in the orchestrator so backoff can be coordinated with batch
// rate limiting.
package provider

import (
	"context"
	"time"

	"github.com/quantdata/marketsync/models"
)

// FetchResult is the outcome of one provider call. A failed call is data,
// not an error: Retryable tells the orchestrator whether another attempt can
// help (timeouts, 5xx, rate limits) or not (unknown symbol, bad request).
type FetchResult struct {
	Success      bool
	Retryable    bool
	Bars         []models.HistoricalBar
	ErrorMessage string
}

// Client fetches historical bars for one symbol and date range. It must be
// safe to call concurrently for different symbols.
type Client interface {
	// Name identifies the data source; stored bars carry it as DataSource.
	Name() string
	// Priority is the source trust rank written onto fetched bars
	// (lower = more trusted).
	Priority() int
	FetchRange(ctx context.Context, ticker, market string, start, end time.Time) FetchResult
}
