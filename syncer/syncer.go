// Package syncer orchestrates market data synchronization: it fans out over
// the active symbols of a market in rate-limit friendly batches, fetches bars
// from the provider with retries, validates them and reconciles them into the
// store. It also detects and backfills gaps and reports completeness.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/quantdata/marketsync/calendar"
	"github.com/quantdata/marketsync/merge"
	"github.com/quantdata/marketsync/models"
	"github.com/quantdata/marketsync/provider"
)

// BarStore is what the engine needs from bar persistence.
type BarStore interface {
	FindByKey(ctx context.Context, key models.BarKey) (*models.HistoricalBar, error)
	Reconcile(ctx context.Context, incoming models.HistoricalBar) (merge.Action, error)
	DistinctDates(ctx context.Context, ticker, market, timeframe string, from, to time.Time) ([]time.Time, error)
	CountForDate(ctx context.Context, market string, date time.Time, timeframe string) (int64, error)
}

// SymbolRegistry lists the symbols a sync run covers.
type SymbolRegistry interface {
	ActiveSymbols(ctx context.Context, market string) ([]models.Symbol, error)
}

// Engine runs sync, gap fill and completeness operations for the markets its
// calendar knows about.
type Engine struct {
	cfg      Config
	oracle   *calendar.Oracle
	provider provider.Client
	bars     BarStore
	symbols  SymbolRegistry
	log      *slog.Logger
}

// New wires an engine. A nil logger falls back to slog.Default().
func New(cfg Config, oracle *calendar.Oracle, client provider.Client, bars BarStore, symbols SymbolRegistry, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:      cfg,
		oracle:   oracle,
		provider: client,
		bars:     bars,
		symbols:  symbols,
		log:      log,
	}
}

// fetchWithRetry calls the provider up to MaxRetries times with linearly
// growing delays. Permanent failures and successes return immediately.
func (e *Engine) fetchWithRetry(ctx context.Context, ticker, market string, from, to time.Time) (provider.FetchResult, int) {
	var res provider.FetchResult
	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		res = e.provider.FetchRange(ctx, ticker, market, from, to)
		if res.Success || !res.Retryable {
			return res, attempt
		}
		e.log.Debug("fetch attempt failed",
			"ticker", ticker, "market", market,
			"attempt", attempt, "error", res.ErrorMessage)
		if attempt < e.cfg.MaxRetries {
			select {
			case <-ctx.Done():
				res.ErrorMessage = "cancelled: " + ctx.Err().Error()
				res.Retryable = false
				return res, attempt
			case <-time.After(e.cfg.RetryDelay * time.Duration(attempt)):
			}
		}
	}
	return res, e.cfg.MaxRetries
}

// reconcileBars validates and reconciles fetched bars into the store.
// Returns bars processed and bars that actually changed the store. Rejected
// bars and persistence failures go through report; they never abort the rest
// of the slice.
func (e *Engine) reconcileBars(ctx context.Context, bars []models.HistoricalBar, report func(msg string)) (processed, persisted int) {
	for i := range bars {
		bar := bars[i]
		ok, verrs := Validate(&bar)
		if !ok {
			for _, msg := range verrs {
				report(bar.SymbolTicker + ": invalid bar: " + msg)
			}
			e.log.Warn("bar rejected by validation",
				"ticker", bar.SymbolTicker, "market", bar.MarketCode,
				"date", bar.TradeDate.Format("2006-01-02"), "errors", verrs)
			continue
		}
		if bar.DataQualityScore == 0 {
			bar.DataQualityScore = QualityScore(&bar)
		}
		action, err := e.bars.Reconcile(ctx, bar)
		if err != nil {
			report(bar.SymbolTicker + ": " + err.Error())
			continue
		}
		processed++
		if action != merge.ActionSkip {
			persisted++
		}
	}
	return processed, persisted
}
