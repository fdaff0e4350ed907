package syncer

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantdata/marketsync/models"
)

// accumulator collects per-symbol outcomes from concurrent workers into one
// SyncResult.
type accumulator struct {
	mu  sync.Mutex
	res *models.SyncResult
}

func (a *accumulator) success(records int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.res.SuccessfulSymbols++
	a.res.TotalRecordsProcessed += records
}

func (a *accumulator) failed(ticker, msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.res.FailedSymbols++
	a.res.Errors = append(a.res.Errors, ticker+": "+msg)
}

func (a *accumulator) skipped() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.res.SkippedSymbols++
}

func (a *accumulator) noData() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.res.NoDataSymbols++
}

func (a *accumulator) error(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.res.Errors = append(a.res.Errors, msg)
}

// SyncMarket runs one synchronization pass over every active symbol of a
// market. A zero date means the default sync date (yesterday). The returned
// result is always non-nil; run-level failures surface in its Errors.
func (e *Engine) SyncMarket(ctx context.Context, market string, date time.Time) *models.SyncResult {
	started := time.Now()
	if date.IsZero() {
		date = e.oracle.DefaultSyncDate(market, time.Now())
	}
	res := &models.SyncResult{Market: market, SyncDate: date}
	defer func() { res.Duration = time.Since(started) }()

	if !e.oracle.Knows(market) {
		res.Errors = append(res.Errors, "unknown market "+market)
		return res
	}

	symbols, err := e.symbols.ActiveSymbols(ctx, market)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	if len(symbols) == 0 {
		e.log.Info("no active symbols", "market", market)
		return res
	}

	if !e.oracle.IsTradingDay(market, date) {
		e.log.Info("market closed, skipping sync",
			"market", market, "date", date.Format("2006-01-02"))
		res.SkippedSymbols = len(symbols)
		return res
	}

	e.log.Info("sync started",
		"market", market, "date", date.Format("2006-01-02"),
		"symbols", len(symbols), "batch_size", e.cfg.BatchSize)

	acc := &accumulator{res: res}
	e.runBatches(ctx, symbols, acc, func(ctx context.Context, sym models.Symbol) {
		e.syncSymbol(ctx, sym, date, acc)
	})

	if report, err := e.Completeness(ctx, market, date); err == nil {
		res.Completeness = report.Percent
		if report.Percent < e.cfg.MinCompleteness {
			e.log.Warn("completeness below threshold",
				"market", market, "date", date.Format("2006-01-02"),
				"completeness", report.Percent, "threshold", e.cfg.MinCompleteness)
		}
	} else {
		res.Errors = append(res.Errors, err.Error())
	}

	if e.cfg.AutoFillGaps && ctx.Err() == nil {
		lookback := date.AddDate(0, 0, -e.cfg.GapLookbackDays)
		gapRes := e.DetectAndFillGaps(ctx, market, lookback, date)
		e.log.Info("auto gap fill finished",
			"market", market,
			"detected", gapRes.GapsDetected,
			"filled", gapRes.GapsFilled,
			"failed", gapRes.GapsFailed)
	}

	e.log.Info("sync finished",
		"market", market, "date", date.Format("2006-01-02"),
		"successful", res.SuccessfulSymbols, "failed", res.FailedSymbols,
		"skipped", res.SkippedSymbols, "no_data", res.NoDataSymbols,
		"records", res.TotalRecordsProcessed,
		"completeness", res.Completeness,
		"duration", time.Since(started).Round(time.Millisecond))
	return res
}

// runBatches walks the symbols in fixed-size batches, one batch concurrent at
// a time with a pause between batches. Cancellation lets the in-flight batch
// finish and keeps further batches from starting.
func (e *Engine) runBatches(ctx context.Context, symbols []models.Symbol, acc *accumulator, work func(ctx context.Context, sym models.Symbol)) {
	size := e.cfg.BatchSize
	if size <= 0 {
		size = 1
	}
	for start := 0; start < len(symbols); start += size {
		if start > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(e.cfg.BatchDelay):
			}
		}
		if ctx.Err() != nil {
			remaining := len(symbols) - start
			acc.error("run cancelled with " + strconv.Itoa(remaining) + " symbols pending: " + ctx.Err().Error())
			acc.mu.Lock()
			acc.res.SkippedSymbols += remaining
			acc.mu.Unlock()
			return
		}

		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		g := new(errgroup.Group)
		for _, sym := range symbols[start:end] {
			sym := sym
			g.Go(func() error {
				work(ctx, sym)
				return nil
			})
		}
		g.Wait()
	}
}

// syncSymbol fetches, validates and reconciles one symbol's bars for a date.
func (e *Engine) syncSymbol(ctx context.Context, sym models.Symbol, date time.Time, acc *accumulator) {
	key := models.BarKey{
		Ticker:    sym.Ticker,
		Market:    sym.MarketCode,
		TradeDate: date,
		Timeframe: e.cfg.Timeframe,
	}
	existing, err := e.bars.FindByKey(ctx, key)
	if err != nil {
		acc.failed(sym.Ticker, err.Error())
		return
	}
	if existing != nil && existing.DataSource == e.provider.Name() && !e.cfg.AllowOverwrite {
		e.log.Debug("bar already present", "key", key.String())
		acc.skipped()
		return
	}

	result, attempts := e.fetchWithRetry(ctx, sym.Ticker, sym.MarketCode, date, date)
	if !result.Success {
		e.log.Warn("fetch failed",
			"ticker", sym.Ticker, "market", sym.MarketCode,
			"attempts", attempts, "error", result.ErrorMessage)
		acc.failed(sym.Ticker, result.ErrorMessage)
		return
	}
	if len(result.Bars) == 0 {
		acc.noData()
		return
	}

	processed, _ := e.reconcileBars(ctx, result.Bars, acc.error)
	if processed == 0 {
		acc.failed(sym.Ticker, "no bar survived validation")
		return
	}
	acc.success(processed)
}
