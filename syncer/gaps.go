package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/quantdata/marketsync/models"
)

// DetectGaps lists the expected trading days in [start, end] for which one
// symbol has no stored bar. Both bounds are inclusive calendar dates.
func (e *Engine) DetectGaps(ctx context.Context, ticker, market string, start, end time.Time) ([]models.DataGap, error) {
	stored, err := e.bars.DistinctDates(ctx, ticker, market, e.cfg.Timeframe, start, end)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(stored))
	for _, d := range stored {
		have[d.UTC().Format("2006-01-02")] = true
	}

	var gaps []models.DataGap
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !e.oracle.IsTradingDay(market, d) {
			continue
		}
		if have[d.Format("2006-01-02")] {
			continue
		}
		gaps = append(gaps, models.DataGap{
			SymbolTicker: ticker,
			MarketCode:   market,
			MissingDate:  d,
		})
	}
	return gaps, nil
}

// DetectAndFillGaps scans every active symbol of a market for missing trading
// days in [start, end] and backfills them one by one. Backfill attempts are
// capped at MaxGapFill per invocation; gaps beyond the cap stay detected but
// untouched. Gap fills are independent, one failing never stops the rest.
func (e *Engine) DetectAndFillGaps(ctx context.Context, market string, start, end time.Time) *models.GapResult {
	started := time.Now()
	res := &models.GapResult{Market: market, StartDate: start, EndDate: end}
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

	var gaps []models.DataGap
	for _, sym := range symbols {
		found, err := e.DetectGaps(ctx, sym.Ticker, market, start, end)
		if err != nil {
			res.Errors = append(res.Errors, sym.Ticker+": "+err.Error())
			continue
		}
		gaps = append(gaps, found...)
	}
	res.GapsDetected = len(gaps)
	if len(gaps) == 0 {
		return res
	}

	attempts := gaps
	if len(attempts) > e.cfg.MaxGapFill {
		e.log.Warn("gap backfill capped",
			"market", market, "detected", len(gaps), "cap", e.cfg.MaxGapFill)
		attempts = attempts[:e.cfg.MaxGapFill]
	}

	e.log.Info("gap backfill started",
		"market", market,
		"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"),
		"detected", res.GapsDetected, "attempting", len(attempts))

	for _, gap := range attempts {
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, "backfill cancelled: "+ctx.Err().Error())
			break
		}
		if err := e.fillGap(ctx, gap); err != nil {
			res.GapsFailed++
			res.Errors = append(res.Errors,
				gap.SymbolTicker+" "+gap.MissingDate.Format("2006-01-02")+": "+err.Error())
			continue
		}
		res.GapsFilled++
	}
	return res
}

// fillGap fetches and stores the bar for one missing (symbol, date). A gap
// counts as filled only when at least one bar lands in the store.
func (e *Engine) fillGap(ctx context.Context, gap models.DataGap) error {
	result, attempts := e.fetchWithRetry(ctx, gap.SymbolTicker, gap.MarketCode, gap.MissingDate, gap.MissingDate)
	if !result.Success {
		e.log.Warn("gap fetch failed",
			"ticker", gap.SymbolTicker, "market", gap.MarketCode,
			"date", gap.MissingDate.Format("2006-01-02"),
			"attempts", attempts, "error", result.ErrorMessage)
		return errors.New(result.ErrorMessage)
	}
	if len(result.Bars) == 0 {
		return errors.New("provider has no data for this date")
	}

	var errs []string
	_, persisted := e.reconcileBars(ctx, result.Bars, func(msg string) {
		errs = append(errs, msg)
	})
	if persisted == 0 {
		if len(errs) > 0 {
			return errors.New(errs[0])
		}
		return errors.New("no bar persisted")
	}
	return nil
}
