package syncer

import (
	"context"
	"time"

	"github.com/quantdata/marketsync/models"
)

// Completeness reports stored bars against active symbols for one market and
// date. A market with no active symbols is trivially complete.
func (e *Engine) Completeness(ctx context.Context, market string, date time.Time) (*models.CompletenessReport, error) {
	symbols, err := e.symbols.ActiveSymbols(ctx, market)
	if err != nil {
		return nil, err
	}
	actual, err := e.bars.CountForDate(ctx, market, date, e.cfg.Timeframe)
	if err != nil {
		return nil, err
	}

	report := &models.CompletenessReport{
		Market:          market,
		Date:            date,
		ExpectedRecords: len(symbols),
		ActualRecords:   int(actual),
		Percent:         100,
	}
	if len(symbols) > 0 {
		report.Percent = float64(actual) / float64(len(symbols)) * 100
	}
	return report, nil
}
