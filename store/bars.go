// Package store implements the historical bar store and symbol registry over
// gorm/Postgres. It is the only shared mutable resource of the sync engine;
// no lock here ever spans more than a single record's write.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quantdata/marketsync/merge"
	"github.com/quantdata/marketsync/models"
)

// Bars reads and writes historical bars.
type Bars struct {
	db *gorm.DB
}

func NewBars(db *gorm.DB) *Bars {
	return &Bars{db: db}
}

// FindByKey loads the stored bar for a business key. Returns (nil, nil) when
// no bar exists.
func (s *Bars) FindByKey(ctx context.Context, key models.BarKey) (*models.HistoricalBar, error) {
	var bar models.HistoricalBar
	err := s.db.WithContext(ctx).
		Where("symbol_ticker = ? AND market_code = ? AND trade_date = ? AND timeframe = ?",
			key.Ticker, key.Market, key.TradeDate, key.Timeframe).
		Take(&bar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find bar %s: %w", key, err)
	}
	return &bar, nil
}

// Reconcile applies the merge rules for the incoming bar against whatever is
// stored under its business key and persists the decision. The
// read-compare-write runs in one transaction with the existing row locked,
// and the unique key index backstops concurrent inserts, so two writers can
// never both win.
func (s *Bars) Reconcile(ctx context.Context, incoming models.HistoricalBar) (merge.Action, error) {
	action := merge.ActionSkip
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.HistoricalBar
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("symbol_ticker = ? AND market_code = ? AND trade_date = ? AND timeframe = ?",
				incoming.SymbolTicker, incoming.MarketCode, incoming.TradeDate, incoming.Timeframe).
			Take(&existing).Error

		var decision merge.Decision
		switch {
		case err == nil:
			decision = merge.Merge(&existing, incoming)
		case errors.Is(err, gorm.ErrRecordNotFound):
			decision = merge.Merge(nil, incoming)
		default:
			return err
		}

		action = decision.Action
		switch decision.Action {
		case merge.ActionInsert:
			return tx.Create(decision.Result).Error
		case merge.ActionUpdate:
			return tx.Save(decision.Result).Error
		default:
			return nil
		}
	})
	if err != nil {
		return merge.ActionSkip, fmt.Errorf("reconcile bar %s: %w", incoming.Key(), err)
	}
	return action, nil
}

// DistinctDates returns the distinct stored trade dates for a symbol within
// [from, to], ordered ascending. The gap detector walks the calendar against
// this set.
func (s *Bars) DistinctDates(ctx context.Context, ticker, market, timeframe string, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := s.db.WithContext(ctx).
		Model(&models.HistoricalBar{}).
		Distinct("trade_date").
		Where("symbol_ticker = ? AND market_code = ? AND timeframe = ? AND trade_date BETWEEN ? AND ?",
			ticker, market, timeframe, from, to).
		Order("trade_date").
		Pluck("trade_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("distinct dates for %s/%s: %w", market, ticker, err)
	}
	return dates, nil
}

// CountForDate counts stored bars for one market and date, the numerator of
// the completeness percentage.
func (s *Bars) CountForDate(ctx context.Context, market string, date time.Time, timeframe string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.HistoricalBar{}).
		Where("market_code = ? AND trade_date = ? AND timeframe = ?", market, date, timeframe).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count bars for %s on %s: %w", market, date.Format("2006-01-02"), err)
	}
	return count, nil
}

// DeleteByIDs removes bars by primary key. Only the dedup pass deletes bars.
func (s *Bars) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Delete(&models.HistoricalBar{}, "id IN ?", ids).Error; err != nil {
		return fmt.Errorf("delete bars: %w", err)
	}
	return nil
}
