package store

import (
	"context"
	"fmt"

	"github.com/quantdata/marketsync/merge"
	"github.com/quantdata/marketsync/models"
)

type duplicateKey struct {
	SymbolTicker string
	MarketCode   string
	TradeDate    string
	Timeframe    string
}

// DuplicateGroups returns every set of stored bars that share one business
// key. A healthy store returns nothing; groups indicate a historical
// inconsistency the dedup pass has to resolve.
func (s *Bars) DuplicateGroups(ctx context.Context) ([][]models.HistoricalBar, error) {
	var keys []duplicateKey
	err := s.db.WithContext(ctx).Raw(`
		SELECT symbol_ticker, market_code, trade_date::text AS trade_date, timeframe
		FROM historical_bars
		GROUP BY symbol_ticker, market_code, trade_date, timeframe
		HAVING COUNT(*) > 1
	`).Scan(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("find duplicate keys: %w", err)
	}

	groups := make([][]models.HistoricalBar, 0, len(keys))
	for _, k := range keys {
		var group []models.HistoricalBar
		err := s.db.WithContext(ctx).
			Where("symbol_ticker = ? AND market_code = ? AND trade_date = ? AND timeframe = ?",
				k.SymbolTicker, k.MarketCode, k.TradeDate, k.Timeframe).
			Find(&group).Error
		if err != nil {
			return nil, fmt.Errorf("load duplicate group: %w", err)
		}
		if len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// Deduplicate converges the store back to one bar per business key: within
// each duplicate group the best (sourcePriority, createdAt) row survives and
// the rest are deleted. Returns the number of groups touched and rows
// removed.
func (s *Bars) Deduplicate(ctx context.Context) (int, int, error) {
	groups, err := s.DuplicateGroups(ctx)
	if err != nil {
		return 0, 0, err
	}

	deleted := 0
	for _, group := range groups {
		_, drop := merge.Survivor(group)
		if err := s.DeleteByIDs(ctx, drop); err != nil {
			return len(groups), deleted, err
		}
		deleted += len(drop)
	}
	return len(groups), deleted, nil
}
