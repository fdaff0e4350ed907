package database

import (
	"fmt"

	"gorm.io/gorm"
)

// OptimizeIndexes creates the query-path indexes the sync engine relies on
// beyond what AutoMigrate derives from the model tags.
func OptimizeIndexes(db *gorm.DB) error {
	// Gap detection scans distinct trade dates per symbol within a range.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bars_symbol_market_date
		ON historical_bars (symbol_ticker, market_code, trade_date DESC)
	`).Error; err != nil {
		return fmt.Errorf("failed to create gap detection index: %w", err)
	}

	// Completeness counts bars per market and date.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bars_market_date
		ON historical_bars (market_code, trade_date)
	`).Error; err != nil {
		return fmt.Errorf("failed to create completeness index: %w", err)
	}

	// Active-symbol lookups per market.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_symbols_market_active
		ON symbols (market_code) WHERE active
	`).Error; err != nil {
		return fmt.Errorf("failed to create symbols index: %w", err)
	}

	return nil
}
