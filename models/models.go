package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeframeDaily is the bucket size for end-of-day bars.
const TimeframeDaily = "DAILY"

// HistoricalBar is one OHLCV observation for one symbol and trading day,
// collected from one data source. The business key (SymbolTicker, MarketCode,
// TradeDate, Timeframe) is enforced by a unique index so concurrent writers
// for the same key are serialized at the database.
type HistoricalBar struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	SymbolTicker string    `gorm:"size:20;uniqueIndex:uidx_bar_key;index:idx_bar_ticker_date" json:"symbol_ticker"`
	MarketCode   string    `gorm:"size:16;uniqueIndex:uidx_bar_key" json:"market_code"`
	TradeDate    time.Time `gorm:"uniqueIndex:uidx_bar_key;index:idx_bar_ticker_date" json:"trade_date"`
	Timeframe    string    `gorm:"size:10;uniqueIndex:uidx_bar_key" json:"timeframe"`

	// Providers may omit any of these fields.
	Open             *float64 `json:"open"`
	High             *float64 `json:"high"`
	Low              *float64 `json:"low"`
	Close            *float64 `json:"close"`
	Volume           *float64 `json:"volume"`
	VWAP             *float64 `json:"vwap"`
	PreviousClose    *float64 `json:"previous_close"`
	ChangeAmount     *float64 `json:"change_amount"`
	ChangePercent    *float64 `json:"change_percent"`
	TransactionCount *int64   `json:"transaction_count"`

	// Provenance. Lower SourcePriority means a more trusted source.
	DataSource       string    `gorm:"size:32" json:"data_source"`
	SourcePriority   int       `json:"source_priority"`
	DataQualityScore int       `json:"data_quality_score"`
	CollectedAt      time.Time `json:"collected_at"`
	SourceMetadata   string    `gorm:"type:text" json:"source_metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was set.
func (b *HistoricalBar) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Key returns the business key of the bar.
func (b *HistoricalBar) Key() BarKey {
	return BarKey{
		Ticker:    b.SymbolTicker,
		Market:    b.MarketCode,
		TradeDate: b.TradeDate,
		Timeframe: b.Timeframe,
	}
}

// BarKey is the business key that must be unique among stored bars.
type BarKey struct {
	Ticker    string
	Market    string
	TradeDate time.Time
	Timeframe string
}

func (k BarKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Market, k.Ticker, k.TradeDate.Format("2006-01-02"), k.Timeframe)
}

// Symbol is the engine's read-only view of a tracked instrument. The symbol
// registry owns these rows; the sync engine never creates or mutates them.
type Symbol struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Ticker     string `gorm:"size:20;uniqueIndex:uidx_symbol_market" json:"ticker"`
	MarketCode string `gorm:"size:16;uniqueIndex:uidx_symbol_market" json:"market_code"`
	Active     bool   `gorm:"index" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
