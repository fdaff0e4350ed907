package models

import "time"

// DataGap marks one trading date with no stored bar for a symbol. Gaps are
// computed values, never persisted.
type DataGap struct {
	SymbolTicker string    `json:"symbol_ticker"`
	MarketCode   string    `json:"market_code"`
	MissingDate  time.Time `json:"missing_date"`
}

// SyncResult aggregates one sync invocation. It is built incrementally while
// the run executes and is immutable once returned.
type SyncResult struct {
	Market   string    `json:"market"`
	SyncDate time.Time `json:"sync_date"`

	SuccessfulSymbols     int `json:"successful_symbols"`
	FailedSymbols         int `json:"failed_symbols"`
	SkippedSymbols        int `json:"skipped_symbols"`
	NoDataSymbols         int `json:"no_data_symbols"`
	TotalRecordsProcessed int `json:"total_records_processed"`

	Completeness float64       `json:"completeness"`
	Duration     time.Duration `json:"duration"`
	Errors       []string      `json:"errors,omitempty"`
}

// TotalSymbols returns the number of symbols the run accounted for.
func (r *SyncResult) TotalSymbols() int {
	return r.SuccessfulSymbols + r.FailedSymbols + r.SkippedSymbols + r.NoDataSymbols
}

// GapResult aggregates one gap detection and backfill pass.
type GapResult struct {
	Market       string        `json:"market"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	GapsDetected int           `json:"gaps_detected"`
	GapsFilled   int           `json:"gaps_filled"`
	GapsFailed   int           `json:"gaps_failed"`
	Duration     time.Duration `json:"duration"`
	Errors       []string      `json:"errors,omitempty"`
}

// CompletenessReport compares persisted bars against the expected active
// symbol count for one market and date.
type CompletenessReport struct {
	Market          string    `json:"market"`
	Date            time.Time `json:"date"`
	ExpectedRecords int       `json:"expected_records"`
	ActualRecords   int       `json:"actual_records"`
	Percent         float64   `json:"percent"`
}
