package calendar

import (
	"time"

	"github.com/quantdata/marketsync/models"
)

// Oracle answers trading-calendar questions for the configured markets.
// It is pure: both methods are total functions over (market, date) and hold
// no mutable state.
type Oracle struct {
	classes  map[string]models.AssetClass
	holidays map[string]map[string]bool
}

// NewOracle builds an Oracle from an explicit market lookup table.
func NewOracle(markets []models.Market) *Oracle {
	classes := make(map[string]models.AssetClass, len(markets))
	for _, m := range markets {
		classes[m.Code] = m.Class
	}
	return &Oracle{
		classes:  classes,
		holidays: make(map[string]map[string]bool),
	}
}

// WithHolidays registers market holidays, which are treated as non-trading
// days for equity markets. Crypto markets ignore holidays.
func (o *Oracle) WithHolidays(market string, dates []time.Time) *Oracle {
	set := o.holidays[market]
	if set == nil {
		set = make(map[string]bool, len(dates))
		o.holidays[market] = set
	}
	for _, d := range dates {
		set[d.Format("2006-01-02")] = true
	}
	return o
}

// Knows reports whether the market is part of the oracle's lookup table.
func (o *Oracle) Knows(market string) bool {
	_, ok := o.classes[market]
	return ok
}

// IsTradingDay reports whether the market is open on the given calendar date.
// Crypto markets trade every day. Equity markets trade on weekdays that are
// not registered holidays. Unknown markets are never trading days.
func (o *Oracle) IsTradingDay(market string, date time.Time) bool {
	class, ok := o.classes[market]
	if !ok {
		return false
	}
	if class == models.AssetClassCrypto {
		return true
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if set := o.holidays[market]; set != nil && set[date.Format("2006-01-02")] {
		return false
	}
	return true
}

// DefaultSyncDate returns yesterday relative to now, truncated to midnight
// UTC. It does not walk back to the previous trading day; callers check
// IsTradingDay and skip closed markets themselves.
func (o *Oracle) DefaultSyncDate(market string, now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
