package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quantdata/marketsync/models"
)

func newTestOracle() *Oracle {
	return NewOracle([]models.Market{
		{Code: "NASDAQ", Class: models.AssetClassEquity},
		{Code: "CRYPTO", Class: models.AssetClassCrypto},
	})
}

func TestIsTradingDayEquityWeekdays(t *testing.T) {
	oracle := newTestOracle()

	monday := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)

	require.True(t, oracle.IsTradingDay("NASDAQ", monday))
	require.True(t, oracle.IsTradingDay("NASDAQ", friday))
	require.False(t, oracle.IsTradingDay("NASDAQ", saturday))
	require.False(t, oracle.IsTradingDay("NASDAQ", sunday))
}

func TestIsTradingDayCryptoAlwaysOpen(t *testing.T) {
	oracle := newTestOracle()

	for d := 0; d < 7; d++ {
		date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
		require.True(t, oracle.IsTradingDay("CRYPTO", date), "crypto should trade on %s", date.Weekday())
	}
}

func TestIsTradingDayHolidays(t *testing.T) {
	christmas := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	oracle := newTestOracle().WithHolidays("NASDAQ", []time.Time{christmas})

	require.False(t, oracle.IsTradingDay("NASDAQ", christmas))
	// Holidays never close crypto markets.
	require.True(t, oracle.IsTradingDay("CRYPTO", christmas))
}

func TestIsTradingDayUnknownMarket(t *testing.T) {
	oracle := newTestOracle()
	require.False(t, oracle.IsTradingDay("LSE", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	require.False(t, oracle.Knows("LSE"))
	require.True(t, oracle.Knows("NASDAQ"))
}

func TestDefaultSyncDate(t *testing.T) {
	oracle := newTestOracle()

	now := time.Date(2024, 1, 16, 14, 30, 12, 0, time.UTC)
	got := oracle.DefaultSyncDate("NASDAQ", now)
	require.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)

	// Monday: yesterday is Sunday, still returned as-is. The caller decides
	// whether to skip via IsTradingDay.
	monday := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	sunday := oracle.DefaultSyncDate("NASDAQ", monday)
	require.Equal(t, time.Sunday, sunday.Weekday())
	require.False(t, oracle.IsTradingDay("NASDAQ", sunday))
}
