package syncer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quantdata/marketsync/models"
	"github.com/quantdata/marketsync/syncer"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	day := date(2024, time.January, 8)
	tests := []struct {
		name    string
		mutate  func(bar *models.HistoricalBar)
		valid   bool
		message string
	}{
		{
			name:   "full bar passes",
			mutate: func(bar *models.HistoricalBar) {},
			valid:  true,
		},
		{
			name:    "missing close rejected",
			mutate:  func(bar *models.HistoricalBar) { bar.Close = nil },
			message: "close",
		},
		{
			name:    "zero close rejected",
			mutate:  func(bar *models.HistoricalBar) { bar.Close = f(0) },
			message: "close",
		},
		{
			name:   "tiny positive close accepted",
			mutate: func(bar *models.HistoricalBar) { bar.Close = f(0.01) },
			valid:  true,
		},
		{
			name:    "negative volume rejected",
			mutate:  func(bar *models.HistoricalBar) { bar.Volume = f(-1) },
			message: "volume",
		},
		{
			name:   "zero volume accepted",
			mutate: func(bar *models.HistoricalBar) { bar.Volume = f(0) },
			valid:  true,
		},
		{
			name: "high below low rejected",
			mutate: func(bar *models.HistoricalBar) {
				bar.High = f(10)
				bar.Low = f(11)
			},
			message: "high",
		},
		{
			name: "high equal to low accepted",
			mutate: func(bar *models.HistoricalBar) {
				bar.High = f(11)
				bar.Low = f(11)
			},
			valid: true,
		},
		{
			name: "close-only bar accepted",
			mutate: func(bar *models.HistoricalBar) {
				bar.Open = nil
				bar.High = nil
				bar.Low = nil
				bar.Volume = nil
			},
			valid: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bar := barFor("AAPL", "NASDAQ", day, 180)
			tt.mutate(&bar)

			ok, errs := syncer.Validate(&bar)

			require.Equal(t, tt.valid, ok)
			if tt.valid {
				require.Empty(t, errs)
			} else {
				require.NotEmpty(t, errs)
				require.Contains(t, errs[0], tt.message)
			}
		})
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	t.Parallel()

	bar := barFor("AAPL", "NASDAQ", date(2024, time.January, 8), 180)
	bar.Close = nil
	bar.Volume = f(-5)
	bar.High = f(1)
	bar.Low = f(2)

	ok, errs := syncer.Validate(&bar)

	require.False(t, ok)
	require.Len(t, errs, 3)
}

func TestQualityScore(t *testing.T) {
	t.Parallel()

	full := barFor("AAPL", "NASDAQ", date(2024, time.January, 8), 180)
	full.VWAP = f(180.5)
	full.PreviousClose = f(179)
	txn := int64(12000)
	full.TransactionCount = &txn
	require.Equal(t, 100, syncer.QualityScore(&full))

	partial := barFor("AAPL", "NASDAQ", date(2024, time.January, 8), 180)
	// No VWAP, previous close or transaction count.
	require.Equal(t, 75, syncer.QualityScore(&partial))

	closeOnly := models.HistoricalBar{Close: f(180)}
	require.Equal(t, 15, syncer.QualityScore(&closeOnly))
}
