package syncer

import (
	"fmt"

	"github.com/quantdata/marketsync/models"
)

// Validate checks a bar before it reaches the store. Close is the one field
// every downstream consumer depends on, so it must be present and positive;
// the remaining checks only fire when the field is populated.
func Validate(bar *models.HistoricalBar) (bool, []string) {
	var errs []string
	if bar.Close == nil || *bar.Close <= 0 {
		errs = append(errs, "close price must be present and positive")
	}
	if bar.Volume != nil && *bar.Volume < 0 {
		errs = append(errs, fmt.Sprintf("volume must not be negative, got %g", *bar.Volume))
	}
	if bar.High != nil && bar.Low != nil && *bar.High < *bar.Low {
		errs = append(errs, fmt.Sprintf("high %g is below low %g", *bar.High, *bar.Low))
	}
	return len(errs) == 0, errs
}

// QualityScore grades how complete a valid bar is, 0 to 100. Core OHLCV
// fields weigh more than the derived extras.
func QualityScore(bar *models.HistoricalBar) int {
	score := 100
	for _, f := range []*float64{bar.Open, bar.High, bar.Low, bar.Volume} {
		if f == nil {
			score -= 15
		}
	}
	if bar.VWAP == nil {
		score -= 10
	}
	if bar.PreviousClose == nil {
		score -= 10
	}
	if bar.TransactionCount == nil {
		score -= 5
	}
	if score < 0 {
		score = 0
	}
	return score
}
