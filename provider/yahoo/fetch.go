package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/quantdata/marketsync/models"
	"github.com/quantdata/marketsync/provider"
)

// FetchRange retrieves daily bars for [start, end] (dates inclusive, UTC).
// Failures are classified instead of returned as errors: transport problems,
// 429 and 5xx responses are retryable; everything else is permanent.
func (c *Client) FetchRange(ctx context.Context, ticker, market string, start, end time.Time) provider.FetchResult {
	symbol := c.providerSymbol(ticker, market)

	period1 := dateUTC(start).Unix()
	period2 := dateUTC(end).AddDate(0, 0, 1).Unix()

	query := url.Values{}
	query.Set("period1", strconv.FormatInt(period1, 10))
	query.Set("period2", strconv.FormatInt(period2, 10))
	query.Set("interval", "1d")
	query.Set("includePrePost", "false")

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return failure(false, fmt.Sprintf("creating request: %v", err))
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts, DNS and connection resets: worth another attempt.
		return failure(true, fmt.Sprintf("performing request: %v", err))
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
	case res.StatusCode == http.StatusTooManyRequests:
		return failure(true, "rate limited")
	case res.StatusCode >= 500:
		return failure(true, fmt.Sprintf("server error: status %d", res.StatusCode))
	case res.StatusCode == http.StatusNotFound:
		return failure(false, fmt.Sprintf("unknown symbol %s", symbol))
	default:
		return failure(false, fmt.Sprintf("unexpected status code: %d", res.StatusCode))
	}

	var body chartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return failure(false, fmt.Sprintf("decoding chart response: %v", err))
	}
	if body.Chart.Error != nil {
		return failure(false, fmt.Sprintf("provider error: %s: %s", body.Chart.Error.Code, body.Chart.Error.Description))
	}
	if len(body.Chart.Result) == 0 {
		return provider.FetchResult{Success: true}
	}

	bars := c.toBars(ticker, market, body.Chart.Result[0], dateUTC(start), dateUTC(end))
	return provider.FetchResult{Success: true, Bars: bars}
}

func failure(retryable bool, msg string) provider.FetchResult {
	return provider.FetchResult{Retryable: retryable, ErrorMessage: msg}
}

// toBars flattens the chart arrays into HistoricalBar values within the
// requested date window. Null quote entries stay nil on the bar.
func (c *Client) toBars(ticker, market string, result chartResult, start, end time.Time) []models.HistoricalBar {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	quote := result.Indicators.Quote[0]

	var meta chartMeta
	_ = json.Unmarshal(result.Meta, &meta)

	collectedAt := time.Now().UTC()
	prevClose := floatPtrIfPositive(meta.ChartPreviousClose)

	bars := make([]models.HistoricalBar, 0, len(result.Timestamps))
	for i, ts := range result.Timestamps {
		tradeDate := dateUTC(time.Unix(ts, 0).UTC())
		if tradeDate.Before(start) || tradeDate.After(end) {
			continue
		}

		bar := models.HistoricalBar{
			SymbolTicker:   ticker,
			MarketCode:     market,
			TradeDate:      tradeDate,
			Timeframe:      models.TimeframeDaily,
			Open:           at(quote.Open, i),
			High:           at(quote.High, i),
			Low:            at(quote.Low, i),
			Close:          at(quote.Close, i),
			Volume:         at(quote.Volume, i),
			DataSource:     c.Name(),
			SourcePriority: c.priority,
			CollectedAt:    collectedAt,
			SourceMetadata: string(result.Meta),
		}
		if prevClose != nil && bar.Close != nil {
			change := *bar.Close - *prevClose
			pct := change / *prevClose * 100
			bar.PreviousClose = prevClose
			bar.ChangeAmount = &change
			bar.ChangePercent = &pct
		}
		if bar.Close != nil {
			prevClose = bar.Close
		}
		bars = append(bars, bar)
	}
	return bars
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) || values[i] == nil {
		return nil
	}
	v := *values[i]
	return &v
}

func floatPtrIfPositive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func dateUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
