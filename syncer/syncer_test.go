package syncer_test

import (
	"context"
	"sync"
	"time"

	"github.com/quantdata/marketsync/calendar"
	"github.com/quantdata/marketsync/merge"
	"github.com/quantdata/marketsync/models"
	"github.com/quantdata/marketsync/provider"
	"github.com/quantdata/marketsync/syncer"
)

// fakeStore is an in-memory BarStore applying the same merge rules as the
// real one.
type fakeStore struct {
	mu           sync.Mutex
	bars         map[string]models.HistoricalBar
	findErr      error
	reconcileErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{bars: make(map[string]models.HistoricalBar)}
}

func (s *fakeStore) put(bar models.HistoricalBar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bars[bar.Key().String()] = bar
}

func (s *fakeStore) get(key models.BarKey) (models.HistoricalBar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bar, ok := s.bars[key.String()]
	return bar, ok
}

func (s *fakeStore) FindByKey(_ context.Context, key models.BarKey) (*models.HistoricalBar, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bar, ok := s.bars[key.String()]
	if !ok {
		return nil, nil
	}
	return &bar, nil
}

func (s *fakeStore) Reconcile(_ context.Context, incoming models.HistoricalBar) (merge.Action, error) {
	if s.reconcileErr != nil {
		return merge.ActionSkip, s.reconcileErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := incoming.Key().String()
	var decision merge.Decision
	if existing, ok := s.bars[key]; ok {
		decision = merge.Merge(&existing, incoming)
	} else {
		decision = merge.Merge(nil, incoming)
	}
	if decision.Action != merge.ActionSkip {
		s.bars[key] = *decision.Result
	}
	return decision.Action, nil
}

func (s *fakeStore) DistinctDates(_ context.Context, ticker, market, timeframe string, from, to time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dates []time.Time
	for _, bar := range s.bars {
		if bar.SymbolTicker != ticker || bar.MarketCode != market || bar.Timeframe != timeframe {
			continue
		}
		if bar.TradeDate.Before(from) || bar.TradeDate.After(to) {
			continue
		}
		dates = append(dates, bar.TradeDate)
	}
	return dates, nil
}

func (s *fakeStore) CountForDate(_ context.Context, market string, date time.Time, timeframe string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, bar := range s.bars {
		if bar.MarketCode == market && bar.Timeframe == timeframe && bar.TradeDate.Equal(date) {
			count++
		}
	}
	return count, nil
}

// fakeRegistry serves a fixed symbol list.
type fakeRegistry struct {
	symbols []models.Symbol
	err     error
}

func (r *fakeRegistry) ActiveSymbols(_ context.Context, market string) ([]models.Symbol, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Symbol
	for _, s := range r.symbols {
		if s.MarketCode == market {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeProvider replays a scripted response sequence per ticker; the last
// response repeats once the script runs out. Tickers without a script get a
// single valid bar per requested day.
type fakeProvider struct {
	mu      sync.Mutex
	scripts map[string][]provider.FetchResult
	calls   map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		scripts: make(map[string][]provider.FetchResult),
		calls:   make(map[string]int),
	}
}

func (p *fakeProvider) Name() string  { return "yahoo" }
func (p *fakeProvider) Priority() int { return 1 }

func (p *fakeProvider) script(ticker string, results ...provider.FetchResult) {
	p.scripts[ticker] = results
}

func (p *fakeProvider) callCount(ticker string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[ticker]
}

func (p *fakeProvider) FetchRange(_ context.Context, ticker, market string, start, end time.Time) provider.FetchResult {
	p.mu.Lock()
	n := p.calls[ticker]
	p.calls[ticker] = n + 1
	script, scripted := p.scripts[ticker]
	p.mu.Unlock()

	if scripted {
		if n >= len(script) {
			n = len(script) - 1
		}
		return script[n]
	}

	var bars []models.HistoricalBar
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		bars = append(bars, barFor(ticker, market, d, 100+float64(d.Day())))
	}
	return provider.FetchResult{Success: true, Bars: bars}
}

func barFor(ticker, market string, date time.Time, close float64) models.HistoricalBar {
	return models.HistoricalBar{
		SymbolTicker:   ticker,
		MarketCode:     market,
		TradeDate:      date,
		Timeframe:      models.TimeframeDaily,
		Open:           f(close - 1),
		High:           f(close + 2),
		Low:            f(close - 2),
		Close:          f(close),
		Volume:         f(1000),
		DataSource:     "yahoo",
		SourcePriority: 1,
		CollectedAt:    time.Now().UTC(),
	}
}

func f(v float64) *float64 { return &v }

func testConfig() syncer.Config {
	cfg := syncer.DefaultConfig()
	cfg.BatchSize = 2
	cfg.BatchDelay = 0
	cfg.MaxRetries = 3
	cfg.RetryDelay = time.Millisecond
	return cfg
}

type fixture struct {
	store    *fakeStore
	registry *fakeRegistry
	provider *fakeProvider
	engine   *syncer.Engine
}

func newFixture(cfg syncer.Config, symbols ...models.Symbol) *fixture {
	store := newFakeStore()
	registry := &fakeRegistry{symbols: symbols}
	prov := newFakeProvider()
	oracle := calendar.NewOracle(models.DefaultMarkets())
	return &fixture{
		store:    store,
		registry: registry,
		provider: prov,
		engine:   syncer.New(cfg, oracle, prov, store, registry, nil),
	}
}

func symbol(ticker, market string) models.Symbol {
	return models.Symbol{Ticker: ticker, MarketCode: market, Active: true}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
