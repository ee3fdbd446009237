package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
)

var errBackend = errors.New("backend unavailable")

// fakeSource serves canned rows keyed by asset, asset:factor or
// asset:strategy. Keys listed in fail return errBackend.
type fakeSource struct {
	mu        sync.Mutex
	assets    []models.Asset
	prices    map[string][]models.PriceDaily
	factors   map[string][]models.FactorDaily
	signals   map[string][]models.SignalDaily
	backtests map[string][]models.BacktestRun
	equity    map[string][]models.EquityDaily
	trades    map[string][]models.TradeLog
	corr      models.CorrelationRaw
	fail      map[string]bool
	calls     []string
}

func (f *fakeSource) record(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if f.fail[key] {
		return errBackend
	}
	return nil
}

func (f *fakeSource) Assets(context.Context, bool) ([]models.Asset, error) {
	if err := f.record("assets"); err != nil {
		return nil, err
	}
	return f.assets, nil
}

func (f *fakeSource) Prices(_ context.Context, q domrepo.PriceQuery) ([]models.PriceDaily, error) {
	if err := f.record("prices:" + q.AssetID); err != nil {
		return nil, err
	}
	return f.prices[q.AssetID], nil
}

func (f *fakeSource) Factors(_ context.Context, q domrepo.FactorQuery) ([]models.FactorDaily, error) {
	key := q.AssetID + ":" + q.FactorName
	if err := f.record("factors:" + key); err != nil {
		return nil, err
	}
	return f.factors[key], nil
}

func (f *fakeSource) Signals(_ context.Context, q domrepo.SignalQuery) ([]models.SignalDaily, error) {
	key := q.AssetID + ":" + q.StrategyID
	if err := f.record("signals:" + key); err != nil {
		return nil, err
	}
	return f.signals[key], nil
}

func (f *fakeSource) Backtests(_ context.Context, q domrepo.BacktestQuery) ([]models.BacktestRun, error) {
	if err := f.record("backtests:" + q.StrategyID); err != nil {
		return nil, err
	}
	return f.backtests[q.StrategyID], nil
}

func (f *fakeSource) Equity(_ context.Context, runID string) ([]models.EquityDaily, error) {
	if err := f.record("equity:" + runID); err != nil {
		return nil, err
	}
	return f.equity[runID], nil
}

func (f *fakeSource) Trades(_ context.Context, runID string) ([]models.TradeLog, error) {
	if err := f.record("trades:" + runID); err != nil {
		return nil, err
	}
	return f.trades[runID], nil
}

func (f *fakeSource) Correlation(context.Context, domrepo.CorrelationQuery) (models.CorrelationRaw, error) {
	if err := f.record("correlation"); err != nil {
		return models.CorrelationRaw{}, err
	}
	return f.corr, nil
}

func (f *fakeSource) Health(context.Context) error { return nil }
func (f *fakeSource) Close() error                 { return nil }

type countingMetrics struct {
	mu       sync.Mutex
	errors   map[string]int
	excluded map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: map[string]int{}, excluded: map[string]int{}}
}

func (m *countingMetrics) RecordFetch(string, float64) {}
func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}
func (m *countingMetrics) RecordRows(string, int) {}
func (m *countingMetrics) RecordExcluded(chart string, n int) {
	m.mu.Lock()
	m.excluded[chart] += n
	m.mu.Unlock()
}
func (m *countingMetrics) RecordLatency(string, float64) {}

func px(asset, date string, close float64) models.PriceDaily {
	return models.PriceDaily{AssetID: asset, Date: date, Close: close}
}

func testSettings() Settings {
	return Settings{
		DefaultWindowDays:  30,
		MaxParallelFetches: 4,
		Assets:             []string{"SPY", "QQQ"},
		Strategies:         []string{"momentum", "meanrev"},
		TableFactors:       []string{"rsi_14"},
		Timeout:            time.Second,
	}
}

func fixedNow() time.Time { return time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC) }
