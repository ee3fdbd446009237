package repository

import (
	"context"

	"FinLens/internal/domain/models"
)

// PriceQuery selects daily bars for one asset. Empty dates are unbounded.
type PriceQuery struct {
	AssetID string
	Start   models.CalendarDate
	End     models.CalendarDate
	Limit   int
}

type FactorQuery struct {
	AssetID    string
	FactorName string
	Start      models.CalendarDate
	End        models.CalendarDate
	Limit      int
}

type SignalQuery struct {
	AssetID    string
	StrategyID string
	Start      models.CalendarDate
	End        models.CalendarDate
	Limit      int
}

type BacktestQuery struct {
	AssetID    string
	StrategyID string
	Limit      int
}

type CorrelationQuery struct {
	AssetIDs []string
	Start    models.CalendarDate
	End      models.CalendarDate
	Window   int
}

// MarketSource provides read-only snapshots of the research backend's data.
// Implementations never compute factors or run backtests.
type MarketSource interface {
	Assets(ctx context.Context, activeOnly bool) ([]models.Asset, error)
	Prices(ctx context.Context, q PriceQuery) ([]models.PriceDaily, error)
	Factors(ctx context.Context, q FactorQuery) ([]models.FactorDaily, error)
	Signals(ctx context.Context, q SignalQuery) ([]models.SignalDaily, error)
	Backtests(ctx context.Context, q BacktestQuery) ([]models.BacktestRun, error)
	Equity(ctx context.Context, runID string) ([]models.EquityDaily, error)
	Trades(ctx context.Context, runID string) ([]models.TradeLog, error)
	Correlation(ctx context.Context, q CorrelationQuery) (models.CorrelationRaw, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordFetch(kind string, seconds float64)
	RecordError(kind string)
	RecordRows(chart string, n int)
	RecordExcluded(chart string, n int)
	RecordLatency(op string, seconds float64)
}
