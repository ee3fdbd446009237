package timeseries

import (
	"encoding/json"
	"math"

	"FinLens/internal/domain/models"
)

// Metric keys in the backtest metrics payload.
const (
	MetricTotalReturn  = "total_return"
	MetricCAGR         = "cagr"
	MetricMaxDrawdown  = "mdd"
	MetricVolatility   = "volatility"
	MetricSharpe       = "sharpe"
	MetricSortino      = "sortino"
	MetricCalmar       = "calmar"
	MetricWinRate      = "win_rate"
	MetricNumTrades    = "num_trades"
	MetricAvgTradePnL  = "avg_trade_pnl"
	MetricBuyHoldCAGR  = "bh_cagr"
	MetricExcessReturn = "excess_return"
)

// AggregateMetrics extracts the fixed metrics schema from an untrusted
// payload. Missing, non-numeric and non-finite fields are unknown. A nil
// payload yields an all-unknown record.
func AggregateMetrics(payload map[string]any) models.MetricsRecord {
	get := func(key string) models.Optional { return numeric(payload[key]) }
	return models.MetricsRecord{
		TotalReturn:  get(MetricTotalReturn),
		CAGR:         get(MetricCAGR),
		MaxDrawdown:  get(MetricMaxDrawdown),
		Volatility:   get(MetricVolatility),
		Sharpe:       get(MetricSharpe),
		Sortino:      get(MetricSortino),
		Calmar:       get(MetricCalmar),
		WinRate:      get(MetricWinRate),
		NumTrades:    get(MetricNumTrades),
		AvgTradePnL:  get(MetricAvgTradePnL),
		BuyHoldCAGR:  get(MetricBuyHoldCAGR),
		ExcessReturn: get(MetricExcessReturn),
	}
}

// numeric accepts Go numeric kinds and json.Number. Strings are not parsed:
// a value like "0.5" in a metrics payload means the producer changed shape.
func numeric(raw any) models.Optional {
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return models.None()
		}
		v = f
	default:
		return models.None()
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.None()
	}
	return models.Some(v)
}
