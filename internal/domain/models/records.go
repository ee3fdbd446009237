package models

import "time"

// Raw records as returned by the research backend. Field names mirror its
// response schemas; dates are "YYYY-MM-DD" strings and are validated by the
// timeseries normalizer before any alignment happens.

type Asset struct {
	AssetID  string `json:"asset_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active"`
}

// PriceDaily is one OHLCV bar.
type PriceDaily struct {
	AssetID string  `json:"asset_id"`
	Date    string  `json:"date"`
	Open    float64 `json:"open"`
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
	Close   float64 `json:"close"`
	Volume  float64 `json:"volume"`
	Source  string  `json:"source"`
}

// FactorDaily is one pre-computed factor observation.
type FactorDaily struct {
	AssetID    string  `json:"asset_id"`
	Date       string  `json:"date"`
	FactorName string  `json:"factor_name"`
	Version    string  `json:"version"`
	Value      float64 `json:"value"`
}

// SignalDaily is one strategy signal row. Signal is 1 (buy), -1 (sell/exit)
// or 0 (hold).
type SignalDaily struct {
	ID         int64          `json:"id"`
	AssetID    string         `json:"asset_id"`
	Date       string         `json:"date"`
	StrategyID string         `json:"strategy_id"`
	Signal     int            `json:"signal"`
	Score      *float64       `json:"score"`
	Action     *string        `json:"action"`
	Meta       map[string]any `json:"meta_json"`
}

// BacktestRun describes a single backtest execution. Metrics is an opaque
// payload produced by the research engine.
type BacktestRun struct {
	RunID      string         `json:"run_id"`
	StrategyID string         `json:"strategy_id"`
	AssetID    string         `json:"asset_id"`
	Status     string         `json:"status"`
	Config     map[string]any `json:"config_json"`
	Metrics    map[string]any `json:"metrics_json"`
	StartedAt  time.Time      `json:"started_at"`
	EndedAt    *time.Time     `json:"ended_at"`
}

// RunStatusSuccess marks a completed run.
const RunStatusSuccess = "success"

type EquityDaily struct {
	RunID    string  `json:"run_id"`
	Date     string  `json:"date"`
	Equity   float64 `json:"equity"`
	Drawdown float64 `json:"drawdown"`
}

type TradeLog struct {
	ID         int64    `json:"id"`
	RunID      string   `json:"run_id"`
	AssetID    string   `json:"asset_id"`
	EntryDate  string   `json:"entry_date"`
	EntryPrice float64  `json:"entry_price"`
	ExitDate   *string  `json:"exit_date"`
	ExitPrice  *float64 `json:"exit_price"`
	Side       string   `json:"side"`
	Shares     float64  `json:"shares"`
	PnL        *float64 `json:"pnl"`
	Cost       *float64 `json:"cost"`
}

type CorrelationPeriodRaw struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Window int    `json:"window"`
}

type CorrelationRaw struct {
	AssetIDs []string             `json:"asset_ids"`
	Matrix   [][]float64          `json:"matrix"`
	Period   CorrelationPeriodRaw `json:"period"`
}
