package models

// Chart payloads returned by the use cases. Each payload carries the
// effective date range and, when some fetch branch failed, an Errors map
// keyed by branch name.

type DateRange struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// PriceChart holds one bar field (close by default) and its window-relative
// normalized returns.
type PriceChart struct {
	Range    DateRange         `json:"range"`
	Field    string            `json:"field"`
	Assets   []string          `json:"assets"`
	Rows     []WideRow         `json:"rows"`
	Returns  []WideRow         `json:"returns"`
	Excluded []string          `json:"excluded"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// MACDPoint is one MACD chart point. Histogram is set only when both lines
// have a value on the date.
type MACDPoint struct {
	Date      CalendarDate `json:"date"`
	MACD      Optional     `json:"macd"`
	Signal    Optional     `json:"signal"`
	Histogram Optional     `json:"histogram"`
}

// FactorRow is one row of the comparison table: one factor, one column per
// asset that has a value.
type FactorRow struct {
	Factor string             `json:"factor"`
	Values map[string]float64 `json:"values"`
}

type FactorTable struct {
	Assets []string    `json:"assets"`
	Rows   []FactorRow `json:"rows"`
}

type FactorChart struct {
	Range   DateRange              `json:"range"`
	Assets  []string               `json:"assets"`
	Factors map[string][]WideRow   `json:"factors"`
	MACD    map[string][]MACDPoint `json:"macd,omitempty"`
	Table   FactorTable            `json:"table"`
	Errors  map[string]string      `json:"errors,omitempty"`
}

// StrategySignal is the latest signal of one strategy for an asset.
type StrategySignal struct {
	StrategyID string       `json:"strategy_id"`
	Date       CalendarDate `json:"date,omitempty"`
	Direction  Direction    `json:"direction"`
	Score      Optional     `json:"score"`
	Action     string       `json:"action,omitempty"`
}

type SignalChart struct {
	Range    DateRange                 `json:"range"`
	AssetID  string                    `json:"asset_id"`
	Overlays map[string][]OverlayPoint `json:"overlays"`
	Matrix   []StrategySignal          `json:"matrix"`
	Errors   map[string]string         `json:"errors,omitempty"`
}

// StrategyRun is one successful backtest run with its extracted metrics and
// trade log.
type StrategyRun struct {
	RunID      string        `json:"run_id"`
	StrategyID string        `json:"strategy_id"`
	Label      string        `json:"label"`
	Metrics    MetricsRecord `json:"metrics"`
	Trades     []Trade       `json:"trades"`
}

type StrategyChart struct {
	AssetID  string            `json:"asset_id"`
	Runs     []StrategyRun     `json:"runs"`
	Labels   []string          `json:"labels"`
	Equity   []WideRow         `json:"equity"`
	Drawdown []WideRow         `json:"drawdown"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// HeatmapCell is one coloured correlation matrix cell.
type HeatmapCell struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	RowAsset  string  `json:"row_asset"`
	ColAsset  string  `json:"col_asset"`
	Value     float64 `json:"value"`
	Color     string  `json:"color"`
	TextColor string  `json:"text_color"`
}

type CorrelationChart struct {
	Matrix CorrelationMatrix `json:"matrix"`
	Cells  []HeatmapCell     `json:"cells"`
}

type AssetSummary struct {
	AssetID        string            `json:"asset_id"`
	Name           string            `json:"name"`
	LatestPrice    Optional          `json:"latest_price"`
	PriceChangePct Optional          `json:"price_change_pct"`
	LatestSignals  map[string]string `json:"latest_signals,omitempty"`
	Mini           []WideRow         `json:"mini"`
}

type Dashboard struct {
	Range  DateRange         `json:"range"`
	Assets []AssetSummary    `json:"assets"`
	Errors map[string]string `json:"errors,omitempty"`
}
