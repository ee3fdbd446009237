package models

import (
	"encoding/json"
	"math"
	"sort"
)

// CalendarDate is an ISO calendar day in fixed-width "YYYY-MM-DD" form.
// Ordering is plain string comparison, which only holds because the width
// is fixed; values must come from timeseries.ParseDate.
type CalendarDate string

func (d CalendarDate) String() string { return string(d) }

// Before reports whether d sorts strictly before o.
func (d CalendarDate) Before(o CalendarDate) bool { return d < o }

// Optional is a number that may be unknown. The zero value is unknown, never 0.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a known value.
func Some(v float64) Optional { return Optional{Value: v, Valid: true} }

// None returns an unknown value.
func None() Optional { return Optional{} }

// Ptr returns nil for unknown values.
func (o Optional) Ptr() *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid || math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// DatedRecord is a single observation of one entity on one day.
type DatedRecord struct {
	EntityKey string
	Date      CalendarDate
	Value     Optional
}

// Series is one keyed sub-series of the merger input.
type Series struct {
	Key     string
	Records []DatedRecord
}

// SeriesSet is the ordered merger input.
type SeriesSet []Series

// WideRow is one date of an aligned table. A key missing from Values means
// "no observation that day" and is distinct from a stored 0.
type WideRow struct {
	Date   CalendarDate
	Values map[string]float64
}

// Get returns the value stored for key and whether it exists.
func (r WideRow) Get(key string) (float64, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// MarshalJSON flattens the row to {"date": ..., "<key>": value, ...}.
func (r WideRow) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(r.Values))
	for k := range r.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := make([]byte, 0, 32+len(keys)*24)
	buf = append(buf, `{"date":`...)
	d, err := json.Marshal(string(r.Date))
	if err != nil {
		return nil, err
	}
	buf = append(buf, d...)
	for _, k := range keys {
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.Values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, ',')
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Direction is the side of a trading signal.
type Direction int

const (
	DirectionNone Direction = 0
	DirectionBuy  Direction = 1
	DirectionSell Direction = -1
)

// DirectionOf maps the backend's signed signal value to a Direction.
func DirectionOf(v int) Direction {
	switch {
	case v > 0:
		return DirectionBuy
	case v < 0:
		return DirectionSell
	default:
		return DirectionNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "buy"
	case DirectionSell:
		return "sell"
	default:
		return "hold"
	}
}

func (d Direction) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// SignalRecord is a normalized strategy signal for one asset and day.
type SignalRecord struct {
	AssetID    string
	StrategyID string
	Date       CalendarDate
	Direction  Direction
	Score      Optional
	Action     string
}

// OverlaySignal is the signal attached to an overlay point.
type OverlaySignal struct {
	Direction Direction `json:"direction"`
	Score     *float64  `json:"score,omitempty"`
	Action    string    `json:"action,omitempty"`
}

// OverlayPoint is one price date with an optional signal marker. Price is
// null when the close of that date is unknown.
type OverlayPoint struct {
	Date   CalendarDate   `json:"date"`
	Price  Optional       `json:"price"`
	Signal *OverlaySignal `json:"signal,omitempty"`
}

// MetricsRecord is the fixed metrics schema of a backtest run. Every field
// not present as a finite number in the source payload is unknown.
type MetricsRecord struct {
	TotalReturn  Optional `json:"total_return"`
	CAGR         Optional `json:"cagr"`
	MaxDrawdown  Optional `json:"mdd"`
	Volatility   Optional `json:"volatility"`
	Sharpe       Optional `json:"sharpe"`
	Sortino      Optional `json:"sortino"`
	Calmar       Optional `json:"calmar"`
	WinRate      Optional `json:"win_rate"`
	NumTrades    Optional `json:"num_trades"`
	AvgTradePnL  Optional `json:"avg_trade_pnl"`
	BuyHoldCAGR  Optional `json:"bh_cagr"`
	ExcessReturn Optional `json:"excess_return"`
}

type CorrelationPeriod struct {
	Start  CalendarDate `json:"start"`
	End    CalendarDate `json:"end"`
	Window int          `json:"window"`
}

// CorrelationMatrix is square; Matrix[i][j] correlates AssetIDs[i] with
// AssetIDs[j].
type CorrelationMatrix struct {
	AssetIDs []string          `json:"asset_ids"`
	Matrix   [][]float64       `json:"matrix"`
	Period   CorrelationPeriod `json:"period"`
}

// Size returns the number of assets on each axis.
func (m CorrelationMatrix) Size() int { return len(m.AssetIDs) }

// Trade is a normalized trade log entry. ExitDate is empty for open trades.
type Trade struct {
	RunID      string       `json:"run_id"`
	AssetID    string       `json:"asset_id"`
	Side       string       `json:"side"`
	EntryDate  CalendarDate `json:"entry_date"`
	EntryPrice float64      `json:"entry_price"`
	ExitDate   CalendarDate `json:"exit_date,omitempty"`
	ExitPrice  Optional     `json:"exit_price"`
	Shares     float64      `json:"shares"`
	PnL        Optional     `json:"pnl"`
	Cost       Optional     `json:"cost"`
}

// IsOpen reports whether the trade has not been closed yet.
func (t Trade) IsOpen() bool { return t.ExitDate == "" }
