package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"

	"FinLens/internal/domain/models"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate   = errors.New("invalid calendar date")
	ErrInvalidMatrix = errors.New("invalid correlation matrix")
	ErrInvalidField  = errors.New("unknown price field")
)

// ParseDate accepts only fixed-width YYYY-MM-DD calendar days.
func ParseDate(s string) (models.CalendarDate, error) {
	if len(s) != len(dateLayout) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return models.CalendarDate(s), nil
}

// DateOf formats t as a CalendarDate.
func DateOf(t time.Time) models.CalendarDate {
	return models.CalendarDate(t.Format(dateLayout))
}

// Report counts records dropped by a Normalize call.
type Report struct {
	Accepted int
	Skipped  int
}

func finite(v float64) models.Optional {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.None()
	}
	return models.Some(v)
}

func finitePtr(p *float64) models.Optional {
	if p == nil {
		return models.None()
	}
	return finite(*p)
}

// PriceField selects one column of a daily bar.
type PriceField string

const (
	FieldOpen   PriceField = "open"
	FieldHigh   PriceField = "high"
	FieldLow    PriceField = "low"
	FieldClose  PriceField = "close"
	FieldVolume PriceField = "volume"
)

// ParsePriceField maps a column name to a PriceField; empty means close.
func ParsePriceField(s string) (PriceField, error) {
	switch f := PriceField(s); f {
	case "":
		return FieldClose, nil
	case FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
	}
}

func (f PriceField) of(r models.PriceDaily) float64 {
	switch f {
	case FieldOpen:
		return r.Open
	case FieldHigh:
		return r.High
	case FieldLow:
		return r.Low
	case FieldVolume:
		return r.Volume
	default:
		return r.Close
	}
}

// PriceSeries turns daily bars into series of the chosen field keyed by
// asset, in first-seen asset order. Records with malformed dates or no
// asset are skipped.
func PriceSeries(rows []models.PriceDaily, field PriceField) (models.SeriesSet, Report) {
	g := newGrouper()
	var rep Report
	for _, r := range rows {
		d, err := ParseDate(r.Date)
		if err != nil || r.AssetID == "" {
			rep.Skipped++
			continue
		}
		g.add(r.AssetID, models.DatedRecord{EntityKey: r.AssetID, Date: d, Value: finite(field.of(r))})
		rep.Accepted++
	}
	return g.set(), rep
}

// NormalizePrices is PriceSeries over closes.
func NormalizePrices(rows []models.PriceDaily) (models.SeriesSet, Report) {
	return PriceSeries(rows, FieldClose)
}

// NormalizeFactors groups factor observations by key(asset, factor).
func NormalizeFactors(rows []models.FactorDaily, key func(assetID, factor string) string) (models.SeriesSet, Report) {
	g := newGrouper()
	var rep Report
	for _, r := range rows {
		d, err := ParseDate(r.Date)
		if err != nil || r.FactorName == "" {
			rep.Skipped++
			continue
		}
		k := key(r.AssetID, r.FactorName)
		g.add(k, models.DatedRecord{EntityKey: r.AssetID, Date: d, Value: finite(r.Value)})
		rep.Accepted++
	}
	return g.set(), rep
}

// ByFactor keys factor series by factor name.
func ByFactor(_, factor string) string { return factor }

// ByAsset keys factor series by asset id.
func ByAsset(assetID, _ string) string { return assetID }

func NormalizeSignals(rows []models.SignalDaily) ([]models.SignalRecord, Report) {
	out := make([]models.SignalRecord, 0, len(rows))
	var rep Report
	for _, r := range rows {
		d, err := ParseDate(r.Date)
		if err != nil {
			rep.Skipped++
			continue
		}
		rec := models.SignalRecord{
			AssetID:    r.AssetID,
			StrategyID: r.StrategyID,
			Date:       d,
			Direction:  models.DirectionOf(r.Signal),
			Score:      finitePtr(r.Score),
		}
		if r.Action != nil {
			rec.Action = *r.Action
		}
		out = append(out, rec)
		rep.Accepted++
	}
	return out, rep
}

// NormalizeEquity returns the equity and drawdown curves of one run.
func NormalizeEquity(key string, rows []models.EquityDaily) (equity, drawdown models.Series, rep Report) {
	equity.Key, drawdown.Key = key, key
	equity.Records = make([]models.DatedRecord, 0, len(rows))
	drawdown.Records = make([]models.DatedRecord, 0, len(rows))
	for _, r := range rows {
		d, err := ParseDate(r.Date)
		if err != nil {
			rep.Skipped++
			continue
		}
		equity.Records = append(equity.Records, models.DatedRecord{EntityKey: key, Date: d, Value: finite(r.Equity)})
		drawdown.Records = append(drawdown.Records, models.DatedRecord{EntityKey: key, Date: d, Value: finite(r.Drawdown)})
		rep.Accepted++
	}
	return equity, drawdown, rep
}

// NormalizeTrades validates entry and exit dates. A malformed exit date
// drops the trade; a missing one marks it open.
func NormalizeTrades(rows []models.TradeLog) ([]models.Trade, Report) {
	out := make([]models.Trade, 0, len(rows))
	var rep Report
	for _, r := range rows {
		entry, err := ParseDate(r.EntryDate)
		if err != nil {
			rep.Skipped++
			continue
		}
		t := models.Trade{
			RunID:      r.RunID,
			AssetID:    r.AssetID,
			Side:       r.Side,
			EntryDate:  entry,
			EntryPrice: r.EntryPrice,
			ExitPrice:  finitePtr(r.ExitPrice),
			Shares:     r.Shares,
			PnL:        finitePtr(r.PnL),
			Cost:       finitePtr(r.Cost),
		}
		if r.ExitDate != nil && *r.ExitDate != "" {
			exit, err := ParseDate(*r.ExitDate)
			if err != nil {
				rep.Skipped++
				continue
			}
			t.ExitDate = exit
		}
		out = append(out, t)
		rep.Accepted++
	}
	return out, rep
}

// NormalizeCorrelation checks that the matrix is square over the asset ids
// and clamps every coefficient into [-1, 1]. NaN becomes 0.
func NormalizeCorrelation(raw models.CorrelationRaw) (models.CorrelationMatrix, error) {
	n := len(raw.AssetIDs)
	if len(raw.Matrix) != n {
		return models.CorrelationMatrix{}, fmt.Errorf("%w: %d rows for %d assets", ErrInvalidMatrix, len(raw.Matrix), n)
	}
	m := make([][]float64, n)
	for i, row := range raw.Matrix {
		if len(row) != n {
			return models.CorrelationMatrix{}, fmt.Errorf("%w: row %d has %d columns", ErrInvalidMatrix, i, len(row))
		}
		m[i] = make([]float64, n)
		for j, v := range row {
			if math.IsNaN(v) {
				v = 0
			}
			m[i][j] = clamp(v)
		}
	}
	out := models.CorrelationMatrix{
		AssetIDs: append([]string(nil), raw.AssetIDs...),
		Matrix:   m,
		Period:   models.CorrelationPeriod{Window: raw.Period.Window},
	}
	if out.AssetIDs == nil {
		out.AssetIDs = []string{}
	}
	if d, err := ParseDate(raw.Period.Start); err == nil {
		out.Period.Start = d
	}
	if d, err := ParseDate(raw.Period.End); err == nil {
		out.Period.End = d
	}
	return out, nil
}

// grouper collects records per key keeping first-seen key order.
type grouper struct {
	order []string
	byKey map[string][]models.DatedRecord
}

func newGrouper() *grouper {
	return &grouper{byKey: make(map[string][]models.DatedRecord)}
}

func (g *grouper) add(key string, r models.DatedRecord) {
	if _, ok := g.byKey[key]; !ok {
		g.order = append(g.order, key)
	}
	g.byKey[key] = append(g.byKey[key], r)
}

func (g *grouper) set() models.SeriesSet {
	out := make(models.SeriesSet, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, models.Series{Key: k, Records: g.byKey[k]})
	}
	return out
}
