package timeseries

import "FinLens/internal/domain/models"

// MACDHistogram returns macd - signal on every date where both lines have a
// value, ascending. A date with only one line yields no point.
func MACDHistogram(macd, signal models.Series) []models.DatedRecord {
	sig := indexValues(signal)
	out := make([]models.DatedRecord, 0, len(macd.Records))
	for _, r := range Dedupe(macd).Records {
		if !r.Value.Valid {
			continue
		}
		s, ok := sig.Get(r.Date)
		if !ok {
			continue
		}
		out = append(out, models.DatedRecord{EntityKey: r.EntityKey, Date: r.Date, Value: models.Some(r.Value.Value - s)})
	}
	return out
}

// MACDChart emits one point per MACD date. Signal is set where the signal
// line has a value, Histogram only where both lines do.
func MACDChart(macd, signal models.Series) []models.MACDPoint {
	sig := indexValues(signal)
	records := Dedupe(macd).Records
	out := make([]models.MACDPoint, 0, len(records))
	for _, r := range records {
		p := models.MACDPoint{Date: r.Date, MACD: r.Value}
		if s, ok := sig.Get(r.Date); ok {
			p.Signal = models.Some(s)
			if r.Value.Valid {
				p.Histogram = models.Some(r.Value.Value - s)
			}
		}
		out = append(out, p)
	}
	return out
}

func indexValues(s models.Series) *DateIndex[float64] {
	ix := NewDateIndex[float64](len(s.Records))
	for _, r := range Dedupe(s).Records {
		if r.Value.Valid {
			ix.Put(r.Date, r.Value.Value)
		}
	}
	return ix
}
