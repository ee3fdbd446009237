package timeseries

import "FinLens/internal/domain/models"

// Merge aligns every sub-series on the union of their dates, ascending.
// Unknown values and missing dates both leave the key absent from the row.
// A date/key pair seen twice keeps the later record in input order.
func Merge(set models.SeriesSet) []models.WideRow {
	ix := NewDateIndex[map[string]float64](0)
	for _, s := range set {
		for _, r := range s.Records {
			vals, ok := ix.Get(r.Date)
			if !ok {
				vals = make(map[string]float64, len(set))
				ix.Put(r.Date, vals)
			}
			if r.Value.Valid {
				vals[s.Key] = r.Value.Value
			} else {
				delete(vals, s.Key)
			}
		}
	}

	dates := ix.Dates()
	rows := make([]models.WideRow, 0, len(dates))
	for _, d := range dates {
		vals, _ := ix.Get(d)
		rows = append(rows, models.WideRow{Date: d, Values: vals})
	}
	return rows
}

// Keys returns the sub-series keys in input order without duplicates.
func Keys(set models.SeriesSet) []string {
	seen := make(map[string]struct{}, len(set))
	out := make([]string, 0, len(set))
	for _, s := range set {
		if _, ok := seen[s.Key]; ok {
			continue
		}
		seen[s.Key] = struct{}{}
		out = append(out, s.Key)
	}
	return out
}

// Slice returns the records of s dated within [start, end]. Empty bounds are
// open.
func Slice(s models.Series, start, end models.CalendarDate) models.Series {
	out := models.Series{Key: s.Key, Records: make([]models.DatedRecord, 0, len(s.Records))}
	for _, r := range s.Records {
		if start != "" && r.Date.Before(start) {
			continue
		}
		if end != "" && end.Before(r.Date) {
			continue
		}
		out.Records = append(out.Records, r)
	}
	return out
}
