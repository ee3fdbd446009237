package timeseries

import "FinLens/internal/domain/models"

// Dedupe collapses s to one record per date (later input wins), ascending.
func Dedupe(s models.Series) models.Series {
	ix := NewDateIndex[models.DatedRecord](len(s.Records))
	for _, r := range s.Records {
		ix.Put(r.Date, r)
	}
	out := models.Series{Key: s.Key, Records: make([]models.DatedRecord, 0, ix.Len())}
	for _, d := range ix.Dates() {
		r, _ := ix.Get(d)
		out.Records = append(out.Records, r)
	}
	return out
}

// NormalizedReturns rebases every sub-series on its first chronological
// observation: value[t] = price[t] / price[0] * 100. A sub-series whose first
// observation is zero or unknown cannot be rebased and is returned in
// excluded instead. Unknown later points stay unknown.
func NormalizedReturns(set models.SeriesSet) (out models.SeriesSet, excluded []string) {
	out = make(models.SeriesSet, 0, len(set))
	excluded = []string{}
	for _, s := range set {
		sorted := Dedupe(s)
		if len(sorted.Records) == 0 {
			excluded = append(excluded, s.Key)
			continue
		}
		base := sorted.Records[0].Value
		if !base.Valid || base.Value == 0 {
			excluded = append(excluded, s.Key)
			continue
		}
		rebased := models.Series{Key: s.Key, Records: make([]models.DatedRecord, 0, len(sorted.Records))}
		for i, r := range sorted.Records {
			v := models.None()
			switch {
			case i == 0:
				v = models.Some(100)
			case r.Value.Valid:
				v = models.Some(r.Value.Value / base.Value * 100)
			}
			rebased.Records = append(rebased.Records, models.DatedRecord{EntityKey: r.EntityKey, Date: r.Date, Value: v})
		}
		out = append(out, rebased)
	}
	return out, excluded
}
