package timeseries

import "FinLens/internal/domain/models"

func rec(key, date string, v float64) models.DatedRecord {
	return models.DatedRecord{EntityKey: key, Date: models.CalendarDate(date), Value: models.Some(v)}
}

func series(key string, pairs ...any) models.Series {
	s := models.Series{Key: key}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Records = append(s.Records, rec(key, pairs[i].(string), pairs[i+1].(float64)))
	}
	return s
}

func dates(rows []models.WideRow) []models.CalendarDate {
	out := make([]models.CalendarDate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Date)
	}
	return out
}
