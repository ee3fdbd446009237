package features

import (
	"time"

	"FinLens/internal/domain/models"
)

// ComputeReturns computes simple returns r_t = C_t / C_{t-1} - 1 for every key
// over aligned rows. A key gets a return on row t only when it has a positive
// value on both t and t-1, so the first row never carries returns.
func ComputeReturns(rows []models.WideRow) []models.WideRow {
	if len(rows) < 2 {
		return []models.WideRow{}
	}
	out := make([]models.WideRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		vals := make(map[string]float64, len(rows[i].Values))
		for k, cur := range rows[i].Values {
			prev, ok := rows[i-1].Get(k)
			if !ok || prev <= 0 || cur <= 0 {
				continue
			}
			vals[k] = cur/prev - 1
		}
		out = append(out, models.WideRow{Date: rows[i].Date, Values: vals})
	}
	return out
}

// Tail returns the last n rows.
func Tail(rows []models.WideRow, n int) []models.WideRow {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}

// WindowStart returns the first calendar day of a window of days ending on end.
func WindowStart(end time.Time, days int) time.Time {
	if days <= 1 {
		return end
	}
	return end.AddDate(0, 0, -(days - 1))
}

// ChangePct returns (latest - previous) / previous * 100 using the last two
// rows where key has a value. Unknown when fewer than two values exist or
// the previous one is zero.
func ChangePct(rows []models.WideRow, key string) (latest, change models.Optional) {
	var seen []float64
	for i := len(rows) - 1; i >= 0 && len(seen) < 2; i-- {
		if v, ok := rows[i].Get(key); ok {
			seen = append(seen, v)
		}
	}
	if len(seen) == 0 {
		return models.None(), models.None()
	}
	latest = models.Some(seen[0])
	if len(seen) < 2 || seen[1] == 0 {
		return latest, models.None()
	}
	return latest, models.Some(round((seen[0]-seen[1])/seen[1]*100, 2))
}
