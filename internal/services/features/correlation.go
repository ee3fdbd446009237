package features

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"

	"FinLens/internal/domain/models"
)

var ErrNotEnoughAssets = errors.New("need price data for at least two assets")

// Correlation computes the Pearson correlation of simple returns for assets
// over the last window aligned dates of rows. Each pair uses only the dates
// where both assets have a return. Undefined coefficients are 0, values are
// rounded to 4 decimals and the diagonal is 1. Assets without any price in
// the window are dropped. Period.Window reports the number of dates used.
func Correlation(rows []models.WideRow, assets []string, window int) (models.CorrelationMatrix, error) {
	rows = Tail(rows, window)

	present := make([]string, 0, len(assets))
	for _, a := range assets {
		for _, r := range rows {
			if _, ok := r.Get(a); ok {
				present = append(present, a)
				break
			}
		}
	}
	if len(present) < 2 {
		return models.CorrelationMatrix{}, ErrNotEnoughAssets
	}

	returns := ComputeReturns(rows)
	n := len(present)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := pairCorrelation(returns, present[i], present[j])
			m[i][j], m[j][i] = c, c
		}
	}

	out := models.CorrelationMatrix{
		AssetIDs: present,
		Matrix:   m,
		Period:   models.CorrelationPeriod{Window: len(rows)},
	}
	if len(rows) > 0 {
		out.Period.Start = rows[0].Date
		out.Period.End = rows[len(rows)-1].Date
	}
	return out, nil
}

func pairCorrelation(returns []models.WideRow, a, b string) float64 {
	var xs, ys stats.Float64Data
	for _, r := range returns {
		x, okx := r.Get(a)
		y, oky := r.Get(b)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return 0
	}
	c, err := stats.Correlation(xs, ys)
	if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	c = math.Max(-1, math.Min(1, c))
	return round(c, 4)
}

func round(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil {
		return v
	}
	return r
}
