package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinLens/internal/domain/models"
)

func TestNormalizedReturns_Identity(t *testing.T) {
	set := models.SeriesSet{
		series("AAPL", "2024-01-02", 220.0, "2024-01-01", 200.0, "2024-01-03", 180.0),
	}

	out, excluded := NormalizedReturns(set)
	require.Len(t, out, 1)
	assert.Empty(t, excluded)

	recs := out[0].Records
	require.Len(t, recs, 3)
	assert.Equal(t, models.CalendarDate("2024-01-01"), recs[0].Date)
	assert.Equal(t, 100.0, recs[0].Value.Value)
	assert.InDelta(t, 110.0, recs[1].Value.Value, 1e-9)
	assert.InDelta(t, 90.0, recs[2].Value.Value, 1e-9)
}

func TestNormalizedReturns_IndependentBases(t *testing.T) {
	set := models.SeriesSet{
		series("AAPL", "2024-01-01", 10.0, "2024-01-02", 20.0),
		series("MSFT", "2024-01-02", 400.0, "2024-01-03", 200.0),
	}

	out, _ := NormalizedReturns(set)
	rows := Merge(out)
	require.Len(t, rows, 3)

	v, _ := rows[1].Get("MSFT")
	assert.Equal(t, 100.0, v, "MSFT starts at its own first date")
	v, _ = rows[1].Get("AAPL")
	assert.InDelta(t, 200.0, v, 1e-9)
}

func TestNormalizedReturns_ExcludesUnusableBase(t *testing.T) {
	zero := series("ZERO", "2024-01-01", 0.0, "2024-01-02", 5.0)
	missing := models.Series{Key: "MISSING", Records: []models.DatedRecord{
		{EntityKey: "MISSING", Date: "2024-01-01"},
		rec("MISSING", "2024-01-02", 5.0),
	}}
	empty := models.Series{Key: "EMPTY"}
	ok := series("OK", "2024-01-01", 4.0)

	out, excluded := NormalizedReturns(models.SeriesSet{zero, missing, empty, ok})

	require.Len(t, out, 1)
	assert.Equal(t, "OK", out[0].Key)
	assert.Equal(t, []string{"ZERO", "MISSING", "EMPTY"}, excluded)
}

func TestNormalizedReturns_Empty(t *testing.T) {
	out, excluded := NormalizedReturns(nil)
	assert.NotNil(t, out)
	assert.NotNil(t, excluded)
	assert.Empty(t, out)
}
