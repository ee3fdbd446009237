package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinLens/internal/domain/models"
)

func TestMerge_UnionOfDates(t *testing.T) {
	set := models.SeriesSet{
		series("AAPL", "2024-01-03", 3.0, "2024-01-01", 1.0),
		series("MSFT", "2024-01-02", 20.0, "2024-01-03", 30.0),
		series("SPY", "2024-01-05", 500.0),
	}

	rows := Merge(set)

	assert.Equal(t, []models.CalendarDate{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"}, dates(rows))
}

func TestMerge_GapFidelity(t *testing.T) {
	set := models.SeriesSet{
		series("AAPL", "2024-01-01", 1.0),
		series("MSFT", "2024-01-01", 0.0, "2024-01-02", 2.0),
	}

	rows := Merge(set)
	require.Len(t, rows, 2)

	_, ok := rows[1].Get("AAPL")
	assert.False(t, ok, "AAPL has no observation on 2024-01-02")

	v, ok := rows[0].Get("MSFT")
	assert.True(t, ok, "a stored zero is a value")
	assert.Equal(t, 0.0, v)
}

func TestMerge_LastWriteWins(t *testing.T) {
	set := models.SeriesSet{
		series("AAPL", "2024-01-01", 1.0, "2024-01-01", 5.0),
	}

	rows := Merge(set)
	require.Len(t, rows, 1)
	v, _ := rows[0].Get("AAPL")
	assert.Equal(t, 5.0, v, "later record overwrites, never sums")
}

func TestMerge_UnknownValueIsGap(t *testing.T) {
	s := series("AAPL", "2024-01-01", 1.0)
	s.Records = append(s.Records, models.DatedRecord{EntityKey: "AAPL", Date: "2024-01-02"})

	rows := Merge(models.SeriesSet{s})
	require.Len(t, rows, 2)
	_, ok := rows[1].Get("AAPL")
	assert.False(t, ok)
}

func TestMerge_Empty(t *testing.T) {
	rows := Merge(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows = Merge(models.SeriesSet{{Key: "AAPL"}})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestWideRow_MarshalJSON(t *testing.T) {
	row := models.WideRow{Date: "2024-01-01", Values: map[string]float64{"MSFT": 2, "AAPL": 1.5}}
	b, err := row.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-01","AAPL":1.5,"MSFT":2}`, string(b))
}

func TestKeysAndSlice(t *testing.T) {
	set := models.SeriesSet{series("A"), series("B"), series("A")}
	assert.Equal(t, []string{"A", "B"}, Keys(set))

	s := series("A", "2024-01-01", 1.0, "2024-01-02", 2.0, "2024-01-03", 3.0)
	got := Slice(s, "2024-01-02", "")
	require.Len(t, got.Records, 2)
	assert.Equal(t, models.CalendarDate("2024-01-02"), got.Records[0].Date)

	got = Slice(s, "", "2024-01-01")
	assert.Len(t, got.Records, 1)
}
