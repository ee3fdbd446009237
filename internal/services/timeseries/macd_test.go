package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinLens/internal/domain/models"
)

func TestMACDHistogram_OnlyWhereBothPresent(t *testing.T) {
	macd := series("macd", "2024-01-01", 5.0, "2024-01-02", 6.0)
	signal := series("ema_12", "2024-01-01", 4.0)

	hist := MACDHistogram(macd, signal)

	require.Len(t, hist, 1)
	assert.Equal(t, models.CalendarDate("2024-01-01"), hist[0].Date)
	assert.InDelta(t, 1.0, hist[0].Value.Value, 1e-12)
}

func TestMACDHistogram_SignalOnlyDateIgnored(t *testing.T) {
	macd := series("macd", "2024-01-02", 1.0)
	signal := series("ema_12", "2024-01-01", 4.0, "2024-01-02", 1.5)

	hist := MACDHistogram(macd, signal)
	require.Len(t, hist, 1)
	assert.InDelta(t, -0.5, hist[0].Value.Value, 1e-12)
}

func TestMACDChart(t *testing.T) {
	macd := series("macd", "2024-01-02", 6.0, "2024-01-01", 5.0)
	signal := series("ema_12", "2024-01-01", 4.0)

	pts := MACDChart(macd, signal)
	require.Len(t, pts, 2)

	assert.Equal(t, models.CalendarDate("2024-01-01"), pts[0].Date)
	assert.True(t, pts[0].Signal.Valid)
	assert.True(t, pts[0].Histogram.Valid)
	assert.InDelta(t, 1.0, pts[0].Histogram.Value, 1e-12)

	assert.True(t, pts[1].MACD.Valid)
	assert.False(t, pts[1].Signal.Valid)
	assert.False(t, pts[1].Histogram.Valid, "no histogram is not a zero histogram")
}

func TestMACD_Empty(t *testing.T) {
	assert.NotNil(t, MACDHistogram(models.Series{}, models.Series{}))
	assert.NotNil(t, MACDChart(models.Series{}, models.Series{}))
}
