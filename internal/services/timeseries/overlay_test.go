package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinLens/internal/domain/models"
)

func sig(date string, dir models.Direction) models.SignalRecord {
	return models.SignalRecord{AssetID: "AAPL", StrategyID: "momentum", Date: models.CalendarDate(date), Direction: dir}
}

func TestBuildOverlay(t *testing.T) {
	prices := series("AAPL", "2024-01-01", 1.0, "2024-01-02", 2.0, "2024-01-03", 3.0)
	signals := []models.SignalRecord{
		sig("2024-01-02", models.DirectionBuy),
		sig("2024-01-04", models.DirectionBuy),
	}

	pts := BuildOverlay(prices, signals)

	require.Len(t, pts, 3)
	assert.Nil(t, pts[0].Signal)
	require.NotNil(t, pts[1].Signal)
	assert.Equal(t, models.DirectionBuy, pts[1].Signal.Direction)
	assert.Nil(t, pts[2].Signal)
	for _, p := range pts {
		assert.NotEqual(t, models.CalendarDate("2024-01-04"), p.Date)
	}
}

func TestBuildOverlay_UnknownPriceKeepsDate(t *testing.T) {
	prices := series("AAPL", "2024-01-01", 1.0, "2024-01-02", 2.0, "2024-01-03", 3.0)
	prices.Records[1].Value = models.None()

	pts := BuildOverlay(prices, []models.SignalRecord{sig("2024-01-02", models.DirectionSell)})

	require.Len(t, pts, 3)
	assert.Equal(t, models.CalendarDate("2024-01-02"), pts[1].Date)
	assert.False(t, pts[1].Price.Valid)
	require.NotNil(t, pts[1].Signal)
	assert.Equal(t, models.DirectionSell, pts[1].Signal.Direction)
	assert.Equal(t, models.Some(3), pts[2].Price)
}

func TestFilterSignals(t *testing.T) {
	other := sig("2024-01-02", models.DirectionSell)
	other.StrategyID = "mean_reversion"
	foreign := sig("2024-01-02", models.DirectionSell)
	foreign.AssetID = "MSFT"

	got := FilterSignals([]models.SignalRecord{sig("2024-01-01", models.DirectionBuy), other, foreign}, "AAPL", "momentum")

	require.Len(t, got, 1)
	assert.Equal(t, models.CalendarDate("2024-01-01"), got[0].Date)
}

func TestBuildOverlay_ZeroDirectionIgnored(t *testing.T) {
	prices := series("AAPL", "2024-01-01", 1.0)
	pts := BuildOverlay(prices, []models.SignalRecord{sig("2024-01-01", models.DirectionNone)})

	require.Len(t, pts, 1)
	assert.Nil(t, pts[0].Signal)
}

func TestBuildOverlay_LastWriteWins(t *testing.T) {
	prices := series("AAPL", "2024-01-01", 1.0)
	score := 0.7
	second := sig("2024-01-01", models.DirectionSell)
	second.Score = models.Some(score)
	second.Action = "exit"

	pts := BuildOverlay(prices, []models.SignalRecord{sig("2024-01-01", models.DirectionBuy), second})

	require.NotNil(t, pts[0].Signal)
	assert.Equal(t, models.DirectionSell, pts[0].Signal.Direction)
	require.NotNil(t, pts[0].Signal.Score)
	assert.Equal(t, score, *pts[0].Signal.Score)
	assert.Equal(t, "exit", pts[0].Signal.Action)
}

func TestBuildOverlay_Empty(t *testing.T) {
	pts := BuildOverlay(models.Series{}, []models.SignalRecord{sig("2024-01-01", models.DirectionBuy)})
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
}

func TestLatestSignal(t *testing.T) {
	s, ok := LatestSignal([]models.SignalRecord{
		sig("2024-01-03", models.DirectionSell),
		sig("2024-01-01", models.DirectionBuy),
	})
	require.True(t, ok)
	assert.Equal(t, "sell", s.Direction.String())

	_, ok = LatestSignal(nil)
	assert.False(t, ok)
}
