package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinLens/internal/domain/models"
)

func TestCorrelation(t *testing.T) {
	rows := []models.WideRow{
		row("2024-01-01", map[string]float64{"A": 100, "B": 50, "C": 10}),
		row("2024-01-02", map[string]float64{"A": 110, "B": 55, "C": 9}),
		row("2024-01-03", map[string]float64{"A": 99, "B": 49.5, "C": 10}),
		row("2024-01-04", map[string]float64{"A": 108.9, "B": 54.45, "C": 9}),
	}

	m, err := Correlation(rows, []string{"A", "B", "C", "D"}, 60)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, m.AssetIDs)
	require.Equal(t, 3, m.Size())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, m.Matrix[i][i])
		for j := 0; j < 3; j++ {
			assert.Equal(t, m.Matrix[i][j], m.Matrix[j][i])
		}
	}
	assert.InDelta(t, 1.0, m.Matrix[0][1], 1e-4, "B moves exactly with A")
	assert.Less(t, m.Matrix[0][2], 0.0)
	assert.Equal(t, models.CalendarDate("2024-01-01"), m.Period.Start)
	assert.Equal(t, models.CalendarDate("2024-01-04"), m.Period.End)
	assert.Equal(t, 4, m.Period.Window, "only four dates are available")
}

func TestCorrelation_WindowAndUndefined(t *testing.T) {
	rows := []models.WideRow{
		row("2024-01-01", map[string]float64{"A": 1}),
		row("2024-01-02", map[string]float64{"A": 2, "B": 5}),
		row("2024-01-03", map[string]float64{"A": 3, "B": 5}),
		row("2024-01-04", map[string]float64{"A": 5, "B": 5}),
	}

	m, err := Correlation(rows, []string{"A", "B"}, 3)
	require.NoError(t, err)
	assert.Equal(t, models.CalendarDate("2024-01-02"), m.Period.Start)
	assert.Equal(t, 3, m.Period.Window)
	assert.Equal(t, 0.0, m.Matrix[0][1], "constant series has no defined correlation")
}

func TestCorrelation_NotEnoughAssets(t *testing.T) {
	rows := []models.WideRow{row("2024-01-01", map[string]float64{"A": 1})}
	_, err := Correlation(rows, []string{"A", "B"}, 60)
	assert.ErrorIs(t, err, ErrNotEnoughAssets)

	_, err = Correlation(nil, nil, 60)
	assert.ErrorIs(t, err, ErrNotEnoughAssets)
}
