package timeseries

import (
	"fmt"
	"math"

	"FinLens/internal/domain/models"
)

type Hue string

const (
	HueNeutral Hue = "neutral"
	HueWarm    Hue = "warm"
	HueCool    Hue = "cool"
)

// Color is a point on the diverging correlation scale. Intensity is |v|
// after clamping, so v and -v share it and differ only in Hue.
type Color struct {
	R, G, B   uint8
	Hue       Hue
	Intensity float64
}

func (c Color) String() string { return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B) }

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}

// CorrelationColor maps v to white at 0, saturated red at 1 and saturated
// blue at -1, interpolating linearly. Out of range values are clamped.
func CorrelationColor(v float64) Color {
	v = clamp(v)
	a := math.Abs(v)
	fade := uint8(math.Round(255 * (1 - a)))
	switch {
	case v > 0:
		return Color{R: 255, G: fade, B: fade, Hue: HueWarm, Intensity: a}
	case v < 0:
		return Color{R: fade, G: fade, B: 255, Hue: HueCool, Intensity: a}
	default:
		return Color{R: 255, G: 255, B: 255, Hue: HueNeutral}
	}
}

// TextColor picks a label colour readable on CorrelationColor(v).
func TextColor(v float64) string {
	if math.Abs(clamp(v)) > 0.6 {
		return "#fff"
	}
	return "#1f2937"
}

// Heatmap expands m into one coloured cell per coefficient, row major.
func Heatmap(m models.CorrelationMatrix) []models.HeatmapCell {
	n := m.Size()
	cells := make([]models.HeatmapCell, 0, n*n)
	for i := 0; i < n && i < len(m.Matrix); i++ {
		for j := 0; j < n && j < len(m.Matrix[i]); j++ {
			v := clamp(m.Matrix[i][j])
			cells = append(cells, models.HeatmapCell{
				Row:       i,
				Col:       j,
				RowAsset:  m.AssetIDs[i],
				ColAsset:  m.AssetIDs[j],
				Value:     v,
				Color:     CorrelationColor(v).String(),
				TextColor: TextColor(v),
			})
		}
	}
	return cells
}
