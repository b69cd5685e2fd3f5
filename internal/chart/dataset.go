// Package chart turns the derived pricing dataset into renderer input and
// provides the renderers: a terminal bar chart, a plain table and JSON.
package chart

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pricelens/internal/pricing"
)

// Series keys as they appear in JSON output.
const (
	KeyInput  = "Input"
	KeyOutput = "Output"
)

// Series colours.
const (
	ColorInput  = lipgloss.Color("#818cf8")
	ColorOutput = lipgloss.Color("#22d3ee")
)

// Series describes one plotted cost field.
type Series struct {
	Key   string
	Label string
	Color lipgloss.Color
}

// Dataset is everything a renderer needs: the points in display order and
// the series the display mode enables.
type Dataset struct {
	Points []pricing.ChartPoint
	Mode   pricing.DisplayMode
	Series []Series
}

// Bars builds the dataset for points under mode.
func Bars(points []pricing.ChartPoint, mode pricing.DisplayMode) Dataset {
	var series []Series
	if mode.ShowsInput() {
		series = append(series, Series{Key: KeyInput, Label: "Input Cost", Color: ColorInput})
	}
	if mode.ShowsOutput() {
		series = append(series, Series{Key: KeyOutput, Label: "Output Cost", Color: ColorOutput})
	}
	if points == nil {
		points = []pricing.ChartPoint{}
	}
	return Dataset{Points: points, Mode: mode, Series: series}
}

// FromState derives the dataset for a pricing state.
func FromState(s pricing.State) Dataset {
	return Bars(pricing.Derive(s), s.Mode)
}

// Value returns the point's value for a series key.
func Value(p pricing.ChartPoint, key string) float64 {
	if key == KeyOutput {
		return p.Output
	}
	return p.Input
}

// Max returns the largest finite plotted value, or 0.
func (d Dataset) Max() float64 {
	maxVal := 0.0
	for _, p := range d.Points {
		for _, s := range d.Series {
			v := Value(p, s.Key)
			if isFinite(v) && v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// FormatCost formats a cost as "$X.XX" with the given precision.
// NaN and infinities render as "n/a".
func FormatCost(v float64, precision int) string {
	if !isFinite(v) {
		return "n/a"
	}
	if v < 0 {
		return fmt.Sprintf("-$%.*f", precision, -v)
	}
	return fmt.Sprintf("$%.*f", precision, v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
