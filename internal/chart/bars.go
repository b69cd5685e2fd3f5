package chart

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants for the bar chart.
const (
	maxLabelWidth = 28
	minBarWidth   = 10
	valueWidth    = 10
	gutterWidth   = 3
	barRune       = "█"
	legendRune    = "■"
	emptyMessage  = "No models selected."
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
)

// RenderBars draws a horizontal bar chart of d that fits in width columns.
// Each model gets one bar per enabled series; bars share one scale. Values
// that are not numbers are shown as "n/a" with no bar.
func RenderBars(d Dataset, width, precision int) string {
	if len(d.Points) == 0 || len(d.Series) == 0 {
		return mutedStyle.Render(emptyMessage)
	}

	labelWidth := 0
	for _, p := range d.Points {
		labelWidth = max(labelWidth, ansi.StringWidth(p.Name))
	}
	labelWidth = min(labelWidth, maxLabelWidth)

	barWidth := max(width-labelWidth-valueWidth-2*gutterWidth, minBarWidth)
	scale := d.Max()

	var sb strings.Builder
	for i, p := range d.Points {
		for j, s := range d.Series {
			label := ""
			if j == 0 {
				label = ansi.Truncate(p.Name, labelWidth, "…")
			}
			sb.WriteString(labelStyle.Render(padRight(label, labelWidth)))
			sb.WriteString(strings.Repeat(" ", gutterWidth))

			v := Value(p, s.Key)
			n := barLength(v, scale, barWidth)
			sb.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(strings.Repeat(barRune, n)))
			sb.WriteString(strings.Repeat(" ", barWidth-n+gutterWidth))
			sb.WriteString(mutedStyle.Render(FormatCost(v, precision)))
			sb.WriteString("\n")
		}
		if i < len(d.Points)-1 && len(d.Series) > 1 {
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(renderLegend(d.Series))
	return sb.String()
}

// barLength scales v into [0, width]. Non-finite and negative values get no bar.
func barLength(v, scale float64, width int) int {
	if !isFinite(v) || v <= 0 || scale <= 0 {
		return 0
	}
	n := int(v / scale * float64(width))
	if n == 0 {
		// Keep tiny but non-zero costs visible.
		n = 1
	}
	return min(n, width)
}

func renderLegend(series []Series) string {
	parts := make([]string, len(series))
	for i, s := range series {
		parts[i] = lipgloss.NewStyle().Foreground(s.Color).Render(legendRune) + " " + s.Label
	}
	return strings.Join(parts, "   ")
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
