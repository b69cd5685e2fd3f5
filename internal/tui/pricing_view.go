package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshade/pricelens/internal/chart"
	"github.com/rshade/pricelens/internal/pricing"
)

const dashboardTitle = "AI Model Pricing Comparison"

// View renders the dashboard (Bubble Tea interface). Before the data has
// loaded it shows the same layout with an empty chart and toggle list.
func (m PricingModel) View() string {
	if m.viewState == ViewStateQuitting {
		return ""
	}

	sections := []string{HeaderStyle.Render(dashboardTitle)}
	if m.loadErr != nil {
		sections = append(sections, CriticalStyle.Render(fmt.Sprintf("Error: %v", m.loadErr)))
	}
	sections = append(sections,
		renderButtonRow("Price Range", pricing.Tiers(), m.state.Tier),
		renderButtonRow("Display    ", pricing.DisplayModes(), m.state.Mode),
		"",
		m.renderBody(),
		m.renderStatusBar(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderBody lays the chart and the settings panel side by side, or stacked
// on narrow terminals.
func (m PricingModel) renderBody() string {
	if m.width < stackedBreakpoint {
		chartView := chart.RenderBars(chart.FromState(m.state), m.width-borderPadding, m.precision)
		return lipgloss.JoinVertical(lipgloss.Left, chartView, "", m.renderSettings(m.width-borderPadding))
	}

	chartWidth := m.width - settingsPanelWidth - borderPadding
	chartView := lipgloss.NewStyle().
		Width(chartWidth).
		Render(chart.RenderBars(chart.FromState(m.state), chartWidth, m.precision))
	return lipgloss.JoinHorizontal(lipgloss.Top, chartView, m.renderSettings(settingsPanelWidth))
}

// renderSettings draws the toggle list: one checkbox per record.
func (m PricingModel) renderSettings(width int) string {
	var content strings.Builder
	content.WriteString(HeaderStyle.Render("Settings"))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Toggle models to display"))
	content.WriteString("\n\n")

	rows := m.list.View(func(rec pricing.PriceRecord, cursor bool) string {
		return m.renderToggleRow(rec, cursor, width-borderPadding*2)
	})
	if rows == "" {
		rows = SubtleStyle.Render("No models loaded.")
	}
	content.WriteString(rows)

	return BoxStyle.Width(width - borderPadding).Render(content.String())
}

func (m PricingModel) renderToggleRow(rec pricing.PriceRecord, cursor bool, width int) string {
	box := "[ ]"
	if m.state.Selection.Has(rec.Name) {
		box = "[x]"
	}
	line := lipgloss.NewStyle().MaxWidth(width).Render(box + " " + rec.Name)
	if cursor {
		return CursorRowStyle.Render(line)
	}
	return line
}

// renderStatusBar shows selection counts, the spinner while loading, and key help.
func (m PricingModel) renderStatusBar() string {
	var status string
	if m.viewState == ViewStateLoading {
		status = m.loading.View()
	} else {
		status = fmt.Sprintf("%d/%d models selected | tier: %s | display: %s",
			m.state.SelectedCount(), len(m.state.Records), m.state.Tier, m.state.Mode)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		SubtleStyle.Render(status),
		m.help.View(m.keys),
	)
}

// renderButtonRow draws a labelled row of buttons with the active one highlighted.
func renderButtonRow[T interface {
	comparable
	fmt.Stringer
}](label string, options []T, active T) string {
	caser := cases.Title(language.English)
	buttons := make([]string, 0, len(options)+1)
	buttons = append(buttons, LabelStyle.Render(label+"  "))
	for _, opt := range options {
		style := ButtonStyle
		if opt == active {
			style = ActiveButtonStyle
		}
		buttons = append(buttons, style.Render(caser.String(opt.String())))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}
