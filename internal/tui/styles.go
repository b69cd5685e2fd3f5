package tui

import "github.com/charmbracelet/lipgloss"

// Colour palette (dark theme).
const (
	ColorHeader   = lipgloss.Color("#ffffff")
	ColorLabel    = lipgloss.Color("#9ca3af")
	ColorValue    = lipgloss.Color("#ffffff")
	ColorBorder   = lipgloss.Color("#333333")
	ColorActive   = lipgloss.Color("#2563eb")
	ColorInactive = lipgloss.Color("#1f2937")
	ColorCritical = lipgloss.Color("#ef4444")
	ColorMuted    = lipgloss.Color("#6b7280")
)

// Shared styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)

	LabelStyle = lipgloss.NewStyle().Foreground(ColorLabel)

	ValueStyle = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(ColorInactive).
			Padding(0, 1).
			MarginRight(1)

	ActiveButtonStyle = ButtonStyle.Background(ColorActive).Bold(true)

	CursorRowStyle = lipgloss.NewStyle().Foreground(ColorHeader).Background(ColorInactive)
)
