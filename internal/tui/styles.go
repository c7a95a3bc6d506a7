package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sakif/droplog/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentMain))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorSecondaryText))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentBright))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning))
)

// statusColor maps an airdrop status to its badge color.
func statusColor(s model.AirdropStatus) lipgloss.Color {
	switch s {
	case model.StatusFarming:
		return lipgloss.Color(ColorFarming)
	case model.StatusClaimable:
		return lipgloss.Color(ColorClaimable)
	case model.StatusCompleted:
		return lipgloss.Color(ColorCompleted)
	case model.StatusUpcoming:
		return lipgloss.Color(ColorUpcoming)
	default:
		return lipgloss.Color(ColorSecondaryText)
	}
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
