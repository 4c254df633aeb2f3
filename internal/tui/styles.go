package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	groupStyle       = lipgloss.NewStyle().Bold(true)
	focusMarkerStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	triggerStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle    = triggerStyle.Bold(true).Underline(true).Foreground(colorAccent)
	panelStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)
