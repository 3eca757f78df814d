package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	laneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	focusedLaneStyle = laneStyle.Copy().
				BorderForeground(primaryColor)

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(fgColor).
				Bold(true).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	messageStyle = lipgloss.NewStyle().Foreground(successColor)
	userStyle    = lipgloss.NewStyle().Foreground(successColor)

	priorityHigh   = lipgloss.NewStyle().Foreground(errorColor)
	priorityMedium = lipgloss.NewStyle().Foreground(warningColor)
	priorityLow    = lipgloss.NewStyle().Foreground(cyanColor)
)
