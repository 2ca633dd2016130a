package ui

import "github.com/charmbracelet/lipgloss"

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#888888"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("#AD58B4")).
			Underline(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C1C6B2")).
			Background(lipgloss.Color("#353533"))

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF5F87")).
				Background(lipgloss.Color("#353533"))

	speakingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	generatingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5C5C5C"))

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECFD65")).
			Background(lipgloss.Color("#FF5F87")).
			Bold(true).
			Padding(0, 1)

	cardBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3).
			Align(lipgloss.Center)

	cardBackStyle = cardBorderStyle.
			BorderForeground(lipgloss.Color("#AD58B4"))

	correctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	incorrectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	chatUserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAFF")).
			Bold(true)

	chatAssistantStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AD58B4")).
				Bold(true)
)
