package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"})

	paragraphStyle = lipgloss.NewStyle().
			Width(78).
			Padding(0, 0, 0, 2)
)

// keyword renders a highlighted term for help text.
func keyword(s string) string {
	return keywordStyle.Render(s)
}

// paragraph formats a block of help text.
func paragraph(s string) string {
	return paragraphStyle.Render(wordwrap.String(strings.TrimSpace(s), 76))
}
