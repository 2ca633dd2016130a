package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
)

// renderMarkdownCmd renders md with glamour at the panel's width and
// delivers it as a contentRenderedMsg tagged with the requesting panel.
func renderMarkdownCmd(common *commonModel, panel panelID, md string, width int) tea.Cmd {
	return func() tea.Msg {
		out, err := glamourRender(common, md, width)
		if err != nil {
			log.Error("error rendering with Glamour", "error", err)
			return errMsg{err}
		}
		return contentRenderedMsg{panel: panel, rendered: out}
	}
}

func glamourRender(common *commonModel, markdown string, width int) (string, error) {
	if maxWidth := int(common.cfg.GlamourMaxWidth); maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	if width < 0 {
		width = 0
	}

	options := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}
	if common.cfg.GlamourStyle != "" {
		options = append(options, glamour.WithStylePath(common.cfg.GlamourStyle))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("error creating glamour renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}
	return out, nil
}
