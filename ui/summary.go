package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studypal/studypal/study"
)

const statusBarHeight = 1
const tabBarHeight = 1

// summaryModel shows the generated markdown summary in a scrollable
// viewport.
type summaryModel struct {
	common   *commonModel
	viewport viewport.Model
	spinner  spinner.Model
	speech   speechSet

	loaded   bool
	markdown string
	genErr   error
}

func newSummaryModel(common *commonModel) summaryModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = generatingStyle

	return summaryModel{
		common:   common,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		speech:   newSpeechSet(common),
	}
}

func (m *summaryModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h - statusBarHeight - tabBarHeight - 1
}

func (m summaryModel) init() tea.Cmd {
	return tea.Batch(
		generateSummaryCmd(m.common.deps.Session, false),
		m.spinner.Tick,
	)
}

func (m summaryModel) refresh() tea.Cmd {
	// New subject content invalidates the panel's narration cache.
	m.speech.cache.Clear()
	return tea.Batch(
		generateSummaryCmd(m.common.deps.Session, true),
		m.spinner.Tick,
	)
}

// readText is the narration text for this panel.
func (m summaryModel) readText() string {
	return study.Plaintext(m.markdown)
}

func (m summaryModel) update(msg tea.Msg, active bool) (summaryModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case summaryGeneratedMsg:
		m.loaded = true
		if msg.err != nil {
			m.genErr = msg.err
			return m, nil
		}
		m.genErr = nil
		m.markdown = msg.markdown
		cmds = append(cmds, renderMarkdownCmd(m.common, panelSummary, msg.markdown, m.viewport.Width))

	case contentRenderedMsg:
		if msg.panel == panelSummary {
			m.viewport.SetContent(msg.rendered)
			m.viewport.GotoTop()
		}

	case tea.WindowSizeMsg:
		if m.markdown != "" {
			cmds = append(cmds, renderMarkdownCmd(m.common, panelSummary, m.markdown, m.viewport.Width))
		}

	case spinner.TickMsg:
		if !m.loaded {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if active {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m summaryModel) view() string {
	if m.genErr != nil {
		return errorView(m.genErr, false)
	}
	if !m.loaded {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			m.spinner.View() + " Summarizing document…",
		)
	}
	help := subtleStyle.Render("  ↑/↓ scroll · space read aloud · s stop · r regenerate · tab next panel · q quit")
	return m.viewport.View() + "\n" + help
}
