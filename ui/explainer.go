package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studypal/studypal/study"
)

// explainModel takes an excerpt or term and shows a plain-language
// explanation grounded in the document.
type explainModel struct {
	common   *commonModel
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	speech   speechSet

	waiting  bool
	markdown string
	genErr   error
}

func newExplainModel(common *commonModel) explainModel {
	ti := textinput.New()
	ti.Placeholder = "Paste a passage or term to explain…"
	ti.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = generatingStyle

	return explainModel{
		common:   common,
		viewport: viewport.New(0, 0),
		input:    ti,
		spinner:  sp,
		speech:   newSpeechSet(common),
	}
}

func (m *explainModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h - statusBarHeight - tabBarHeight - 3
	m.input.Width = w - 4
}

func (m explainModel) focus() tea.Cmd {
	return m.input.Focus()
}

func (m explainModel) capturing() bool { return m.input.Focused() }

// readText narrates the current explanation.
func (m explainModel) readText() string {
	return study.Plaintext(m.markdown)
}

func (m explainModel) update(msg tea.Msg, active bool) (explainModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !active {
			break
		}
		switch msg.String() {
		case "enter":
			excerpt := strings.TrimSpace(m.input.Value())
			if excerpt == "" || m.waiting {
				break
			}
			m.waiting = true
			m.genErr = nil
			m.input.Reset()
			m.speech.ctl.Stop()
			m.speech.cache.Clear()
			cmds = append(cmds,
				explainCmd(m.common.deps.Session, excerpt),
				m.spinner.Tick,
			)
			return m, tea.Batch(cmds...)

		case "esc":
			m.input.Blur()
			return m, nil

		case "i":
			if !m.input.Focused() {
				return m, m.input.Focus()
			}
		}

	case explanationMsg:
		m.waiting = false
		if msg.err != nil {
			m.genErr = msg.err
			return m, nil
		}
		m.markdown = msg.markdown
		cmds = append(cmds, renderMarkdownCmd(m.common, panelExplain, msg.markdown, m.viewport.Width))

	case contentRenderedMsg:
		if msg.panel == panelExplain {
			m.viewport.SetContent(msg.rendered)
			m.viewport.GotoTop()
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if active {
		var cmd tea.Cmd
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m explainModel) view() string {
	var body string
	switch {
	case m.genErr != nil:
		body = errorView(m.genErr, false)
	case m.waiting:
		body = "\n  " + m.spinner.View() + " Thinking…\n"
	default:
		body = m.viewport.View()
	}

	help := subtleStyle.Render("enter explain · esc unfocus · i focus · space read aloud · tab next panel")
	return body + "\n" + m.input.View() + "\n" + help
}
