package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/studypal/studypal/chat"
)

// chatModel is the conversation panel. The transcript renders in a
// viewport above a text input; the input is disabled while a send is in
// flight.
type chatModel struct {
	common   *commonModel
	viewport viewport.Model
	input    textinput.Model
	speech   speechSet

	polling  bool
	sendErr  error
	notified string
}

func newChatModel(common *commonModel) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about the document…"
	ti.CharLimit = 2000

	return chatModel{
		common:   common,
		viewport: viewport.New(0, 0),
		input:    ti,
		speech:   newSpeechSet(common),
	}
}

func (m *chatModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h - statusBarHeight - tabBarHeight - 3
	m.input.Width = w - 4
	m.refreshTranscript()
}

func (m chatModel) focus() tea.Cmd {
	return m.input.Focus()
}

// capturing reports whether the input owns the keyboard.
func (m chatModel) capturing() bool { return m.input.Focused() }

// readText narrates the last assistant reply.
func (m chatModel) readText() string {
	for _, e := range reverseEntries(m.common.deps.Chat.Transcript()) {
		if e.Role == chat.RoleAssistant && strings.TrimSpace(e.Content) != "" {
			return e.Content
		}
	}
	return ""
}

func (m *chatModel) refreshTranscript() {
	entries := m.common.deps.Chat.Transcript()
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for _, e := range entries {
		label := chatUserStyle.Render("You")
		if e.Role == chat.RoleAssistant {
			label = chatAssistantStyle.Render("Assistant")
		}
		content := e.Content
		if content == "" {
			content = subtleStyle.Render("…")
		}
		b.WriteString(label + "\n")
		b.WriteString(wordwrap.String(content, width-2) + "\n\n")
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(b.String())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m chatModel) update(msg tea.Msg, active bool) (chatModel, tea.Cmd) {
	var cmds []tea.Cmd
	controller := m.common.deps.Chat

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !active {
			break
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || controller.State() != chat.StateReady {
				break
			}
			m.input.Reset()
			m.sendErr = nil
			cmds = append(cmds, sendChatCmd(controller, text))
			if !m.polling {
				m.polling = true
				cmds = append(cmds, chatPollCmd())
			}
			m.refreshTranscript()
			return m, tea.Batch(cmds...)

		case "esc":
			m.input.Blur()
			return m, nil

		case "i":
			if !m.input.Focused() {
				return m, m.input.Focus()
			}

		case "ctrl+y":
			if reply := m.readText(); reply != "" {
				if err := clipboard.WriteAll(reply); err == nil {
					m.notified = "copied"
				}
			}
			return m, nil
		}

	case chatUpdatedMsg:
		m.refreshTranscript()
		if controller.State() != chat.StateReady {
			cmds = append(cmds, chatPollCmd())
		} else {
			m.polling = false
			if controller.Failed() {
				m.notified = ""
			}
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

func (m chatModel) view() string {
	var status string
	switch m.common.deps.Chat.State() {
	case chat.StateSending:
		status = generatingStyle.Render("sending…")
	case chat.StateStreaming:
		status = generatingStyle.Render("streaming…")
	default:
		if m.notified != "" {
			status = subtleStyle.Render(m.notified)
		}
	}

	help := subtleStyle.Render("enter send · esc unfocus · i focus · ctrl+y copy reply · tab next panel")
	return m.viewport.View() + "\n" + m.input.View() + " " + status + "\n" + help
}

func reverseEntries(entries []chat.Entry) []chat.Entry {
	out := make([]chat.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
