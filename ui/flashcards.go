package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studypal/studypal/study"
)

// flashcardsModel pages through the generated deck. A flip is a timed
// transition driven by a bubbles timer set to the flip delay.
type flashcardsModel struct {
	common  *commonModel
	spinner spinner.Model
	speech  speechSet

	loaded bool
	deck   *study.Deck
	genErr error

	flipTimer timer.Model
	flipping  bool
}

func newFlashcardsModel(common *commonModel) flashcardsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = generatingStyle

	return flashcardsModel{common: common, spinner: sp, speech: newSpeechSet(common)}
}

func (m *flashcardsModel) setSize(_, _ int) {}

func (m flashcardsModel) init() tea.Cmd {
	return tea.Batch(
		generateFlashcardsCmd(m.common.deps.Session, false),
		m.spinner.Tick,
	)
}

func (m flashcardsModel) refresh() tea.Cmd {
	m.speech.cache.Clear()
	return tea.Batch(
		generateFlashcardsCmd(m.common.deps.Session, true),
		m.spinner.Tick,
	)
}

// readText narrates the face the user currently sees.
func (m flashcardsModel) readText() string {
	if m.deck == nil {
		return ""
	}
	return m.deck.VisibleText()
}

func (m flashcardsModel) update(msg tea.Msg, active bool) (flashcardsModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case flashcardsGeneratedMsg:
		m.loaded = true
		if msg.err != nil {
			m.genErr = msg.err
			return m, nil
		}
		m.genErr = nil
		m.deck = study.NewDeck(msg.cards)

	case tea.KeyMsg:
		if !active || m.deck == nil {
			break
		}
		switch msg.String() {
		case "enter", "f":
			if m.deck.Flip() {
				m.flipping = true
				m.flipTimer = timer.New(study.FlipDelay)
				cmds = append(cmds, m.flipTimer.Init())
			}
		case "right", "l", "n":
			m.deck.Next()
			m.flipping = false
		case "left", "h", "p":
			m.deck.Prev()
			m.flipping = false
		}

	case timer.TickMsg:
		if m.flipping {
			var cmd tea.Cmd
			m.flipTimer, cmd = m.flipTimer.Update(msg)
			cmds = append(cmds, cmd)
		}

	case timer.TimeoutMsg:
		if m.flipping {
			m.flipping = false
			m.deck.FinishFlip()
		}

	case spinner.TickMsg:
		if !m.loaded {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m flashcardsModel) view() string {
	if m.genErr != nil {
		return errorView(m.genErr, false)
	}
	if !m.loaded {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			m.spinner.View() + " Building flashcards…",
		)
	}

	card, ok := m.deck.Card()
	if !ok {
		return lipgloss.NewStyle().Padding(1, 2).Render("No flashcards.")
	}

	var face string
	style := cardBorderStyle
	switch m.deck.Face() {
	case study.FaceFlipping:
		face = "· · ·"
	case study.FaceBack:
		face = card.Definition
		style = cardBackStyle
	default:
		face = card.Term
	}

	if w := m.common.width; w > 10 {
		style = style.Width(min(w-8, 72))
	}

	counter := subtleStyle.Render(
		fmt.Sprintf("card %d of %d", m.deck.Index()+1, m.deck.Len()),
	)
	help := subtleStyle.Render("enter flip · ←/→ navigate · space read aloud · r regenerate")

	content := lipgloss.JoinVertical(lipgloss.Center, style.Render(face), counter, help)
	if m.common.width > 0 && m.common.height > 0 {
		return lipgloss.Place(
			m.common.width,
			m.common.height-statusBarHeight-tabBarHeight,
			lipgloss.Center, lipgloss.Center,
			content,
		)
	}
	return content
}
