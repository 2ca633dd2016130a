package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studypal/studypal/study"
)

// quizModel steps through the generated questions. Answering reveals
// correctness and the explanation before moving on.
type quizModel struct {
	common  *commonModel
	spinner spinner.Model
	speech  speechSet

	loaded    bool
	questions []study.QuizQuestion
	genErr    error

	index    int
	answered map[int]int // question index -> chosen option
	score    int
}

func newQuizModel(common *commonModel) quizModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = generatingStyle

	return quizModel{
		common:   common,
		spinner:  sp,
		speech:   newSpeechSet(common),
		answered: make(map[int]int),
	}
}

func (m *quizModel) setSize(_, _ int) {}

func (m quizModel) init() tea.Cmd {
	return tea.Batch(
		generateQuizCmd(m.common.deps.Session, false),
		m.spinner.Tick,
	)
}

func (m quizModel) refresh() tea.Cmd {
	m.speech.cache.Clear()
	return tea.Batch(
		generateQuizCmd(m.common.deps.Session, true),
		m.spinner.Tick,
	)
}

// readText narrates the current question and its options.
func (m quizModel) readText() string {
	if len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.index]
	var b strings.Builder
	b.WriteString(q.Prompt)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, " Option %d: %s.", i+1, opt)
	}
	if _, done := m.answered[m.index]; done {
		b.WriteString(" " + q.Explanation)
	}
	return b.String()
}

func (m quizModel) update(msg tea.Msg, active bool) (quizModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case quizGeneratedMsg:
		m.loaded = true
		if msg.err != nil {
			m.genErr = msg.err
			return m, nil
		}
		m.genErr = nil
		m.questions = msg.questions
		m.index = 0
		m.score = 0
		m.answered = make(map[int]int)

	case tea.KeyMsg:
		if !active || len(m.questions) == 0 {
			break
		}
		switch key := msg.String(); key {
		case "1", "2", "3", "4":
			if _, done := m.answered[m.index]; done {
				break
			}
			choice := int(key[0] - '1')
			q := m.questions[m.index]
			if choice >= len(q.Options) {
				break
			}
			m.answered[m.index] = choice
			if choice == q.Answer {
				m.score++
			}
		case "right", "l", "n", "enter":
			if m.index < len(m.questions)-1 {
				m.index++
			}
		case "left", "h", "p":
			if m.index > 0 {
				m.index--
			}
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

func (m quizModel) view() string {
	if m.genErr != nil {
		return errorView(m.genErr, false)
	}
	if !m.loaded {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			m.spinner.View() + " Writing quiz…",
		)
	}
	if len(m.questions) == 0 {
		return lipgloss.NewStyle().Padding(1, 2).Render("No questions.")
	}

	q := m.questions[m.index]
	chosen, done := m.answered[m.index]

	var b strings.Builder
	fmt.Fprintf(&b, "\n  Question %d of %d", m.index+1, len(m.questions))
	if len(m.answered) > 0 {
		fmt.Fprintf(&b, "   %s", subtleStyle.Render(
			fmt.Sprintf("score %d/%d", m.score, len(m.answered)),
		))
	}
	b.WriteString("\n\n  " + q.Prompt + "\n\n")

	for i, opt := range q.Options {
		line := fmt.Sprintf("  %d) %s", i+1, opt)
		switch {
		case done && i == q.Answer:
			line = correctStyle.Render(line + "  ✓")
		case done && i == chosen:
			line = incorrectStyle.Render(line + "  ✗")
		}
		b.WriteString(line + "\n")
	}

	if done && q.Explanation != "" {
		b.WriteString("\n  " + subtleStyle.Render(q.Explanation) + "\n")
	}

	b.WriteString("\n" + subtleStyle.Render("  1-4 answer · ←/→ navigate · space read aloud · r regenerate"))
	return b.String()
}
