package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studypal/studypal/chat"
	"github.com/studypal/studypal/speech"
	"github.com/studypal/studypal/study"
)

// Message types for the Bubble Tea command pattern. Each generation
// command resolves to a *GeneratedMsg carrying either content or an
// error.

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// summaryGeneratedMsg is sent when the summary is ready.
type summaryGeneratedMsg struct {
	markdown string
	err      error
}

// flashcardsGeneratedMsg is sent when the flashcard deck is ready.
type flashcardsGeneratedMsg struct {
	cards []study.Flashcard
	err   error
}

// quizGeneratedMsg is sent when the quiz is ready.
type quizGeneratedMsg struct {
	questions []study.QuizQuestion
	err       error
}

// explanationMsg is sent when an explanation request completes.
type explanationMsg struct {
	markdown string
	err      error
}

// contentRenderedMsg carries a glamour-rendered panel body.
type contentRenderedMsg struct {
	panel    panelID
	rendered string
}

// chatUpdatedMsg is a poll tick while the chat controller is busy; the
// model re-reads the transcript on each one.
type chatUpdatedMsg struct{}

// speechTickMsg is a poll tick while speech is active; the model
// re-reads the speech controller state on each one.
type speechTickMsg struct{}

// documentChangedMsg is sent when the PDF changes on disk.
type documentChangedMsg struct{}

// documentReloadedMsg is sent when re-extraction completes.
type documentReloadedMsg struct{ err error }

// statusTimeoutMsg clears a transient status-bar message.
type statusTimeoutMsg struct{}

// COMMANDS

func generateSummaryCmd(session *study.Session, refresh bool) tea.Cmd {
	return func() tea.Msg {
		fn := session.Summary
		if refresh {
			fn = session.RefreshSummary
		}
		md, err := fn(context.Background())
		return summaryGeneratedMsg{markdown: md, err: err}
	}
}

func generateFlashcardsCmd(session *study.Session, refresh bool) tea.Cmd {
	return func() tea.Msg {
		fn := session.Flashcards
		if refresh {
			fn = session.RefreshFlashcards
		}
		cards, err := fn(context.Background())
		return flashcardsGeneratedMsg{cards: cards, err: err}
	}
}

func generateQuizCmd(session *study.Session, refresh bool) tea.Cmd {
	return func() tea.Msg {
		fn := session.Quiz
		if refresh {
			fn = session.RefreshQuiz
		}
		questions, err := fn(context.Background())
		return quizGeneratedMsg{questions: questions, err: err}
	}
}

func explainCmd(session *study.Session, excerpt string) tea.Cmd {
	return func() tea.Msg {
		md, err := session.Explain(context.Background(), excerpt)
		return explanationMsg{markdown: md, err: err}
	}
}

func sendChatCmd(controller *chat.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		// Send blocks for the whole stream; the poll ticks below keep the
		// transcript view fresh while it runs.
		go controller.Send(context.Background(), text) //nolint:errcheck
		return chatUpdatedMsg{}
	}
}

func chatPollCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return chatUpdatedMsg{}
	})
}

func speakCmd(controller *speech.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		controller.Speak(context.Background(), text) //nolint:errcheck
		return speechTickMsg{}
	}
}

func speechPollCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return speechTickMsg{}
	})
}

func statusTimeoutCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusTimeoutMsg{}
	})
}
