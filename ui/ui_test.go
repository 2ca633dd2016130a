package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studypal/studypal/chat"
	"github.com/studypal/studypal/document"
	"github.com/studypal/studypal/speech"
	"github.com/studypal/studypal/study"
)

// testDeps wires the UI to mock collaborators: a mock audio context, a
// mock synthesizer, and a scripted chat backend.
func testDeps(t *testing.T) Deps {
	t.Helper()

	mockCtx := speech.NewMockContext()
	mockCtx.Speed = 1.0 // keep playback audible long enough to observe
	engine := speech.NewEngineWith(func() (speech.AudioContext, error) {
		return mockCtx, nil
	})
	t.Cleanup(func() { engine.Close() })

	svc := chat.NewMockService()
	svc.Fragments = func(string) []string { return []string{"a reply"} }
	session, err := svc.CreateSession(context.Background(), "system")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	doc := &document.Document{Path: "notes.pdf", Size: 2048, Text: "material"}
	gen := scriptedGenerator{}

	return Deps{
		Session:     study.NewSession(doc, gen),
		Engine:      engine,
		Synthesizer: &speech.MockSynthesizer{},
		Chat:        chat.NewController(session),
	}
}

type scriptedGenerator struct{}

func (scriptedGenerator) Summarize(context.Context, string) (string, error) {
	return "# Summary\n\nGenerated.", nil
}

func (scriptedGenerator) Flashcards(context.Context, string, int) ([]study.Flashcard, error) {
	return []study.Flashcard{{Term: "ATP", Definition: "Energy currency."}}, nil
}

func (scriptedGenerator) Quiz(context.Context, string, int) ([]study.QuizQuestion, error) {
	return []study.QuizQuestion{{
		Prompt:  "What is ATP?",
		Options: []string{"Energy", "A cell", "An organ", "A membrane"},
		Answer:  0,
	}}, nil
}

func (scriptedGenerator) Explain(context.Context, string, string) (string, error) {
	return "An explanation.", nil
}

func keyMsg(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func waitForState(t *testing.T, ctl *speech.Controller, want speech.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ctl.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("speech state = %v, want %v", ctl.State(), want)
}

func TestSwitchPanelStopsNarration(t *testing.T) {
	deps := testDeps(t)
	m := newModel(Config{}, deps).(model)

	ctl := m.summary.speech.ctl
	if err := ctl.Speak(context.Background(), "a long passage to narrate"); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	waitForState(t, ctl, speech.StatePlaying)

	next, _ := m.Update(keyMsg("tab"))
	m = next.(model)

	if got := ctl.State(); got != speech.StateIdle {
		t.Errorf("speech state after panel switch = %v, want StateIdle", got)
	}
	if m.panel != panelFlashcards {
		t.Errorf("panel = %v, want flashcards", m.panel)
	}
}

func TestQuitStopsNarration(t *testing.T) {
	deps := testDeps(t)
	m := newModel(Config{}, deps).(model)

	ctl := m.summary.speech.ctl
	if err := ctl.Speak(context.Background(), "narration in progress"); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	waitForState(t, ctl, speech.StatePlaying)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if got := ctl.State(); got != speech.StateIdle {
		t.Errorf("speech state after quit = %v, want StateIdle", got)
	}
}

func TestSummaryReadTextStripsMarkdown(t *testing.T) {
	deps := testDeps(t)
	m := newModel(Config{}, deps).(model)

	next, _ := m.Update(summaryGeneratedMsg{markdown: "# Heading\n\nSome **bold** text."})
	m = next.(model)

	got := m.summary.readText()
	if strings.ContainsAny(got, "#*") {
		t.Errorf("readText() = %q, contains markdown syntax", got)
	}
	if !strings.Contains(got, "bold") {
		t.Errorf("readText() = %q, lost text", got)
	}
}

func TestQuizAnswerScoring(t *testing.T) {
	deps := testDeps(t)
	m := newModel(Config{}, deps).(model)

	questions, err := deps.Session.Quiz(context.Background())
	if err != nil {
		t.Fatalf("Quiz() error = %v", err)
	}

	next, _ := m.Update(quizGeneratedMsg{questions: questions})
	m = next.(model)
	m.panel = panelQuiz

	next, _ = m.Update(keyMsg("1"))
	m = next.(model)

	if m.quiz.score != 1 {
		t.Errorf("score = %d, want 1", m.quiz.score)
	}

	// A second answer to the same question is ignored.
	next, _ = m.Update(keyMsg("2"))
	m = next.(model)
	if m.quiz.score != 1 {
		t.Errorf("score after re-answer = %d, want 1", m.quiz.score)
	}
}

func TestFlashcardFlipReadsTargetFace(t *testing.T) {
	deps := testDeps(t)
	m := newModel(Config{}, deps).(model)

	cards, err := deps.Session.Flashcards(context.Background())
	if err != nil {
		t.Fatalf("Flashcards() error = %v", err)
	}

	next, _ := m.Update(flashcardsGeneratedMsg{cards: cards})
	m = next.(model)
	m.panel = panelFlashcards

	if got := m.flashcards.readText(); got != "ATP" {
		t.Errorf("readText() front = %q, want %q", got, "ATP")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	// Mid-flip narration follows the incoming face.
	if got := m.flashcards.readText(); got != "Energy currency." {
		t.Errorf("readText() mid-flip = %q, want definition", got)
	}
}

func TestStatusBarShowsDocument(t *testing.T) {
	deps := testDeps(t)
	m := newModel(Config{}, deps).(model)

	bar := m.statusBarView()
	if !strings.Contains(bar, "notes.pdf") {
		t.Errorf("status bar = %q, missing document name", bar)
	}
	if !strings.Contains(bar, "kB") {
		t.Errorf("status bar = %q, missing humanized size", bar)
	}
}
