package study

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/studypal/studypal/document"
)

// fakeGenerator counts calls so tests can verify session-level caching,
// and records the aid sizes it was asked for.
type fakeGenerator struct {
	summaries  int
	flashcards int
	quizzes    int
	explains   int

	cardCount int
	quizCount int

	fail error
}

func (g *fakeGenerator) Summarize(_ context.Context, material string) (string, error) {
	g.summaries++
	if g.fail != nil {
		return "", g.fail
	}
	return "summary of " + material, nil
}

func (g *fakeGenerator) Flashcards(_ context.Context, _ string, count int) ([]Flashcard, error) {
	g.flashcards++
	g.cardCount = count
	if g.fail != nil {
		return nil, g.fail
	}
	return testCards(), nil
}

func (g *fakeGenerator) Quiz(_ context.Context, _ string, count int) ([]QuizQuestion, error) {
	g.quizzes++
	g.quizCount = count
	if g.fail != nil {
		return nil, g.fail
	}
	return []QuizQuestion{{
		Prompt:  "What is ATP?",
		Options: []string{"Energy currency", "A membrane", "An organ", "A cell"},
		Answer:  0,
	}}, nil
}

func (g *fakeGenerator) Explain(_ context.Context, _, excerpt string) (string, error) {
	g.explains++
	if g.fail != nil {
		return "", g.fail
	}
	return "explanation of " + excerpt, nil
}

func testDoc() *document.Document {
	return &document.Document{Path: "bio.pdf", Text: "cell biology notes"}
}

func TestSessionCachesAids(t *testing.T) {
	gen := &fakeGenerator{}
	session := NewSession(testDoc(), gen)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := session.Summary(ctx); err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if _, err := session.Flashcards(ctx); err != nil {
			t.Fatalf("Flashcards() error = %v", err)
		}
		if _, err := session.Quiz(ctx); err != nil {
			t.Fatalf("Quiz() error = %v", err)
		}
	}

	if gen.summaries != 1 || gen.flashcards != 1 || gen.quizzes != 1 {
		t.Errorf("generator calls = %d/%d/%d, want 1/1/1",
			gen.summaries, gen.flashcards, gen.quizzes)
	}
}

func TestSessionRefreshRegenerates(t *testing.T) {
	gen := &fakeGenerator{}
	session := NewSession(testDoc(), gen)
	ctx := context.Background()

	session.Summary(ctx)
	if _, err := session.RefreshSummary(ctx); err != nil {
		t.Fatalf("RefreshSummary() error = %v", err)
	}
	if gen.summaries != 2 {
		t.Errorf("summaries = %d, want 2", gen.summaries)
	}
}

func TestSessionInvalidate(t *testing.T) {
	gen := &fakeGenerator{}
	session := NewSession(testDoc(), gen)
	ctx := context.Background()

	session.Summary(ctx)
	session.Flashcards(ctx)
	session.Invalidate()
	session.Summary(ctx)
	session.Flashcards(ctx)

	if gen.summaries != 2 || gen.flashcards != 2 {
		t.Errorf("calls after invalidate = %d/%d, want 2/2", gen.summaries, gen.flashcards)
	}
}

func TestSessionRequestsAidSizes(t *testing.T) {
	gen := &fakeGenerator{}
	session := NewSession(testDoc(), gen)
	ctx := context.Background()

	session.Flashcards(ctx)
	session.Quiz(ctx)

	if gen.cardCount != FlashcardCount {
		t.Errorf("flashcard count = %d, want %d", gen.cardCount, FlashcardCount)
	}
	if gen.quizCount != QuizCount {
		t.Errorf("quiz count = %d, want %d", gen.quizCount, QuizCount)
	}
}

func TestSessionReplaceDocument(t *testing.T) {
	gen := &fakeGenerator{}
	session := NewSession(testDoc(), gen)
	ctx := context.Background()

	session.Summary(ctx)
	session.Flashcards(ctx)
	session.ReplaceDocument(&document.Document{Path: "bio2.pdf", Text: "updated notes"})

	if got := session.Document().Path; got != "bio2.pdf" {
		t.Errorf("Document().Path = %q, want %q", got, "bio2.pdf")
	}
	if !strings.Contains(session.SystemContext(), "updated notes") {
		t.Error("SystemContext() still has the old material")
	}

	// Cached aids are dropped with the old document.
	summary, err := session.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if !strings.Contains(summary, "updated notes") {
		t.Errorf("Summary() = %q, generated from stale material", summary)
	}
	if gen.summaries != 2 {
		t.Errorf("summaries = %d, want 2", gen.summaries)
	}
}

func TestSessionExplainNotCached(t *testing.T) {
	gen := &fakeGenerator{}
	session := NewSession(testDoc(), gen)
	ctx := context.Background()

	session.Explain(ctx, "osmosis")
	session.Explain(ctx, "osmosis")
	if gen.explains != 2 {
		t.Errorf("explains = %d, want 2", gen.explains)
	}
}

func TestSessionExplainEmptyExcerpt(t *testing.T) {
	session := NewSession(testDoc(), &fakeGenerator{})

	if _, err := session.Explain(context.Background(), "   "); err == nil {
		t.Error("Explain() with blank excerpt expected error")
	}
}

func TestSessionErrorNotCached(t *testing.T) {
	gen := &fakeGenerator{fail: errors.New("backend down")}
	session := NewSession(testDoc(), gen)
	ctx := context.Background()

	if _, err := session.Summary(ctx); err == nil {
		t.Fatal("Summary() expected error")
	}

	gen.fail = nil
	summary, err := session.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() after recovery error = %v", err)
	}
	if summary == "" {
		t.Error("Summary() empty after recovery")
	}
	if gen.summaries != 2 {
		t.Errorf("summaries = %d, want 2", gen.summaries)
	}
}

func TestSessionSystemContextIncludesMaterial(t *testing.T) {
	session := NewSession(testDoc(), &fakeGenerator{})

	if !strings.Contains(session.SystemContext(), "cell biology notes") {
		t.Error("SystemContext() missing document text")
	}
}

func TestSessionIDsUnique(t *testing.T) {
	a := NewSession(testDoc(), &fakeGenerator{})
	b := NewSession(testDoc(), &fakeGenerator{})
	if a.ID == b.ID {
		t.Errorf("session IDs collide: %q", a.ID)
	}
}
