package study

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/studypal/studypal/document"
)

// Session ties a document to its generated study aids. Each aid is
// generated once per session and cached; Refresh* variants force a
// regeneration.
type Session struct {
	ID string

	gen Generator

	mu         sync.Mutex
	doc        *document.Document
	summary    string
	flashcards []Flashcard
	quiz       []QuizQuestion
}

// NewSession starts a study session over doc.
func NewSession(doc *document.Document, gen Generator) *Session {
	return &Session{
		ID:  uuid.NewString(),
		doc: doc,
		gen: gen,
	}
}

// Document returns the session's current document. The document itself
// is never mutated; reloads swap in a fresh one via ReplaceDocument.
func (s *Session) Document() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// ReplaceDocument swaps in a freshly extracted document and drops all
// cached aids. Called when the file changes on disk.
func (s *Session) ReplaceDocument(doc *document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.summary = ""
	s.flashcards = nil
	s.quiz = nil
}

func (s *Session) material() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Text
}

// SystemContext is the instruction that grounds the chat assistant in the
// session's document.
func (s *Session) SystemContext() string {
	var b strings.Builder
	b.WriteString("You are a study assistant. Answer questions using the ")
	b.WriteString("following study material. If the material does not cover ")
	b.WriteString("a question, say so before answering from general knowledge.\n\n")
	b.WriteString("Material:\n")
	b.WriteString(s.material())
	return b.String()
}

// Summary returns the cached summary, generating it on first call.
func (s *Session) Summary(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.summary
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}
	return s.RefreshSummary(ctx)
}

// RefreshSummary regenerates the summary, replacing any cached one.
func (s *Session) RefreshSummary(ctx context.Context) (string, error) {
	log.Debug("generating summary", "session", s.ID)
	summary, err := s.gen.Summarize(ctx, s.material())
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
	return summary, nil
}

// Flashcards returns the cached deck, generating it on first call.
func (s *Session) Flashcards(ctx context.Context) ([]Flashcard, error) {
	s.mu.Lock()
	cached := s.flashcards
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	return s.RefreshFlashcards(ctx)
}

// RefreshFlashcards regenerates the flashcard deck.
func (s *Session) RefreshFlashcards(ctx context.Context) ([]Flashcard, error) {
	log.Debug("generating flashcards", "session", s.ID)
	cards, err := s.gen.Flashcards(ctx, s.material(), FlashcardCount)
	if err != nil {
		return nil, fmt.Errorf("flashcards: %w", err)
	}

	s.mu.Lock()
	s.flashcards = cards
	s.mu.Unlock()
	return cards, nil
}

// Quiz returns the cached quiz, generating it on first call.
func (s *Session) Quiz(ctx context.Context) ([]QuizQuestion, error) {
	s.mu.Lock()
	cached := s.quiz
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	return s.RefreshQuiz(ctx)
}

// RefreshQuiz regenerates the quiz.
func (s *Session) RefreshQuiz(ctx context.Context) ([]QuizQuestion, error) {
	log.Debug("generating quiz", "session", s.ID)
	questions, err := s.gen.Quiz(ctx, s.material(), QuizCount)
	if err != nil {
		return nil, fmt.Errorf("quiz: %w", err)
	}

	s.mu.Lock()
	s.quiz = questions
	s.mu.Unlock()
	return questions, nil
}

// Explain explains an excerpt against the session's material. Results are
// not cached; each excerpt is its own request.
func (s *Session) Explain(ctx context.Context, excerpt string) (string, error) {
	excerpt = strings.TrimSpace(excerpt)
	if excerpt == "" {
		return "", fmt.Errorf("explain: empty excerpt")
	}

	log.Debug("explaining excerpt", "session", s.ID, "excerpt_len", len(excerpt))
	explanation, err := s.gen.Explain(ctx, s.material(), excerpt)
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	return explanation, nil
}

// Invalidate drops all cached aids, forcing regeneration on next access.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = ""
	s.flashcards = nil
	s.quiz = nil
}
