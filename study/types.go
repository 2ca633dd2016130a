// Package study models a study session over one document: generated study
// aids, the flashcard deck, and the glue between panels and collaborators.
package study

import "context"

// Flashcard is a term/definition pair generated from the document.
type Flashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// QuizQuestion is a multiple-choice question generated from the document.
type QuizQuestion struct {
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Aid sizes requested by sessions. Generators treat them as upper
// bounds: thin material may yield fewer.
const (
	FlashcardCount = 20
	QuizCount      = 10
)

// Generator produces study aids from source text. Implemented by the AI
// client; faked in tests.
type Generator interface {
	Summarize(ctx context.Context, text string) (string, error)
	Flashcards(ctx context.Context, text string, count int) ([]Flashcard, error)
	Quiz(ctx context.Context, text string, count int) ([]QuizQuestion, error)
	Explain(ctx context.Context, concept, text string) (string, error)
}
