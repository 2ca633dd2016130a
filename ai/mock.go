package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/studypal/studypal/chat"
	"github.com/studypal/studypal/speech"
	"github.com/studypal/studypal/study"
)

// Mock is an offline stand-in for Client. It serves canned study aids,
// echoing chat, and silent synthesized audio. Useful for demos and for
// running without an API key.
type Mock struct {
	synth   speech.MockSynthesizer
	service *chat.MockService
}

// NewMock creates a mock backend.
func NewMock() *Mock {
	svc := chat.NewMockService()
	svc.Fragments = func(text string) []string {
		reply := "Good question. Regarding \"" + firstWords(text, 8) + "\": " +
			"the material covers this in the summary panel; try the quiz to test yourself."
		return strings.SplitAfter(reply, " ")
	}
	return &Mock{service: svc}
}

func (m *Mock) Synthesize(ctx context.Context, text string) (speech.Payload, error) {
	return m.synth.Synthesize(ctx, text)
}

func (m *Mock) CreateSession(ctx context.Context, systemContext string) (chat.Session, error) {
	return m.service.CreateSession(ctx, systemContext)
}

func (m *Mock) Summarize(_ context.Context, material string) (string, error) {
	return fmt.Sprintf("# Summary (offline mode)\n\n"+
		"This document is %d characters long. Key opening text:\n\n> %s\n\n"+
		"Run without --mock to generate a real summary.",
		len(material), firstWords(material, 30)), nil
}

func (m *Mock) Flashcards(_ context.Context, material string, count int) ([]study.Flashcard, error) {
	if count <= 0 || count > 5 {
		count = 5
	}
	words := notableWords(material, count)
	cards := make([]study.Flashcard, 0, len(words))
	for _, w := range words {
		cards = append(cards, study.Flashcard{
			Term:       w,
			Definition: "A notable term from the document (offline mode).",
		})
	}
	if len(cards) == 0 {
		cards = append(cards, study.Flashcard{
			Term:       "Offline mode",
			Definition: "Run without --mock to generate real flashcards.",
		})
	}
	return cards, nil
}

func (m *Mock) Quiz(_ context.Context, material string, count int) ([]study.QuizQuestion, error) {
	return []study.QuizQuestion{{
		Prompt:      "Which mode is this quiz generated in?",
		Options:     []string{"Offline mock mode", "Online mode", "Batch mode", "Turbo mode"},
		Answer:      0,
		Explanation: "Run without --mock to generate questions from the document.",
	}}, nil
}

func (m *Mock) Explain(_ context.Context, _, excerpt string) (string, error) {
	return "**" + firstWords(excerpt, 8) + "**: offline mode cannot explain this. " +
		"Run without --mock for a real explanation.", nil
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
		return strings.Join(fields, " ") + "…"
	}
	return strings.Join(fields, " ")
}

// notableWords picks the first few long-ish distinct words, capitalized.
func notableWords(s string, n int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range strings.Fields(s) {
		f = strings.Trim(f, ".,;:()[]\"'")
		if len(f) < 6 || seen[strings.ToLower(f)] {
			continue
		}
		seen[strings.ToLower(f)] = true
		out = append(out, strings.ToUpper(f[:1])+f[1:])
		if len(out) == n {
			break
		}
	}
	return out
}
