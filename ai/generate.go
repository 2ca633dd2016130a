package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/studypal/studypal/study"
)

// GenerationError wraps a failed study-aid generation with the kind of
// aid that was requested.
type GenerationError struct {
	Kind string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

const (
	summaryPrompt = "Summarize the following study material in clear markdown. " +
		"Use headings for major topics and short bullet points for key facts. " +
		"Stay faithful to the material; do not add outside information.\n\n"

	flashcardsPrompt = "Create flashcards from the following study material. " +
		"Respond with a JSON object of the form " +
		`{"cards":[{"term":"...","definition":"..."}]}. ` +
		"Each term is short; each definition is one or two sentences. " +
		"Cover the most important concepts, at most %d cards.\n\n"

	quizPrompt = "Create a multiple-choice quiz from the following study material. " +
		"Respond with a JSON object of the form " +
		`{"questions":[{"question":"...","options":["...","...","...","..."],"answer":0,"explanation":"..."}]}. ` +
		"Each question has exactly four options; answer is the zero-based " +
		"index of the correct option. At most %d questions.\n\n"

	explainPrompt = "Using the study material below as context, explain the " +
		"requested excerpt in plain language, as if to a student seeing it " +
		"for the first time. Answer in markdown.\n\nMaterial:\n"
)

// Summarize produces a markdown summary of the material.
func (c *Client) Summarize(ctx context.Context, material string) (string, error) {
	text, err := c.complete(ctx, summaryPrompt+material, false)
	if err != nil {
		return "", &GenerationError{Kind: "summary", Err: err}
	}
	return text, nil
}

// Flashcards produces up to count term/definition flashcards from the
// material.
func (c *Client) Flashcards(ctx context.Context, material string, count int) ([]study.Flashcard, error) {
	if count <= 0 {
		count = study.FlashcardCount
	}
	raw, err := c.complete(ctx, fmt.Sprintf(flashcardsPrompt, count)+material, true)
	if err != nil {
		return nil, &GenerationError{Kind: "flashcards", Err: err}
	}

	var out struct {
		Cards []study.Flashcard `json:"cards"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &GenerationError{Kind: "flashcards", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Cards) == 0 {
		return nil, &GenerationError{Kind: "flashcards", Err: fmt.Errorf("empty card set")}
	}
	if len(out.Cards) > count {
		out.Cards = out.Cards[:count]
	}

	log.Debug("generated flashcards", "count", len(out.Cards))
	return out.Cards, nil
}

// Quiz produces up to count multiple-choice questions from the material.
func (c *Client) Quiz(ctx context.Context, material string, count int) ([]study.QuizQuestion, error) {
	if count <= 0 {
		count = study.QuizCount
	}
	raw, err := c.complete(ctx, fmt.Sprintf(quizPrompt, count)+material, true)
	if err != nil {
		return nil, &GenerationError{Kind: "quiz", Err: err}
	}

	var out struct {
		Questions []study.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &GenerationError{Kind: "quiz", Err: fmt.Errorf("decode response: %w", err)}
	}

	questions := out.Questions[:0]
	for _, q := range out.Questions {
		if len(q.Options) == 0 || q.Answer < 0 || q.Answer >= len(q.Options) {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, &GenerationError{Kind: "quiz", Err: fmt.Errorf("no usable questions")}
	}
	if len(questions) > count {
		questions = questions[:count]
	}

	log.Debug("generated quiz", "count", len(questions))
	return questions, nil
}

// Explain explains an excerpt of the material in plain language.
func (c *Client) Explain(ctx context.Context, material, excerpt string) (string, error) {
	prompt := explainPrompt + material + "\n\nExcerpt to explain:\n" + excerpt
	text, err := c.complete(ctx, prompt, false)
	if err != nil {
		return "", &GenerationError{Kind: "explanation", Err: err}
	}
	return text, nil
}

// complete performs a single-turn completion. jsonMode constrains the
// response to a JSON object.
func (c *Client) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
