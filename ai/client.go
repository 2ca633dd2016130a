// Package ai implements the collaborator contracts (speech synthesis,
// study-aid generation, and streaming chat) over an OpenAI-compatible
// backend.
package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/studypal/studypal/chat"
	"github.com/studypal/studypal/speech"
)

// Config selects the backend and models.
type Config struct {
	// APIKey authenticates against the backend.
	APIKey string

	// BaseURL points at an OpenAI-compatible endpoint. Empty uses the
	// default OpenAI API.
	BaseURL string

	// Model is the chat/generation model.
	Model string

	// SpeechModel and Voice drive synthesis.
	SpeechModel string
	Voice       string
}

// Client talks to the AI backend. It implements speech.Synthesizer,
// chat.Service, and study.Generator.
type Client struct {
	api *openai.Client
	cfg Config
}

// New creates a client from cfg, filling in model defaults.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = string(openai.TTSModel1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(openai.VoiceNova)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{api: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

// Synthesize converts text to speech. The backend returns raw mono 16-bit
// little-endian PCM at 24 kHz, which maps directly onto the payload
// contract.
func (c *Client) Synthesize(ctx context.Context, text string) (speech.Payload, error) {
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.cfg.SpeechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.cfg.Voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return "", fmt.Errorf("read speech response: %w", err)
	}
	if len(pcm)%2 != 0 {
		// Guard against a truncated stream; playback would reject it.
		pcm = pcm[:len(pcm)-1]
	}

	log.Debug("synthesized speech", "text_len", len(text), "pcm_bytes", len(pcm))
	return speech.Payload(base64.StdEncoding.EncodeToString(pcm)), nil
}

// CreateSession opens a chat session whose system instruction grounds the
// assistant in the study material.
func (c *Client) CreateSession(_ context.Context, systemContext string) (chat.Session, error) {
	return &chatSession{
		client: c,
		history: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemContext,
		}},
	}, nil
}

// chatSession keeps conversation history so each turn sees the full
// exchange. The system instruction (with the document text baked in) is
// fixed at creation.
type chatSession struct {
	client  *Client
	history []openai.ChatCompletionMessage
}

// SendStreaming sends text and returns the fragment stream. The
// assistant's reply is appended to the history once the stream drains.
func (s *chatSession) SendStreaming(ctx context.Context, text string) (chat.Stream, error) {
	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	stream, err := s.client.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    s.client.cfg.Model,
		Messages: s.history,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion stream: %w", err)
	}

	return &chatStream{stream: stream, session: s}, nil
}

// chatStream adapts the completion stream to chat.Stream and accumulates
// the reply for the session history.
type chatStream struct {
	stream  *openai.ChatCompletionStream
	session *chatSession
	reply   string
	done    bool
}

func (cs *chatStream) Recv() (string, error) {
	resp, err := cs.stream.Recv()
	if err == io.EOF {
		cs.finish()
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	fragment := resp.Choices[0].Delta.Content
	cs.reply += fragment
	return fragment, nil
}

// finish commits the accumulated reply to the session history.
func (cs *chatStream) finish() {
	if cs.done {
		return
	}
	cs.done = true
	cs.session.history = append(cs.session.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: cs.reply,
	})
}

func (cs *chatStream) Close() error {
	cs.stream.Close()
	return nil
}
