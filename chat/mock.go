package chat

import (
	"context"
	"io"
	"sync"
	"time"
)

// MockService implements Service with scripted responses, for tests and
// for running the app without an AI backend.
type MockService struct {
	// Fragments returns the scripted response for a message. When nil,
	// a single canned fragment is produced.
	Fragments func(text string) []string

	// FailAfter injects a stream error after this many fragments.
	// Negative (the default via NewMockService) disables failure.
	FailAfter int

	// FailWith is the injected error. Defaults to io.ErrUnexpectedEOF.
	FailWith error

	// Delay between fragments.
	Delay time.Duration
}

// NewMockService creates a mock service that never fails.
func NewMockService() *MockService {
	return &MockService{FailAfter: -1}
}

// CreateSession returns a session bound to the scripted responses.
func (s *MockService) CreateSession(_ context.Context, systemContext string) (Session, error) {
	return &mockSession{service: s, system: systemContext}, nil
}

type mockSession struct {
	service *MockService
	system  string

	mu    sync.Mutex
	sends []string
}

// Sends returns every message sent through this session.
func (s *mockSession) Sends() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sends))
	copy(out, s.sends)
	return out
}

func (s *mockSession) SendStreaming(_ context.Context, text string) (Stream, error) {
	s.mu.Lock()
	s.sends = append(s.sends, text)
	s.mu.Unlock()

	fragments := []string{"This is a scripted reply."}
	if s.service.Fragments != nil {
		fragments = s.service.Fragments(text)
	}

	return &mockStream{
		fragments: fragments,
		failAfter: s.service.FailAfter,
		failWith:  s.service.FailWith,
		delay:     s.service.Delay,
	}, nil
}

type mockStream struct {
	fragments []string
	pos       int
	failAfter int
	failWith  error
	delay     time.Duration
}

func (m *mockStream) Recv() (string, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if m.failAfter >= 0 && m.pos >= m.failAfter {
		err := m.failWith
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}

	if m.pos >= len(m.fragments) {
		return "", io.EOF
	}

	f := m.fragments[m.pos]
	m.pos++
	return f, nil
}

func (m *mockStream) Close() error { return nil }
