package speech

import (
	"context"
	"sync"
	"time"
)

// MockSynthesizer implements Synthesizer for tests and for running the app
// without an AI backend. It produces a short silent payload whose length
// scales with the input text.
type MockSynthesizer struct {
	// Delay simulates synthesis latency.
	Delay time.Duration

	// FailWith, when set, makes every call fail with this error.
	FailWith error

	// PayloadFor overrides payload generation when set.
	PayloadFor func(text string) Payload

	mu    sync.Mutex
	calls []string
}

// Synthesize returns a deterministic payload for text.
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (Payload, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.FailWith != nil {
		return "", m.FailWith
	}

	if m.PayloadFor != nil {
		return m.PayloadFor(text), nil
	}

	// Roughly 50ms of silence per character, capped at one second.
	n := len(text) * SampleRate / 20
	if n > SampleRate {
		n = SampleRate
	}
	return Encode(make([]int16, n)), nil
}

// Calls returns every synthesized text in request order.
func (m *MockSynthesizer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of synthesis requests so far.
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
