package chat

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
)

func newSession(t *testing.T, svc *MockService) Session {
	t.Helper()
	s, err := svc.CreateSession(context.Background(), "document text")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	return s
}

// TestStreamOrdering: fragments delivered in order produce the
// concatenated assistant reply, and no intermediate state shows fragments
// out of order.
func TestStreamOrdering(t *testing.T) {
	svc := NewMockService()
	svc.Fragments = func(string) []string { return []string{"Hel", "lo ", "world"} }

	c := NewController(newSession(t, svc))

	prefixes := []string{"Hel", "Hello ", "Hello world"}
	seen := 0
	var mu sync.Mutex
	c.OnChange(func() {
		mu.Lock()
		defer mu.Unlock()
		last, ok := c.transcript.Last()
		if !ok || last.Role != RoleAssistant {
			return
		}
		if last.Content == "" {
			return
		}
		if seen < len(prefixes) && last.Content == prefixes[seen] {
			seen++
		}
	})

	if err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	entries := c.Transcript()
	if len(entries) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(entries))
	}
	if entries[0].Role != RoleUser || entries[0].Content != "hi" {
		t.Errorf("entry[0] = %+v, want user %q", entries[0], "hi")
	}
	if entries[1].Role != RoleAssistant || entries[1].Content != "Hello world" {
		t.Errorf("entry[1] = %+v, want assistant %q", entries[1], "Hello world")
	}

	mu.Lock()
	defer mu.Unlock()
	if seen != len(prefixes) {
		t.Errorf("observed %d in-order prefixes, want %d", seen, len(prefixes))
	}

	if c.State() != StateReady {
		t.Errorf("State() = %v, want ready", c.State())
	}
	if c.Failed() {
		t.Error("Failed() = true after clean stream")
	}
}

// TestSendEmptyRejected: an empty trimmed message is rejected with the
// transcript unchanged and no request issued.
func TestSendEmptyRejected(t *testing.T) {
	svc := NewMockService()
	session := newSession(t, svc).(*mockSession)
	c := NewController(session)

	for _, text := range []string{"", "   ", " \n\t "} {
		if err := c.Send(context.Background(), text); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) error = %v, want ErrEmptyMessage", text, err)
		}
	}

	if n := c.transcript.Len(); n != 0 {
		t.Errorf("transcript length = %d, want 0", n)
	}
	if n := len(session.Sends()); n != 0 {
		t.Errorf("requests issued = %d, want 0", n)
	}
}

func TestSendWhileBusyRejected(t *testing.T) {
	c := NewController(newSession(t, NewMockService()))
	c.mu.Lock()
	c.state = StateStreaming
	c.mu.Unlock()

	if err := c.Send(context.Background(), "hello"); !errors.Is(err, ErrBusy) {
		t.Errorf("Send() while busy error = %v, want ErrBusy", err)
	}
	if n := c.transcript.Len(); n != 0 {
		t.Errorf("transcript length = %d, want 0", n)
	}
}

// TestFailureBeforeFirstFragment replaces the empty placeholder with the
// apology message.
func TestFailureBeforeFirstFragment(t *testing.T) {
	svc := NewMockService()
	svc.FailAfter = 0

	c := NewController(newSession(t, svc))

	err := c.Send(context.Background(), "hello")
	var serr *StreamError
	if !errors.As(err, &serr) {
		t.Fatalf("Send() error = %v, want *StreamError", err)
	}

	entries := c.Transcript()
	if len(entries) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(entries))
	}
	if entries[1].Content != apologyMessage {
		t.Errorf("placeholder = %q, want apology message", entries[1].Content)
	}
	if !c.Failed() {
		t.Error("Failed() = false after stream error")
	}
	if c.State() != StateReady {
		t.Errorf("State() = %v, want ready", c.State())
	}
}

// TestFailureMidStreamKeepsPartialContent: partial content is preserved
// and only the error flag is raised.
func TestFailureMidStreamKeepsPartialContent(t *testing.T) {
	svc := NewMockService()
	svc.Fragments = func(string) []string { return []string{"partial ", "answer"} }
	svc.FailAfter = 2
	svc.FailWith = io.ErrClosedPipe

	c := NewController(newSession(t, svc))

	err := c.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("Send() expected error")
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("error = %v, want wrapped io.ErrClosedPipe", err)
	}

	entries := c.Transcript()
	if entries[1].Content != "partial answer" {
		t.Errorf("assistant content = %q, want partial content preserved", entries[1].Content)
	}
	if !c.Failed() {
		t.Error("Failed() = false after mid-stream error")
	}
}

// TestFailedFlagResetsOnNextSend: the error flag clears once a new send
// starts.
func TestFailedFlagResetsOnNextSend(t *testing.T) {
	svc := NewMockService()
	svc.FailAfter = 0
	c := NewController(newSession(t, svc))

	_ = c.Send(context.Background(), "first")
	if !c.Failed() {
		t.Fatal("Failed() = false after failed send")
	}

	svc.FailAfter = -1
	if err := c.Send(context.Background(), "second"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if c.Failed() {
		t.Error("Failed() = true after successful send")
	}
}

func TestTranscriptNeverReorders(t *testing.T) {
	svc := NewMockService()
	svc.Fragments = func(text string) []string { return []string{"echo: " + text} }
	c := NewController(newSession(t, svc))

	for _, msg := range []string{"one", "two", "three"} {
		if err := c.Send(context.Background(), msg); err != nil {
			t.Fatalf("Send(%q) error = %v", msg, err)
		}
	}

	entries := c.Transcript()
	want := []Entry{
		{RoleUser, "one"}, {RoleAssistant, "echo: one"},
		{RoleUser, "two"}, {RoleAssistant, "echo: two"},
		{RoleUser, "three"}, {RoleAssistant, "echo: three"},
	}
	if len(entries) != len(want) {
		t.Fatalf("transcript length = %d, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry[%d] = %+v, want %+v", i, entries[i], w)
		}
	}
}
