package chat

import (
	"context"
	"errors"
	"fmt"
)

// Service creates chat sessions bound to a fixed system context. The study
// document's text is baked in at session creation.
type Service interface {
	CreateSession(ctx context.Context, systemContext string) (Session, error)
}

// Session is an opaque conduit to the AI collaborator. One session per
// study document.
type Session interface {
	// SendStreaming sends a user message and returns a finite,
	// non-restartable stream of response fragments.
	SendStreaming(ctx context.Context, text string) (Stream, error)
}

// Stream yields response fragments in arrival order. Recv returns io.EOF
// when the response is complete.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Controller errors.
var (
	ErrEmptyMessage = errors.New("chat: empty message")
	ErrBusy         = errors.New("chat: a response is already in flight")
)

// StreamError indicates the chat stream aborted mid-flight. Partial
// content already received is preserved in the transcript.
type StreamError struct {
	Err error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("chat stream: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error { return e.Err }
