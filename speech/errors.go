package speech

import (
	"errors"
	"fmt"
)

// Common errors for the speech pipeline.
var (
	ErrEmptyPayload  = errors.New("empty audio payload")
	ErrUnalignedPCM  = errors.New("PCM data is not aligned to sample size")
	ErrEmptyText     = errors.New("no text to speak")
	ErrEngineClosed  = errors.New("playback engine is closed")
	ErrNoAudioOutput = errors.New("audio output is not available")
)

// DecodeError indicates a malformed audio payload. Playback must not be
// attempted after a decode failure.
type DecodeError struct {
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode audio payload: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// SynthesisError indicates that speech generation failed for a given text.
// It is recoverable: the panel may retry the same action.
type SynthesisError struct {
	Text string
	Err  error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize speech: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error { return e.Err }
