package speech

import "io"

// AudioContext abstracts the hardware-backed audio output so the engine can
// run against real audio (oto) in production and a deterministic fake in
// tests.
type AudioContext interface {
	// NewPlayer creates a player that consumes PCM bytes from r.
	NewPlayer(r io.Reader) AudioPlayer

	// IsReady reports whether the context can produce sound. A context
	// that reports false is discarded and recreated by the engine.
	IsReady() bool
}

// AudioPlayer is a single in-flight sound output created from an
// AudioContext.
type AudioPlayer interface {
	// Play starts or resumes output. Non-blocking.
	Play()

	// IsPlaying reports whether the device is still consuming samples.
	// It turns false once the source is drained.
	IsPlaying() bool

	// Close terminates output immediately and releases device resources.
	// Safe to call more than once.
	Close() error
}

// ContextFactory creates an AudioContext on demand. The engine calls it
// lazily on first playback and again if the previous context reports a
// closed state.
type ContextFactory func() (AudioContext, error)
