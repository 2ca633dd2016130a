// Package speech provides the shared read-aloud pipeline: decoding
// synthesized audio payloads, single-voice playback, caching, and the
// per-panel controller that ties them together.
package speech

import (
	"context"
	"time"
)

// Audio format produced by the synthesis collaborator: mono 16-bit
// little-endian PCM at a fixed 24 kHz rate.
const (
	SampleRate = 24000
	Channels   = 1
	BitDepth   = 16
)

// Payload is a base64-encoded PCM sample stream as returned by the
// synthesis collaborator. Immutable once produced.
type Payload string

// Synthesizer converts text into a speech payload. Implementations live
// outside this package (the AI client, mocks in tests).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Payload, error)
}

// bytesPerSecond for the fixed format above.
const bytesPerSecond = SampleRate * Channels * (BitDepth / 8)

// durationOf returns the playback duration of a raw PCM byte slice.
func durationOf(pcmLen int) time.Duration {
	return time.Duration(pcmLen) * time.Second / bytesPerSecond
}
