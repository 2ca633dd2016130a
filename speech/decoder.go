package speech

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"io"
	"time"
)

// Buffer is a decoded, playable sample buffer. It is derived from exactly
// one payload and consumed by exactly one playback attempt; callers must
// not share it across plays.
type Buffer struct {
	pcm []byte
}

// Decode converts a base64 payload into a playable buffer.
//
// The payload must decode to a byte length that is a multiple of the
// sample size (2 bytes per sample, mono). Malformed base64 or unaligned
// data yields a *DecodeError.
func Decode(p Payload) (*Buffer, error) {
	if len(p) == 0 {
		return nil, &DecodeError{Err: ErrEmptyPayload}
	}

	raw, err := base64.StdEncoding.DecodeString(string(p))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	sampleSize := Channels * (BitDepth / 8)
	if len(raw) == 0 {
		return nil, &DecodeError{Err: ErrEmptyPayload}
	}
	if len(raw)%sampleSize != 0 {
		return nil, &DecodeError{Err: ErrUnalignedPCM}
	}

	return &Buffer{pcm: raw}, nil
}

// Encode packs signed 16-bit samples into a payload. Used by synthesis
// clients that receive raw PCM, and by tests.
func Encode(samples []int16) Payload {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	return Payload(base64.StdEncoding.EncodeToString(raw))
}

// PCM returns the raw little-endian sample bytes for the audio device.
func (b *Buffer) PCM() []byte { return b.pcm }

// Len returns the PCM byte length.
func (b *Buffer) Len() int { return len(b.pcm) }

// Duration returns the playback duration at the fixed sample rate.
func (b *Buffer) Duration() time.Duration {
	return durationOf(len(b.pcm))
}

// bufferReader feeds PCM bytes to the audio device while holding a
// reference to the buffer, so the sample data stays alive for the whole
// playback.
type bufferReader struct {
	*bytes.Reader
	buf *Buffer
}

func newBufferReader(b *Buffer) io.Reader {
	return &bufferReader{Reader: bytes.NewReader(b.pcm), buf: b}
}

// Samples returns the buffer as normalized floating samples in [-1.0, 1.0],
// each 16-bit value divided by 32768.
func (b *Buffer) Samples() []float32 {
	out := make([]float32, len(b.pcm)/2)
	for i := range out {
		s := int16(binary.LittleEndian.Uint16(b.pcm[i*2:]))
		out[i] = float32(s) / 32768.0
	}
	return out
}
