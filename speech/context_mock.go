package speech

import (
	"io"
	"sync"
	"time"
)

// MockContext is a deterministic AudioContext for tests. It plays audio in
// wall-clock time scaled by Speed (0 means instant completion).
type MockContext struct {
	// Speed scales playback duration: 1.0 is real time, 0 finishes
	// immediately on the first IsPlaying poll.
	Speed float64

	// Ready controls IsReady. Defaults to true via NewMockContext.
	Ready bool

	mu      sync.Mutex
	players []*MockPlayer
}

// NewMockContext creates a ready mock context that completes playback
// instantly.
func NewMockContext() *MockContext {
	return &MockContext{Ready: true}
}

// NewPlayer creates a mock player. The reader is drained eagerly so the
// buffer length (and therefore the simulated duration) is known up front.
func (c *MockContext) NewPlayer(r io.Reader) AudioPlayer {
	data, _ := io.ReadAll(r)

	p := &MockPlayer{
		duration: time.Duration(float64(durationOf(len(data))) * c.Speed),
	}

	c.mu.Lock()
	c.players = append(c.players, p)
	c.mu.Unlock()

	return p
}

// IsReady reports the configured readiness.
func (c *MockContext) IsReady() bool { return c.Ready }

// Players returns every player created so far, in creation order.
func (c *MockContext) Players() []*MockPlayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*MockPlayer, len(c.players))
	copy(out, c.players)
	return out
}

// MockPlayer simulates a device player.
type MockPlayer struct {
	duration time.Duration

	mu      sync.Mutex
	playing bool
	started time.Time
	closed  bool
}

func (p *MockPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.playing {
		return
	}
	p.playing = true
	p.started = time.Now()
}

func (p *MockPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.playing {
		return false
	}
	if time.Since(p.started) >= p.duration {
		p.playing = false
	}
	return p.playing
}

func (p *MockPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.playing = false
	return nil
}

// Closed reports whether Close was called.
func (p *MockPlayer) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
