package speech

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// otoContext implements AudioContext on top of oto/v3. The underlying oto
// context is created once per process and reused; oto itself does not
// support tearing one down and creating another, so IsReady only turns
// false when initialization failed.
type otoContext struct {
	ctx *oto.Context
	err error
}

var (
	otoOnce   sync.Once
	otoShared *otoContext
)

// NewOtoContext returns the process-wide oto-backed audio context,
// initializing the audio device on first call.
func NewOtoContext() (AudioContext, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   100 * time.Millisecond,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoShared = &otoContext{err: fmt.Errorf("create audio context: %w", err)}
			return
		}
		<-ready

		log.Debug("audio context initialized", "sample_rate", SampleRate, "channels", Channels)
		otoShared = &otoContext{ctx: ctx}
	})

	if otoShared.err != nil {
		return nil, otoShared.err
	}
	return otoShared, nil
}

// NewPlayer creates an oto player reading PCM bytes from r.
func (c *otoContext) NewPlayer(r io.Reader) AudioPlayer {
	return &otoPlayer{player: c.ctx.NewPlayer(r)}
}

// IsReady reports whether the device initialized successfully.
func (c *otoContext) IsReady() bool {
	return c.err == nil && c.ctx != nil
}

// otoPlayer adapts *oto.Player to the AudioPlayer interface.
type otoPlayer struct {
	player *oto.Player
	mu     sync.Mutex
	closed bool
}

func (p *otoPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.player.Play()
	}
}

func (p *otoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	return p.player.IsPlaying()
}

func (p *otoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	// Pause before close so the device stops pulling samples immediately.
	p.player.Pause()
	return p.player.Close()
}
