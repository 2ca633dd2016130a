package speech

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Engine owns the single process-wide sound output. At most one playback is
// active at any instant: starting a new playback first terminates the
// previous one, so whatever was speaking falls silent.
type Engine struct {
	mu sync.Mutex

	factory ContextFactory
	ctx     AudioContext

	active *Handle
	player AudioPlayer
	gen    uint64

	pollInterval time.Duration
	closed       bool
}

// Handle identifies one playback attempt. Its Done channel is closed
// exactly once, either when the audio drains naturally or when the
// playback is stopped.
type Handle struct {
	id   uint64
	done chan struct{}
	once sync.Once
}

// Done returns a channel closed when this playback ends for any reason.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) finish() {
	h.once.Do(func() { close(h.done) })
}

// NewEngine creates an engine that opens the real audio device lazily on
// first playback.
func NewEngine() *Engine {
	return NewEngineWith(NewOtoContext)
}

// NewEngineWith creates an engine with a custom audio context factory.
// Used by tests to substitute a mock context.
func NewEngineWith(factory ContextFactory) *Engine {
	return &Engine{
		factory:      factory,
		pollInterval: 20 * time.Millisecond,
	}
}

// Play starts playback of buf and returns immediately. Any playback that
// is still running is stopped first, and its handle's Done channel fires
// before the new handle becomes active.
func (e *Engine) Play(buf *Buffer) (*Handle, error) {
	if buf == nil || buf.Len() == 0 {
		return nil, ErrEmptyPayload
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}

	e.stopLocked()

	if err := e.ensureContextLocked(); err != nil {
		return nil, err
	}

	e.gen++
	h := &Handle{id: e.gen, done: make(chan struct{})}

	player := e.ctx.NewPlayer(newBufferReader(buf))
	e.active = h
	e.player = player
	player.Play()

	log.Debug("playback started", "handle", h.id, "duration", buf.Duration())
	go e.watch(h, player)

	return h, nil
}

// Stop terminates the active playback, if any, releasing its output
// resources before returning. Calling Stop while idle is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// Playing reports whether a playback is currently active.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active != nil
}

// Close stops playback and marks the engine unusable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.closed = true
}

// stopLocked terminates the active handle. Callers hold e.mu.
func (e *Engine) stopLocked() {
	if e.active == nil {
		return
	}

	log.Debug("playback stopped", "handle", e.active.id)
	if e.player != nil {
		_ = e.player.Close()
		e.player = nil
	}

	e.active.finish()
	e.active = nil
}

// ensureContextLocked creates the audio context on first use and recreates
// it if the previous one reports a closed state.
func (e *Engine) ensureContextLocked() error {
	if e.ctx != nil && e.ctx.IsReady() {
		return nil
	}

	ctx, err := e.factory()
	if err != nil {
		return err
	}
	e.ctx = ctx
	return nil
}

// watch polls the device player until the audio drains, then completes the
// handle. A watcher whose handle is no longer active exits without
// touching engine state; completions from a since-stopped playback must
// never clear state belonging to a newer handle.
func (e *Engine) watch(h *Handle, player AudioPlayer) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		e.mu.Lock()
		if e.active != h {
			// Stale: the handle was stopped or superseded.
			e.mu.Unlock()
			return
		}
		if !player.IsPlaying() {
			_ = player.Close()
			e.player = nil
			e.active = nil
			h.finish()
			e.mu.Unlock()
			log.Debug("playback completed", "handle", h.id)
			return
		}
		e.mu.Unlock()
	}
}
