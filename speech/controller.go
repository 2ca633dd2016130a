package speech

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Controller mediates between one panel's "read this aloud" intent and the
// synthesis collaborator, cache, and shared playback engine. Each panel
// owns one controller; all controllers share one Engine, so starting any
// narration silences whatever was previously speaking.
type Controller struct {
	mu      sync.Mutex
	engine  *Engine
	cache   *Cache
	synth   Synthesizer
	machine *StateMachine

	// text is the subject of the current generation or playback.
	text string

	// req counts requests; bumping it supersedes any in-flight synthesis
	// or pending playback completion, whose late results are discarded.
	req uint64

	lastErr error
	onState func(State)
}

// NewController creates a controller on top of a shared engine and a
// panel-scoped cache.
func NewController(engine *Engine, cache *Cache, synth Synthesizer) *Controller {
	return &Controller{
		engine:  engine,
		cache:   cache,
		synth:   synth,
		machine: NewStateMachine(),
	}
}

// OnState registers a callback invoked on every state change. The callback
// must not call back into the controller.
func (c *Controller) OnState(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = fn
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Text returns the text currently being generated or played, if any.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Err returns the last synthesis or playback error.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Speak requests that text be read aloud.
//
// Invoking Speak on the text that is already playing (or still
// generating) cancels it instead of restarting, toggle style. Any
// other active narration is stopped unconditionally before the new
// request proceeds: cache hit goes straight to playback, cache miss
// synthesizes first. Speak blocks until playback has started (or failed),
// not until it finishes.
func (c *Controller) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	c.mu.Lock()

	// Toggle: a second request for the in-flight text means "stop".
	if c.machine.Current() != StateIdle && c.text == text {
		c.stopLocked()
		c.mu.Unlock()
		return nil
	}

	// Different text: silence whatever is active and supersede any
	// outstanding synthesis.
	c.stopLocked()

	if payload, ok := c.cache.Get(text); ok {
		err := c.playLocked(text, payload)
		c.mu.Unlock()
		return err
	}

	c.machine.Transition(StateGenerating)
	c.text = text
	c.req++
	id := c.req
	c.notifyLocked()
	c.mu.Unlock()

	payload, err := c.synth.Synthesize(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.req != id {
		// Superseded while the request was in flight; drop the result.
		log.Debug("discarding superseded synthesis", "text_len", len(text))
		return nil
	}

	if err != nil {
		serr := &SynthesisError{Text: text, Err: err}
		c.failLocked(serr)
		return serr
	}

	c.cache.Put(text, payload)
	return c.playLocked(text, payload)
}

// Stop cancels any generation or playback and returns to idle. Safe to
// call when already idle. Panels call this when they are dismissed so no
// orphaned audio keeps speaking.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// playLocked decodes payload and hands it to the engine. Callers hold c.mu.
func (c *Controller) playLocked(text string, payload Payload) error {
	buf, err := Decode(payload)
	if err != nil {
		log.Error("dropping undecodable payload", "err", err)
		c.failLocked(err)
		return err
	}

	handle, err := c.engine.Play(buf)
	if err != nil {
		log.Error("playback failed to start", "err", err)
		c.failLocked(err)
		return err
	}

	c.machine.Transition(StatePlaying)
	c.text = text
	c.req++
	id := c.req
	c.notifyLocked()

	go func() {
		<-handle.Done()
		c.playbackEnded(id)
	}()

	return nil
}

// playbackEnded fires when the engine reports the handle finished. A
// completion belonging to a superseded request is ignored.
func (c *Controller) playbackEnded(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.req != id || c.machine.Current() != StatePlaying {
		return
	}

	c.machine.Transition(StateIdle)
	c.text = ""
	c.notifyLocked()
}

// stopLocked supersedes in-flight work, stops the engine, and returns to
// idle. Callers hold c.mu.
func (c *Controller) stopLocked() {
	c.req++
	c.engine.Stop()

	if c.machine.Current() != StateIdle {
		c.machine.Transition(StateIdle)
		c.text = ""
		c.notifyLocked()
	}
}

// failLocked records err and returns to idle. Callers hold c.mu.
func (c *Controller) failLocked(err error) {
	c.lastErr = err
	c.machine.Transition(StateIdle)
	c.text = ""
	c.notifyLocked()
}

func (c *Controller) notifyLocked() {
	if c.onState != nil {
		c.onState(c.machine.Current())
	}
}
