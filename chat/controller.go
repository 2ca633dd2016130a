package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// State represents the controller's position in a send cycle.
type State int

const (
	// StateReady means the controller can accept a message.
	StateReady State = iota
	// StateSending means a message was sent and no fragment has arrived.
	StateSending
	// StateStreaming means response fragments are arriving.
	StateStreaming
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// apologyMessage replaces the assistant placeholder when a response fails
// before any fragment arrived.
const apologyMessage = "Sorry, I ran into a problem answering that. Please try again."

// Controller owns one chat session and its transcript. It accepts one
// message at a time; the UI disables input while a response is in flight.
type Controller struct {
	mu         sync.Mutex
	session    Session
	transcript Transcript
	state      State
	failed     bool
	onChange   func()
}

// NewController creates a controller over an established session.
func NewController(session Session) *Controller {
	return &Controller{session: session}
}

// OnChange registers a callback fired after every transcript or state
// mutation. The callback must not call back into the controller.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Failed reports whether the most recent response ended in an error. The
// flag resets on the next send.
func (c *Controller) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// Transcript returns a copy of the conversation so far.
func (c *Controller) Transcript() []Entry {
	return c.transcript.Entries()
}

// Send submits a user message and consumes the streamed response,
// appending each fragment to the assistant entry in arrival order. It
// blocks until the stream completes, so callers run it off the UI loop.
//
// An empty (post-trim) message returns ErrEmptyMessage with the
// transcript untouched. A send while a response is in flight returns
// ErrBusy.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateSending
	c.failed = false
	c.transcript.Append(Entry{Role: RoleUser, Content: text})
	c.transcript.Append(Entry{Role: RoleAssistant})
	c.notifyLocked()
	c.mu.Unlock()

	stream, err := c.session.SendStreaming(ctx, text)
	if err != nil {
		return c.fail(err)
	}
	defer stream.Close()

	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c.fail(err)
		}
		if fragment == "" {
			continue
		}

		c.mu.Lock()
		c.state = StateStreaming
		c.transcript.AppendToLast(fragment)
		c.notifyLocked()
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.state = StateReady
	c.notifyLocked()
	c.mu.Unlock()
	return nil
}

// fail records a stream failure. If no fragment arrived, the empty
// assistant placeholder is replaced with a fixed apology; partial content
// is kept and only the error flag is raised.
func (c *Controller) fail(cause error) error {
	log.Warn("chat stream failed", "err", cause)

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.transcript.Last(); ok && last.Role == RoleAssistant && last.Content == "" {
		c.transcript.ReplaceLast(apologyMessage)
	}

	c.failed = true
	c.state = StateReady
	c.notifyLocked()

	return &StreamError{Err: cause}
}

func (c *Controller) notifyLocked() {
	if c.onChange != nil {
		c.onChange()
	}
}
