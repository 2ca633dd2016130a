package speech

import (
	"testing"
	"time"
)

func longBuffer(t *testing.T) *Buffer {
	t.Helper()
	// Ten seconds of audio so playback never drains during a test.
	buf, err := Decode(Encode(make([]int16, SampleRate*10)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return buf
}

func newTestEngine(ctx *MockContext) *Engine {
	e := NewEngineWith(func() (AudioContext, error) { return ctx, nil })
	e.pollInterval = time.Millisecond
	return e
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for playback completion")
	}
}

// TestPlayStopsPrevious checks the at-most-one-playback invariant: starting
// a new playback terminates the previous handle first.
func TestPlayStopsPrevious(t *testing.T) {
	ctx := NewMockContext()
	ctx.Speed = 1.0
	engine := newTestEngine(ctx)

	first, err := engine.Play(longBuffer(t))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	second, err := engine.Play(longBuffer(t))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	// The first handle must already be complete.
	select {
	case <-first.Done():
	default:
		t.Error("first handle not completed after second Play()")
	}

	players := ctx.Players()
	if len(players) != 2 {
		t.Fatalf("players = %d, want 2", len(players))
	}
	if !players[0].Closed() {
		t.Error("first device player not closed")
	}
	if players[1].Closed() {
		t.Error("second device player closed prematurely")
	}

	select {
	case <-second.Done():
		t.Error("second handle completed prematurely")
	default:
	}

	if !engine.Playing() {
		t.Error("Playing() = false while second playback active")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	engine := newTestEngine(NewMockContext())

	// Stop while idle is a no-op.
	engine.Stop()

	ctx := NewMockContext()
	ctx.Speed = 1.0
	engine = newTestEngine(ctx)

	h, err := engine.Play(longBuffer(t))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	engine.Stop()
	waitDone(t, h)

	if engine.Playing() {
		t.Error("Playing() = true after Stop()")
	}

	// And again, already stopped.
	engine.Stop()
}

func TestNaturalCompletion(t *testing.T) {
	// Speed 0: the mock drains instantly, so the watcher completes the
	// handle on its first poll.
	engine := newTestEngine(NewMockContext())

	h, err := engine.Play(longBuffer(t))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	waitDone(t, h)

	if engine.Playing() {
		t.Error("Playing() = true after natural completion")
	}
}

// TestStaleCompletionIgnored starts playback A, stops it, starts playback
// B, and checks that A's deferred completion does not clear B's state.
func TestStaleCompletionIgnored(t *testing.T) {
	ctx := NewMockContext()
	ctx.Speed = 1.0
	engine := newTestEngine(ctx)

	a, err := engine.Play(longBuffer(t))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	engine.Stop()
	waitDone(t, a)

	b, err := engine.Play(longBuffer(t))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	// Give A's watcher goroutine time to observe it is stale.
	time.Sleep(20 * time.Millisecond)

	select {
	case <-b.Done():
		t.Error("stale completion cleared the active playback")
	default:
	}

	if !engine.Playing() {
		t.Error("Playing() = false while B should still be active")
	}

	players := ctx.Players()
	if players[1].Closed() {
		t.Error("active device player was closed by stale completion")
	}
}

func TestPlayRejectsEmptyBuffer(t *testing.T) {
	engine := newTestEngine(NewMockContext())

	if _, err := engine.Play(nil); err == nil {
		t.Error("Play(nil) expected error")
	}
	if _, err := engine.Play(&Buffer{}); err == nil {
		t.Error("Play(empty) expected error")
	}
}

func TestPlayAfterClose(t *testing.T) {
	engine := newTestEngine(NewMockContext())
	engine.Close()

	if _, err := engine.Play(longBuffer(t)); err != ErrEngineClosed {
		t.Errorf("Play() after Close error = %v, want ErrEngineClosed", err)
	}
}

func TestContextRecreatedWhenClosed(t *testing.T) {
	created := 0
	var current *MockContext

	engine := NewEngineWith(func() (AudioContext, error) {
		created++
		current = NewMockContext()
		return current, nil
	})
	engine.pollInterval = time.Millisecond

	h, _ := engine.Play(longBuffer(t))
	waitDone(t, h)
	if created != 1 {
		t.Fatalf("contexts created = %d, want 1", created)
	}

	// Device reports closed: the next Play must recreate the context.
	current.Ready = false

	h, _ = engine.Play(longBuffer(t))
	waitDone(t, h)
	if created != 2 {
		t.Errorf("contexts created = %d, want 2 after device closed", created)
	}
}
