package speech

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateGenerating, "generating"},
		{StatePlaying, "playing"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("State.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStateMachineTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  State
		to    State
		valid bool
	}{
		{"idle to generating", StateIdle, StateGenerating, true},
		{"idle to playing (cache hit)", StateIdle, StatePlaying, true},
		{"generating to playing", StateGenerating, StatePlaying, true},
		{"generating to idle (failure)", StateGenerating, StateIdle, true},
		{"playing to idle", StatePlaying, StateIdle, true},
		{"playing to generating", StatePlaying, StateGenerating, false},
		{"self transition", StatePlaying, StatePlaying, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStateMachine()
			sm.current = tt.from

			if got := sm.Transition(tt.to); got != tt.valid {
				t.Errorf("Transition(%v) from %v = %v, want %v", tt.to, tt.from, got, tt.valid)
			}

			want := tt.from
			if tt.valid {
				want = tt.to
			}
			if sm.Current() != want {
				t.Errorf("Current() = %v, want %v", sm.Current(), want)
			}
		})
	}
}
